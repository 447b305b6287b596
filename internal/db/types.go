package db

import (
	"time"

	"github.com/google/uuid"
)

// CompositeKey uniquely identifies a job posting from a trackable source.
type CompositeKey struct {
	Provider      string
	TenantSlug    string
	ExternalJobID string
}

// JobRecord is one tracked job posting, identified by its composite key.
// Records are never hard-deleted; when the source becomes unreachable the
// record is marked inactive and last_seen is stamped.
type JobRecord struct {
	ID             uuid.UUID  `json:"id"`
	Provider       string     `json:"provider"`
	TenantSlug     string     `json:"tenant_slug"`
	ExternalJobID  string     `json:"external_job_id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	URL            string     `json:"url"`
	FirstPublished *time.Time `json:"first_published,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"` // source-reported
	LastSeen       time.Time  `json:"last_seen"`            // system-observed
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// JobFeatures holds the normalized structured attributes of a record,
// replaced wholesale on every re-ingest.
type JobFeatures struct {
	JobID            uuid.UUID `json:"job_id"`
	SalaryMin        *float64  `json:"salary_min,omitempty"`
	SalaryMax        *float64  `json:"salary_max,omitempty"`
	Currency         string    `json:"currency,omitempty"`
	TimeType         string    `json:"time_type,omitempty"`
	Department       string    `json:"department,omitempty"`
	SalaryProvenance string    `json:"salary_provenance,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// JobUpdateEvent is one observed source-reported update timestamp. The log
// is append-only and rows exist only for values strictly newer than the
// previously recorded one.
type JobUpdateEvent struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	UpdatedAt  time.Time `json:"updated_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// JobSnapshot is one content/metadata fingerprint of a posting at capture
// time. The simhash columns are stored as BIGINT; the hex columns are
// SHA-256 digests.
type JobSnapshot struct {
	ID              uuid.UUID  `json:"id"`
	JobID           uuid.UUID  `json:"job_id"`
	TakenAt         time.Time  `json:"taken_at"`
	SourceUpdatedAt *time.Time `json:"source_updated_at,omitempty"`
	ContentHash     string     `json:"content_hash"`
	MetadataHash    string     `json:"metadata_hash"`
	ContentSimhash  uint64     `json:"content_simhash"`
	MetadataSimhash uint64     `json:"metadata_simhash"`
	RawPayload      []byte     `json:"raw_payload,omitempty"`
}

// RequestLock is the per-user admission row: a best-effort single-flight
// gate plus a token allotment.
type RequestLock struct {
	UserID          string    `json:"user_id"`
	IsAvailable     bool      `json:"is_available"`
	TokensRemaining int       `json:"tokens_remaining"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultFreshWindow is how long a cached record satisfies a lookup
// without re-ingesting.
const DefaultFreshWindow = 24 * time.Hour

// InitialTokens is the allotment granted when a RequestLock row is lazily
// created on a user's first request.
const InitialTokens = 3

// UpdateEventReadCap bounds how much update history feeds the cadence
// analyzer; the log itself grows without bound.
const UpdateEventReadCap = 50

// IsFresh reports whether the record was seen within the given window.
func (r *JobRecord) IsFresh(window time.Duration) bool {
	if window <= 0 {
		window = DefaultFreshWindow
	}
	return time.Since(r.LastSeen) < window
}

// JobRecordUpsertInput is used when creating or refreshing a job record.
type JobRecordUpsertInput struct {
	Key            CompositeKey
	Title          string
	Company        string
	Location       string
	URL            string
	FirstPublished *time.Time
	UpdatedAt      *time.Time
}

// JobFeaturesInput is used when replacing a record's features.
type JobFeaturesInput struct {
	SalaryMin        *float64
	SalaryMax        *float64
	Currency         string
	TimeType         string
	Department       string
	SalaryProvenance string
}

// SnapshotInput is used when appending a snapshot.
type SnapshotInput struct {
	SourceUpdatedAt *time.Time
	ContentHash     string
	MetadataHash    string
	ContentSimhash  uint64
	MetadataSimhash uint64
	RawPayload      []byte
}
