// Package cache is the dedup layer deciding whether a previously seen
// posting can be reused or must be re-ingested from its source. It owns the
// JobRecord, JobFeatures, and JobUpdateEvent rows.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ghostwatch/internal/db"
	"github.com/jonathan/ghostwatch/internal/hashing"
	"github.com/jonathan/ghostwatch/internal/snapshot"
	"github.com/jonathan/ghostwatch/internal/source"
	"github.com/jonathan/ghostwatch/internal/validation"
)

// ErrPostingGone signals the source no longer returns a posting for an
// existing record. The record has been marked inactive.
var ErrPostingGone = errors.New("the posting is no longer available at its source")

// ErrNotFound signals the source never had a posting at the given URL.
var ErrNotFound = errors.New("no job posting could be retrieved from the URL")

// Store is the persistence surface the layer needs.
type Store interface {
	GetJobRecordByKey(ctx context.Context, key db.CompositeKey) (*db.JobRecord, error)
	UpsertJobRecord(ctx context.Context, input *db.JobRecordUpsertInput) (*db.JobRecord, error)
	MarkJobInactive(ctx context.Context, jobID uuid.UUID) error
	GetJobFeatures(ctx context.Context, jobID uuid.UUID) (*db.JobFeatures, error)
	ReplaceJobFeatures(ctx context.Context, jobID uuid.UUID, input *db.JobFeaturesInput) (*db.JobFeatures, error)
	InsertUpdateEvent(ctx context.Context, jobID uuid.UUID, updatedAt time.Time) (bool, error)
	ListUpdateEvents(ctx context.Context, jobID uuid.UUID) ([]db.JobUpdateEvent, error)
}

// Result is the outcome of a lookup.
type Result struct {
	Record   *db.JobRecord
	Features *db.JobFeatures
	CacheHit bool

	// Job is the freshly fetched adapter output; nil on a cache hit.
	Job *source.AdapterJob
	// SnapshotCreated reports whether the re-ingest appended a snapshot.
	SnapshotCreated bool
}

// Layer implements lookup-or-refresh over the store, the source fetcher,
// and the snapshot engine.
type Layer struct {
	store       Store
	fetcher     source.Fetcher
	snapshots   *snapshot.Engine
	freshWindow time.Duration
}

// NewLayer creates a cache layer. freshWindow <= 0 uses the default 24h.
func NewLayer(store Store, fetcher source.Fetcher, snapshots *snapshot.Engine, freshWindow time.Duration) *Layer {
	if freshWindow <= 0 {
		freshWindow = db.DefaultFreshWindow
	}
	return &Layer{store: store, fetcher: fetcher, snapshots: snapshots, freshWindow: freshWindow}
}

// LookupOrRefresh returns the cached record when it is fresh and complete,
// otherwise re-ingests from the source. Only trackable providers belong
// here; untrackable postings go through FetchEphemeral and are never
// persisted.
//
// When a re-ingest is about to overwrite the record's source-reported
// updated_at with a different value, the previous value is appended to the
// update-event log strictly before the upsert, so cadence analysis always
// compares against the true prior value.
func (l *Layer) LookupOrRefresh(ctx context.Context, key db.CompositeKey, url string) (*Result, error) {
	record, err := l.store.GetJobRecordByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if record != nil {
		features, err := l.store.GetJobFeatures(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		if features != nil && record.IsActive && record.IsFresh(l.freshWindow) {
			return &Result{Record: record, Features: features, CacheHit: true}, nil
		}
	}

	job, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("source fetch failed: %w", err)
	}
	if job == nil {
		if record != nil {
			if err := l.store.MarkJobInactive(ctx, record.ID); err != nil {
				log.Printf("[cache] failed to mark job %s inactive: %v", record.ID, err)
			}
			return nil, ErrPostingGone
		}
		return nil, ErrNotFound
	}

	if _, err := validation.CheckPosting(job); err != nil {
		return nil, err
	}

	if record != nil && record.UpdatedAt != nil && updatedAtChanged(record.UpdatedAt, job.UpdatedAt) {
		if _, err := l.store.InsertUpdateEvent(ctx, record.ID, *record.UpdatedAt); err != nil {
			log.Printf("[cache] failed to record update event for job %s: %v", record.ID, err)
		}
	}

	// A failed record-id allocation is fatal for the request; everything
	// after it degrades gracefully.
	record, err = l.store.UpsertJobRecord(ctx, &db.JobRecordUpsertInput{
		Key:            key,
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		URL:            job.URL,
		FirstPublished: job.FirstPublished,
		UpdatedAt:      job.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}

	features := l.replaceFeatures(ctx, record.ID, job)

	created := l.recordSnapshot(ctx, record.ID, job)

	return &Result{
		Record:          record,
		Features:        features,
		Job:             job,
		SnapshotCreated: created,
	}, nil
}

// FetchEphemeral fetches and validates a posting without touching the
// cache. Used for untrackable providers, which are scored in isolation.
func (l *Layer) FetchEphemeral(ctx context.Context, url string) (*source.AdapterJob, error) {
	job, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("source fetch failed: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	if _, err := validation.CheckPosting(job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateHistory returns the observed update timestamps for a job in
// ascending order, capped to the most recent entries.
func (l *Layer) UpdateHistory(ctx context.Context, jobID uuid.UUID) ([]time.Time, error) {
	events, err := l.store.ListUpdateEvents(ctx, jobID)
	if err != nil {
		return nil, err
	}
	timestamps := make([]time.Time, len(events))
	for i, e := range events {
		timestamps[i] = e.UpdatedAt
	}
	return timestamps, nil
}

// replaceFeatures recomputes the features row. A write failure is logged
// and the features are returned in-memory so scoring still sees them.
func (l *Layer) replaceFeatures(ctx context.Context, jobID uuid.UUID, job *source.AdapterJob) *db.JobFeatures {
	input := featuresInput(job)
	features, err := l.store.ReplaceJobFeatures(ctx, jobID, input)
	if err != nil {
		log.Printf("[cache] failed to replace features for job %s: %v", jobID, err)
		return &db.JobFeatures{
			JobID:            jobID,
			SalaryMin:        input.SalaryMin,
			SalaryMax:        input.SalaryMax,
			Currency:         input.Currency,
			TimeType:         input.TimeType,
			Department:       input.Department,
			SalaryProvenance: input.SalaryProvenance,
			UpdatedAt:        time.Now(),
		}
	}
	return features
}

func (l *Layer) recordSnapshot(ctx context.Context, jobID uuid.UUID, job *source.AdapterJob) bool {
	_, created, err := l.snapshots.Record(ctx, jobID, snapshot.Payload{
		Content:         job.Content,
		Meta:            snapshotMeta(job),
		SourceUpdatedAt: job.UpdatedAt,
		Raw:             job.RawPayload,
	})
	if err != nil {
		log.Printf("[cache] failed to snapshot job %s: %v", jobID, err)
		return false
	}
	return created
}

func featuresInput(job *source.AdapterJob) *db.JobFeaturesInput {
	input := &db.JobFeaturesInput{}
	if f := job.Features; f != nil {
		input.SalaryMin = f.SalaryMin
		input.SalaryMax = f.SalaryMax
		input.Currency = f.Currency
		input.TimeType = f.TimeType
		input.Department = f.Department
		input.SalaryProvenance = f.SalaryProvenance
	}
	return input
}

// updatedAtChanged reports whether the source moved its change signal.
// A transition to null counts as a change.
func updatedAtChanged(prev, next *time.Time) bool {
	if next == nil {
		return true
	}
	return !prev.Equal(*next)
}

func snapshotMeta(job *source.AdapterJob) hashing.Metadata {
	meta := hashing.Metadata{
		Title:         job.Title,
		Company:       job.Company,
		Location:      job.Location,
		RequisitionID: job.RequisitionID,
	}
	if job.FirstPublished != nil {
		meta.FirstPublished = job.FirstPublished.UTC().Format(time.RFC3339)
	}
	return meta
}
