// Package snapshot tracks a posting's evolution over time as a chain of
// content-addressed fingerprints and classifies how meaningful the changes
// between observations are.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ghostwatch/internal/db"
	"github.com/jonathan/ghostwatch/internal/hashing"
)

// DefaultSignificanceThreshold is the Hamming distance (of 64 bits) above
// which two fingerprints count as a genuine content edit rather than a
// near-identical repost.
const DefaultSignificanceThreshold = 10

// Store is the persistence surface the engine needs.
type Store interface {
	InsertSnapshot(ctx context.Context, jobID uuid.UUID, input *db.SnapshotInput) (uuid.UUID, error)
	LatestSnapshot(ctx context.Context, jobID uuid.UUID) (*db.JobSnapshot, error)
	ListSnapshots(ctx context.Context, jobID uuid.UUID) ([]db.JobSnapshot, error)
}

// Payload is one observation of a posting.
type Payload struct {
	Content         string
	Meta            hashing.Metadata
	SourceUpdatedAt *time.Time
	Raw             []byte
}

// Engine records snapshots and answers change-significance questions.
type Engine struct {
	store     Store
	threshold int
}

// NewEngine creates an engine with the default significance threshold.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, threshold: DefaultSignificanceThreshold}
}

// WithThreshold overrides the significance threshold.
func (e *Engine) WithThreshold(threshold int) *Engine {
	e.threshold = threshold
	return e
}

// Record fingerprints the observation and appends a snapshot when the gate
// allows it. The gate is the source's own change signal: the first
// observation of a job is always snapshotted; later observations only when
// the source-reported updated_at differs from the latest snapshot's
// recorded value (a transition from or to null counts as a difference).
// Content drift without an updated_at bump is deliberately not snapshotted;
// hashes classify the quality of gated changes, they do not gate.
// Returns the new snapshot id and whether one was created.
func (e *Engine) Record(ctx context.Context, jobID uuid.UUID, payload Payload) (uuid.UUID, bool, error) {
	latest, err := e.store.LatestSnapshot(ctx, jobID)
	if err != nil {
		return uuid.Nil, false, err
	}

	if latest != nil && !updatedAtDiffers(latest.SourceUpdatedAt, payload.SourceUpdatedAt) {
		return uuid.Nil, false, nil
	}

	metadataHash, err := hashing.MetadataHash(payload.Meta)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to fingerprint metadata: %w", err)
	}

	metaText := fmt.Sprintf("%s %s %s", payload.Meta.Title, payload.Meta.Company, payload.Meta.Location)
	input := &db.SnapshotInput{
		SourceUpdatedAt: payload.SourceUpdatedAt,
		ContentHash:     hashing.ContentHash(payload.Content),
		MetadataHash:    metadataHash,
		ContentSimhash:  hashing.Simhash(payload.Content),
		MetadataSimhash: hashing.Simhash(metaText),
		RawPayload:      payload.Raw,
	}

	id, err := e.store.InsertSnapshot(ctx, jobID, input)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// Latest returns the most recent snapshot, or nil when none exists.
func (e *Engine) Latest(ctx context.Context, jobID uuid.UUID) (*db.JobSnapshot, error) {
	return e.store.LatestSnapshot(ctx, jobID)
}

// All returns the full snapshot chain in capture order.
func (e *Engine) All(ctx context.Context, jobID uuid.UUID) ([]db.JobSnapshot, error) {
	return e.store.ListSnapshots(ctx, jobID)
}

// IsSignificantChange reports whether two fingerprints differ by more than
// the engine's threshold.
func (e *Engine) IsSignificantChange(a, b uint64) bool {
	return hashing.HammingDistance(a, b) > e.threshold
}

// updatedAtDiffers treats nil as a distinct value: null-to-timestamp and
// timestamp-to-null transitions both count as changes.
func updatedAtDiffers(prev, next *time.Time) bool {
	if prev == nil && next == nil {
		return false
	}
	if prev == nil || next == nil {
		return true
	}
	return !prev.Equal(*next)
}
