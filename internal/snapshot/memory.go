package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ghostwatch/internal/db"
)

// MemoryStore is an in-process Store used for ephemeral (untracked) jobs
// and tests. Snapshots for untrackable providers never reach Postgres; the
// pipeline scores them against a throwaway store instead.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID][]db.JobSnapshot
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[uuid.UUID][]db.JobSnapshot)}
}

// InsertSnapshot appends a snapshot for a job.
func (s *MemoryStore) InsertSnapshot(_ context.Context, jobID uuid.UUID, input *db.SnapshotInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := db.JobSnapshot{
		ID:              uuid.New(),
		JobID:           jobID,
		TakenAt:         time.Now(),
		SourceUpdatedAt: input.SourceUpdatedAt,
		ContentHash:     input.ContentHash,
		MetadataHash:    input.MetadataHash,
		ContentSimhash:  input.ContentSimhash,
		MetadataSimhash: input.MetadataSimhash,
		RawPayload:      input.RawPayload,
	}
	s.snapshots[jobID] = append(s.snapshots[jobID], snap)
	return snap.ID, nil
}

// LatestSnapshot returns the most recently appended snapshot, or nil.
func (s *MemoryStore) LatestSnapshot(_ context.Context, jobID uuid.UUID) (*db.JobSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.snapshots[jobID]
	if len(chain) == 0 {
		return nil, nil
	}
	latest := chain[len(chain)-1]
	return &latest, nil
}

// ListSnapshots returns the chain in capture order.
func (s *MemoryStore) ListSnapshots(_ context.Context, jobID uuid.UUID) ([]db.JobSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.snapshots[jobID]
	out := make([]db.JobSnapshot, len(chain))
	copy(out, chain)
	return out, nil
}
