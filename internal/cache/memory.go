package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ghostwatch/internal/db"
)

// MemoryStore is an in-process Store for tests. It mirrors the Postgres
// semantics: composite-key upserts never duplicate, update events are
// inserted only when strictly newer, and reads come back in ascending
// order capped at the read limit.
type MemoryStore struct {
	mu       sync.Mutex
	records  map[db.CompositeKey]*db.JobRecord
	features map[uuid.UUID]*db.JobFeatures
	events   map[uuid.UUID][]db.JobUpdateEvent
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[db.CompositeKey]*db.JobRecord),
		features: make(map[uuid.UUID]*db.JobFeatures),
		events:   make(map[uuid.UUID][]db.JobUpdateEvent),
	}
}

// GetJobRecordByKey returns a copy of the record, or nil.
func (s *MemoryStore) GetJobRecordByKey(_ context.Context, key db.CompositeKey) (*db.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// UpsertJobRecord creates or refreshes a record by composite key.
func (s *MemoryStore) UpsertJobRecord(_ context.Context, input *db.JobRecordUpsertInput) (*db.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[input.Key]
	if !ok {
		record = &db.JobRecord{
			ID:            uuid.New(),
			Provider:      input.Key.Provider,
			TenantSlug:    input.Key.TenantSlug,
			ExternalJobID: input.Key.ExternalJobID,
			CreatedAt:     time.Now(),
		}
		s.records[input.Key] = record
	}
	record.Title = input.Title
	record.Company = input.Company
	record.Location = input.Location
	record.URL = input.URL
	if input.FirstPublished != nil {
		record.FirstPublished = input.FirstPublished
	}
	record.UpdatedAt = input.UpdatedAt
	record.LastSeen = time.Now()
	record.IsActive = true

	copied := *record
	return &copied, nil
}

// MarkJobInactive flags the record and stamps last_seen.
func (s *MemoryStore) MarkJobInactive(_ context.Context, jobID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.records {
		if record.ID == jobID {
			record.IsActive = false
			record.LastSeen = time.Now()
			return nil
		}
	}
	return nil
}

// GetJobFeatures returns a copy of the features row, or nil.
func (s *MemoryStore) GetJobFeatures(_ context.Context, jobID uuid.UUID) (*db.JobFeatures, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	features, ok := s.features[jobID]
	if !ok {
		return nil, nil
	}
	copied := *features
	return &copied, nil
}

// ReplaceJobFeatures upserts the features row wholesale.
func (s *MemoryStore) ReplaceJobFeatures(_ context.Context, jobID uuid.UUID, input *db.JobFeaturesInput) (*db.JobFeatures, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	features := &db.JobFeatures{
		JobID:            jobID,
		SalaryMin:        input.SalaryMin,
		SalaryMax:        input.SalaryMax,
		Currency:         input.Currency,
		TimeType:         input.TimeType,
		Department:       input.Department,
		SalaryProvenance: input.SalaryProvenance,
		UpdatedAt:        time.Now(),
	}
	s.features[jobID] = features
	copied := *features
	return &copied, nil
}

// InsertUpdateEvent appends only strictly newer values.
func (s *MemoryStore) InsertUpdateEvent(_ context.Context, jobID uuid.UUID, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events[jobID] {
		if !updatedAt.After(e.UpdatedAt) {
			return false, nil
		}
	}
	s.events[jobID] = append(s.events[jobID], db.JobUpdateEvent{
		ID:         uuid.New(),
		JobID:      jobID,
		UpdatedAt:  updatedAt,
		RecordedAt: time.Now(),
	})
	return true, nil
}

// ListUpdateEvents returns the most recent entries in ascending order.
func (s *MemoryStore) ListUpdateEvents(_ context.Context, jobID uuid.UUID) ([]db.JobUpdateEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]db.JobUpdateEvent, len(s.events[jobID]))
	copy(events, s.events[jobID])
	sort.Slice(events, func(i, j int) bool { return events[i].UpdatedAt.Before(events[j].UpdatedAt) })
	if len(events) > db.UpdateEventReadCap {
		events = events[len(events)-db.UpdateEventReadCap:]
	}
	return events, nil
}
