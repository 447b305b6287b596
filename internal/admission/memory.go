package admission

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLockStore is an in-process LockStore for ephemeral use and tests.
// It deliberately implements only the two-step contract, exercising the
// controller's compensation path.
type MemoryLockStore struct {
	mu            sync.Mutex
	locks         map[string]*memoryLock
	initialTokens int

	// FailDecrement forces DecrementTokens to error, for exercising
	// compensation in tests.
	FailDecrement bool
}

type memoryLock struct {
	isAvailable     bool
	tokensRemaining int
}

// NewMemoryLockStore creates a store granting each new user the given
// token allotment.
func NewMemoryLockStore(initialTokens int) *MemoryLockStore {
	return &MemoryLockStore{
		locks:         make(map[string]*memoryLock),
		initialTokens: initialTokens,
	}
}

// CreateRequestLock lazily creates the user's lock.
func (s *MemoryLockStore) CreateRequestLock(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locks[userID]; !ok {
		s.locks[userID] = &memoryLock{isAvailable: true, tokensRemaining: s.initialTokens}
	}
	return nil
}

// CloseLock flips availability off when currently open.
func (s *MemoryLockStore) CloseLock(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok || !lock.isAvailable {
		return false, nil
	}
	lock.isAvailable = false
	return true, nil
}

// DecrementTokens consumes one token.
func (s *MemoryLockStore) DecrementTokens(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDecrement {
		return 0, fmt.Errorf("simulated decrement failure for user %s", userID)
	}
	lock, ok := s.locks[userID]
	if !ok {
		return 0, fmt.Errorf("no lock for user %s", userID)
	}
	if lock.tokensRemaining <= 0 {
		return 0, fmt.Errorf("no tokens remaining for user %s", userID)
	}
	lock.tokensRemaining--
	return lock.tokensRemaining, nil
}

// SetLockAvailable unconditionally reopens the lock.
func (s *MemoryLockStore) SetLockAvailable(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		return fmt.Errorf("no lock for user %s", userID)
	}
	lock.isAvailable = true
	return nil
}

// Snapshot returns the current state of a user's lock, for tests.
func (s *MemoryLockStore) Snapshot(userID string) (isAvailable bool, tokensRemaining int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, found := s.locks[userID]
	if !found {
		return false, 0, false
	}
	return lock.isAvailable, lock.tokensRemaining, true
}
