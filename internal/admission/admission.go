// Package admission gates analysis requests per user with a lock-plus-token
// mechanism. The lock is a best-effort single-flight gate, not a distributed
// mutex: the protected work (scrape plus NLP call) only needs mostly-one-at-
// a-time, and the narrow race between two concurrent acquires on stores
// without multi-field conditional updates is an accepted limitation.
package admission

import (
	"context"
	"fmt"
	"log"
)

// Decision is the outcome of an acquire attempt.
type Decision struct {
	Granted         bool `json:"granted"`
	TokensRemaining int  `json:"tokens_remaining"`
}

// LockStore is the minimal storage contract: lazy row creation plus atomic
// single-row conditional updates.
type LockStore interface {
	// CreateRequestLock lazily creates the user's lock row with the initial
	// token allotment; creating an existing row is a no-op.
	CreateRequestLock(ctx context.Context, userID string) error
	// CloseLock flips availability off; returns false when the lock was
	// already held.
	CloseLock(ctx context.Context, userID string) (bool, error)
	// DecrementTokens consumes one token, erroring when none remain.
	DecrementTokens(ctx context.Context, userID string) (int, error)
	// SetLockAvailable unconditionally reopens the lock.
	SetLockAvailable(ctx context.Context, userID string) error
}

// AtomicLockStore is implemented by stores that can express "flip and
// decrement together" as one conditional write (Postgres, Redis Lua). When
// available it replaces the two-step sequence entirely.
type AtomicLockStore interface {
	AcquireRequestLock(ctx context.Context, userID string) (granted bool, remaining int, err error)
}

// Controller enforces per-user admission.
type Controller struct {
	store LockStore
}

// NewController creates an admission controller over the given store.
func NewController(store LockStore) *Controller {
	return &Controller{store: store}
}

// Acquire attempts to claim the user's lock and consume one token. The row
// is created lazily on first sight. Granting requires the lock to be
// available with tokens remaining; on stores without an atomic combined
// update the controller flips availability first, then decrements, and
// compensates by restoring availability if the decrement fails - an
// in-flight failure must never leave the lock permanently closed.
func (c *Controller) Acquire(ctx context.Context, userID string) (Decision, error) {
	if err := c.store.CreateRequestLock(ctx, userID); err != nil {
		return Decision{}, fmt.Errorf("failed to initialize request lock: %w", err)
	}

	if atomic, ok := c.store.(AtomicLockStore); ok {
		granted, remaining, err := atomic.AcquireRequestLock(ctx, userID)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Granted: granted, TokensRemaining: remaining}, nil
	}

	closed, err := c.store.CloseLock(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if !closed {
		return Decision{Granted: false}, nil
	}

	remaining, err := c.store.DecrementTokens(ctx, userID)
	if err != nil {
		// Compensate: the flip landed but the token did not, so reopen the
		// lock before reporting denial.
		if rerr := c.store.SetLockAvailable(ctx, userID); rerr != nil {
			log.Printf("[admission] failed to compensate lock for user %s: %v", userID, rerr)
		}
		return Decision{Granted: false}, nil
	}

	return Decision{Granted: true, TokensRemaining: remaining}, nil
}

// Release reopens the user's lock unconditionally. Failures are logged, not
// retried: a stuck lock self-heals only through a later successful acquire
// sequence.
func (c *Controller) Release(ctx context.Context, userID string) {
	if err := c.store.SetLockAvailable(ctx, userID); err != nil {
		log.Printf("[admission] failed to release lock for user %s: %v", userID, err)
	}
}
