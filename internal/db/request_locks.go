package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetRequestLock retrieves the admission row for a user.
// Returns nil, nil when the user has never made a request.
func (db *DB) GetRequestLock(ctx context.Context, userID string) (*RequestLock, error) {
	var l RequestLock
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, is_available, tokens_remaining, updated_at
		 FROM request_locks WHERE user_id = $1`,
		userID,
	).Scan(&l.UserID, &l.IsAvailable, &l.TokensRemaining, &l.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request lock: %w", err)
	}
	return &l, nil
}

// CreateRequestLock lazily creates a user's admission row with the initial
// token allotment. A concurrent creation loses the race quietly.
func (db *DB) CreateRequestLock(ctx context.Context, userID string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO request_locks (user_id, is_available, tokens_remaining, updated_at)
		 VALUES ($1, TRUE, $2, NOW())
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, InitialTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to create request lock: %w", err)
	}
	return nil
}

// AcquireRequestLock flips availability and decrements tokens in a single
// conditional update. Returns the granted flag and the remaining tokens
// after the attempt; a denied attempt leaves the row untouched.
func (db *DB) AcquireRequestLock(ctx context.Context, userID string) (bool, int, error) {
	var remaining int
	err := db.pool.QueryRow(ctx,
		`UPDATE request_locks
		 SET is_available = FALSE, tokens_remaining = tokens_remaining - 1, updated_at = NOW()
		 WHERE user_id = $1 AND is_available = TRUE AND tokens_remaining > 0
		 RETURNING tokens_remaining`,
		userID,
	).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Denied: report the current token count for the caller's message.
			lock, lookupErr := db.GetRequestLock(ctx, userID)
			if lookupErr != nil || lock == nil {
				return false, 0, lookupErr
			}
			return false, lock.TokensRemaining, nil
		}
		return false, 0, fmt.Errorf("failed to acquire request lock: %w", err)
	}
	return true, remaining, nil
}

// SetLockAvailable unconditionally reopens a user's lock. Token count is
// untouched.
func (db *DB) SetLockAvailable(ctx context.Context, userID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE request_locks SET is_available = TRUE, updated_at = NOW() WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to release request lock: %w", err)
	}
	return nil
}

// CloseLock flips availability off when the lock is currently open. Part of
// the two-step acquire fallback for stores without multi-field conditional
// updates; the Postgres store normally uses AcquireRequestLock instead.
func (db *DB) CloseLock(ctx context.Context, userID string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE request_locks SET is_available = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND is_available = TRUE`,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to close request lock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DecrementTokens consumes one token when any remain. Part of the two-step
// acquire fallback.
func (db *DB) DecrementTokens(ctx context.Context, userID string) (int, error) {
	var remaining int
	err := db.pool.QueryRow(ctx,
		`UPDATE request_locks SET tokens_remaining = tokens_remaining - 1, updated_at = NOW()
		 WHERE user_id = $1 AND tokens_remaining > 0
		 RETURNING tokens_remaining`,
		userID,
	).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("no tokens remaining for user %s", userID)
		}
		return 0, fmt.Errorf("failed to decrement tokens: %w", err)
	}
	return remaining, nil
}
