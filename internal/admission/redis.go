package admission

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLockStore keeps request locks in a Redis hash per user. Lua scripts
// make each operation a single atomic round trip, so it qualifies as an
// AtomicLockStore.
type RedisLockStore struct {
	rdb           *redis.Client
	initialTokens int
}

// NewRedisLockStore constructs a store over an existing client.
func NewRedisLockStore(rdb *redis.Client, initialTokens int) *RedisLockStore {
	return &RedisLockStore{rdb: rdb, initialTokens: initialTokens}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func lockKey(userID string) string {
	return "ghostwatch:lock:" + userID
}

var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  redis.call('HSET', KEYS[1], 'is_available', '1', 'tokens_remaining', ARGV[1])
end
return 1
`)

var acquireScript = redis.NewScript(`
local avail = redis.call('HGET', KEYS[1], 'is_available')
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens_remaining') or '0')
if avail == '1' and tokens > 0 then
  redis.call('HSET', KEYS[1], 'is_available', '0', 'tokens_remaining', tokens - 1)
  return {1, tokens - 1}
end
return {0, tokens}
`)

var closeScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'is_available') == '1' then
  redis.call('HSET', KEYS[1], 'is_available', '0')
  return 1
end
return 0
`)

var decrementScript = redis.NewScript(`
local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens_remaining') or '0')
if tokens > 0 then
  redis.call('HSET', KEYS[1], 'tokens_remaining', tokens - 1)
  return tokens - 1
end
return -1
`)

// CreateRequestLock lazily creates the user's lock hash.
func (s *RedisLockStore) CreateRequestLock(ctx context.Context, userID string) error {
	if err := createScript.Run(ctx, s.rdb, []string{lockKey(userID)}, s.initialTokens).Err(); err != nil {
		return fmt.Errorf("failed to create request lock: %w", err)
	}
	return nil
}

// AcquireRequestLock flips availability and consumes a token in one script.
func (s *RedisLockStore) AcquireRequestLock(ctx context.Context, userID string) (bool, int, error) {
	result, err := acquireScript.Run(ctx, s.rdb, []string{lockKey(userID)}).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("failed to acquire request lock: %w", err)
	}
	if len(result) != 2 {
		return false, 0, fmt.Errorf("unexpected acquire script result: %v", result)
	}
	return result[0] == 1, int(result[1]), nil
}

// CloseLock flips availability off when currently open.
func (s *RedisLockStore) CloseLock(ctx context.Context, userID string) (bool, error) {
	closed, err := closeScript.Run(ctx, s.rdb, []string{lockKey(userID)}).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to close request lock: %w", err)
	}
	return closed == 1, nil
}

// DecrementTokens consumes one token when any remain.
func (s *RedisLockStore) DecrementTokens(ctx context.Context, userID string) (int, error) {
	remaining, err := decrementScript.Run(ctx, s.rdb, []string{lockKey(userID)}).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to decrement tokens: %w", err)
	}
	if remaining < 0 {
		return 0, fmt.Errorf("no tokens remaining for user %s", userID)
	}
	return int(remaining), nil
}

// SetLockAvailable unconditionally reopens the lock.
func (s *RedisLockStore) SetLockAvailable(ctx context.Context, userID string) error {
	if err := s.rdb.HSet(ctx, lockKey(userID), "is_available", "1").Err(); err != nil {
		return fmt.Errorf("failed to release request lock: %w", err)
	}
	return nil
}
