// internal/domain/checkout/store.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCheckoutInFlight rejects a second submission while one is pending
	ErrCheckoutInFlight = errors.New("a checkout is already in flight for this session")

	// ErrNoAttempt reports a gateway outcome with no matching attempt
	ErrNoAttempt = errors.New("no gateway attempt in progress for this session")

	// ErrAttemptMismatch reports an outcome for a different transaction
	// than the attempt on record
	ErrAttemptMismatch = errors.New("reported transaction does not match the gateway attempt")
)

// Guard serializes checkout submissions and tracks the open gateway
// attempt per session
type Guard interface {
	AcquireLock(ctx context.Context, sessionID string) (bool, error)
	ReleaseLock(ctx context.Context, sessionID string) error
	PutAttempt(ctx context.Context, sessionID string, transactionID uint) error
	GetAttempt(ctx context.Context, sessionID string) (uint, error)
	ClearAttempt(ctx context.Context, sessionID string) error
}

// RedisGuard implements Guard on redis. The lock is a SET NX with a TTL
// so a crashed submission cannot wedge the terminal.
type RedisGuard struct {
	client     *redis.Client
	lockTTL    time.Duration
	attemptTTL time.Duration
}

// NewRedisGuard creates a redis-backed checkout guard
func NewRedisGuard(client *redis.Client, lockTTL, attemptTTL time.Duration) *RedisGuard {
	return &RedisGuard{
		client:     client,
		lockTTL:    lockTTL,
		attemptTTL: attemptTTL,
	}
}

func lockKey(sessionID string) string {
	return fmt.Sprintf("checkout:lock:%s", sessionID)
}

func attemptKey(sessionID string) string {
	return fmt.Sprintf("checkout:attempt:%s", sessionID)
}

// AcquireLock takes the per-session submission lock
func (g *RedisGuard) AcquireLock(ctx context.Context, sessionID string) (bool, error) {
	return g.client.SetNX(ctx, lockKey(sessionID), 1, g.lockTTL).Result()
}

// ReleaseLock releases the per-session submission lock
func (g *RedisGuard) ReleaseLock(ctx context.Context, sessionID string) error {
	return g.client.Del(ctx, lockKey(sessionID)).Err()
}

// PutAttempt records the transaction id of an open gateway attempt
func (g *RedisGuard) PutAttempt(ctx context.Context, sessionID string, transactionID uint) error {
	return g.client.Set(ctx, attemptKey(sessionID), transactionID, g.attemptTTL).Err()
}

// GetAttempt returns the transaction id of the open gateway attempt
func (g *RedisGuard) GetAttempt(ctx context.Context, sessionID string) (uint, error) {
	val, err := g.client.Get(ctx, attemptKey(sessionID)).Result()
	if err == redis.Nil {
		return 0, ErrNoAttempt
	} else if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("corrupt gateway attempt record: %w", err)
	}
	return uint(id), nil
}

// ClearAttempt drops the open gateway attempt record
func (g *RedisGuard) ClearAttempt(ctx context.Context, sessionID string) error {
	return g.client.Del(ctx, attemptKey(sessionID)).Err()
}
