// internal/domain/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound reports a session id with no stored state: expired,
// destroyed, or never issued.
var ErrNotFound = errors.New("session not found")

// State is what the service keeps server-side for a terminal session.
// The upstream bearer token never leaves this process.
type State struct {
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session state for the lifetime of the session
type Store interface {
	Put(ctx context.Context, sessionID string, state *State, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*State, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps sessions as JSON blobs with a TTL
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed session store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Put stores session state with the given TTL
func (s *RedisStore) Put(ctx context.Context, sessionID string, state *State, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(sessionID), data, ttl).Err()
}

// Get retrieves session state
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &state, nil
}

// Delete removes session state
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
