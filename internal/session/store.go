package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store persists visitor session state in Redis with a TTL. A missing key is
// not an error: it yields a fresh default state, matching a first visit.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the state for a session ID, or a fresh default state if the
// session is unknown or expired.
func (s *Store) Get(ctx context.Context, sessionID string) (*State, error) {
	key := keyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewState(), nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if state.Theme == "" {
		state.Theme = ThemeLight
	}

	return &state, nil
}

// Save persists the state for a session ID with the configured TTL.
func (s *Store) Save(ctx context.Context, sessionID string, state *State) error {
	key := keyPrefix + sessionID

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}
