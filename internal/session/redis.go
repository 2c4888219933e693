package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pfrederiksen/tee-booker/internal/logger"
)

// RedisStore keeps sessions in Redis, one TTL-bearing key per token.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. A non-positive ttl falls
// back to DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Store writes a new session record under a fresh token.
func (s *RedisStore) Store(ctx context.Context, cookies map[string]string, baseURL string) (string, error) {
	token := uuid.NewString()

	payload, err := json.Marshal(Session{
		Cookies:   copyCookies(cookies),
		BaseURL:   baseURL,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	logger.Info("Session created", logger.Fields{
		"token_prefix": tokenPrefix(token),
		"base_url":     baseURL,
	})
	return token, nil
}

// Get fetches a session and renews its TTL to the full window.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	key := sessionKey(token)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Warn("Session not found", logger.Fields{"token_prefix": tokenPrefix(token)})
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	// Sliding window: every read restarts the clock.
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("renewing session TTL: %w", err)
	}

	return &sess, nil
}

// Delete removes the session and reports whether it existed.
func (s *RedisStore) Delete(ctx context.Context, token string) (bool, error) {
	removed, err := s.client.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}

	deleted := removed > 0
	if deleted {
		logger.Info("Session deleted", logger.Fields{"token_prefix": tokenPrefix(token)})
	}
	return deleted, nil
}

// Exists peeks at presence without renewing the TTL.
func (s *RedisStore) Exists(ctx context.Context, token string) (bool, error) {
	present, err := s.client.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	return present > 0, nil
}

// RemainingTTL reports seconds until expiry, with Redis sentinel
// semantics: -2 absent, -1 present without a TTL.
func (s *RedisStore) RemainingTTL(ctx context.Context, token string) (int64, error) {
	remaining, err := s.client.TTL(ctx, sessionKey(token)).Result()
	if err != nil {
		return 0, fmt.Errorf("reading session TTL: %w", err)
	}

	// go-redis passes the -2/-1 sentinels through as raw durations.
	if remaining < 0 {
		return int64(remaining), nil
	}
	return int64(remaining / time.Second), nil
}

var _ Store = (*RedisStore)(nil)
