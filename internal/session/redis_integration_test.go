package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// newIntegrationStore connects to the Redis named by TEE_BOOKER_REDIS_ADDR,
// skipping the test when the variable is unset or the server unreachable.
func newIntegrationStore(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()

	addr := os.Getenv("TEE_BOOKER_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEE_BOOKER_REDIS_ADDR not set; skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis at %s not reachable: %v", addr, err)
	}
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newIntegrationStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Store(ctx, map[string]string{"PHPSESSID": "abc123"}, "https://golf.example.com")
	if err != nil {
		t.Fatalf("Store() unexpected error: %v", err)
	}
	defer store.Delete(ctx, token)

	sess, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if sess.BaseURL != "https://golf.example.com" {
		t.Errorf("BaseURL = %q, expected https://golf.example.com", sess.BaseURL)
	}
	if sess.Cookies["PHPSESSID"] != "abc123" {
		t.Errorf("cookies = %v, expected PHPSESSID=abc123", sess.Cookies)
	}

	ok, err := store.Exists(ctx, token)
	if err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected session to exist")
	}

	ttl, err := store.RemainingTTL(ctx, token)
	if err != nil {
		t.Fatalf("RemainingTTL() unexpected error: %v", err)
	}
	if ttl <= 0 || ttl > 30*60 {
		t.Errorf("RemainingTTL() = %d, expected within (0, %d]", ttl, 30*60)
	}
}

func TestRedisStore_GetSlidesWindow(t *testing.T) {
	store := newIntegrationStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Store(ctx, nil, "https://golf.example.com")
	if err != nil {
		t.Fatalf("Store() unexpected error: %v", err)
	}
	defer store.Delete(ctx, token)

	// Knock the TTL down, then confirm Get restores the full window.
	if err := store.client.Expire(ctx, sessionKey(token), time.Minute).Err(); err != nil {
		t.Fatalf("Expire() unexpected error: %v", err)
	}

	if _, err := store.Get(ctx, token); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	ttl, err := store.RemainingTTL(ctx, token)
	if err != nil {
		t.Fatalf("RemainingTTL() unexpected error: %v", err)
	}
	if ttl <= 60 {
		t.Errorf("RemainingTTL() = %d, expected Get to renew the full window", ttl)
	}
}

func TestRedisStore_ExistsDoesNotSlideWindow(t *testing.T) {
	store := newIntegrationStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Store(ctx, nil, "https://golf.example.com")
	if err != nil {
		t.Fatalf("Store() unexpected error: %v", err)
	}
	defer store.Delete(ctx, token)

	if err := store.client.Expire(ctx, sessionKey(token), time.Minute).Err(); err != nil {
		t.Fatalf("Expire() unexpected error: %v", err)
	}

	if _, err := store.Exists(ctx, token); err != nil {
		t.Fatalf("Exists() unexpected error: %v", err)
	}

	ttl, err := store.RemainingTTL(ctx, token)
	if err != nil {
		t.Fatalf("RemainingTTL() unexpected error: %v", err)
	}
	if ttl > 60 {
		t.Errorf("RemainingTTL() = %d, Exists must not renew the window", ttl)
	}
}

func TestRedisStore_MissingToken(t *testing.T) {
	store := newIntegrationStore(t, 30*time.Minute)
	ctx := context.Background()

	if _, err := store.Get(ctx, "no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	deleted, err := store.Delete(ctx, "no-such-token")
	if err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if deleted {
		t.Error("expected Delete of unknown token to report absence")
	}

	ttl, err := store.RemainingTTL(ctx, "no-such-token")
	if err != nil {
		t.Fatalf("RemainingTTL() unexpected error: %v", err)
	}
	if ttl != -2 {
		t.Errorf("RemainingTTL() = %d for unknown token, expected -2", ttl)
	}
}
