package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the sliding session window applied when none is configured.
const DefaultTTL = 30 * time.Minute

// keyPrefix namespaces session records in the backing store.
const keyPrefix = "session:"

// ErrNotFound is returned when a token is unknown or its session has
// expired. It signals an authentication condition, not a store fault.
var ErrNotFound = errors.New("session not found or expired")

// Session is one stored scraping session: the cookie set of an
// authenticated booking client plus the site it belongs to.
type Session struct {
	Cookies   map[string]string `json:"cookies"`
	BaseURL   string            `json:"base_url"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store is a sliding-window TTL cache of sessions keyed by opaque token.
//
// Tokens are generated by Store, never caller-supplied, so records are
// only ever created whole and replaced whole. Operations on distinct
// tokens never interfere; each call is a single atomic round trip.
type Store interface {
	// Store writes a new session record and returns its fresh token.
	Store(ctx context.Context, cookies map[string]string, baseURL string) (string, error)

	// Get returns the session for token, renewing its TTL to the full
	// window. Returns ErrNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes the session if present and reports whether it
	// existed. Idempotent.
	Delete(ctx context.Context, token string) (bool, error)

	// Exists reports presence without renewing the TTL.
	Exists(ctx context.Context, token string) (bool, error)

	// RemainingTTL returns the seconds left before expiry, -2 when the
	// token is absent, or -1 when the record carries no TTL.
	RemainingTTL(ctx context.Context, token string) (int64, error)
}

func sessionKey(token string) string {
	return keyPrefix + token
}

// tokenPrefix returns a loggable 8-character prefix of a token. Full
// tokens never appear in logs.
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}

// copyCookies snapshots a cookie map so stored sessions never alias
// caller state.
func copyCookies(cookies map[string]string) map[string]string {
	copied := make(map[string]string, len(cookies))
	for name, value := range cookies {
		copied[name] = value
	}
	return copied
}
