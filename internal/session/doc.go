// Package session persists authenticated scraping sessions between
// requests.
//
// A stored session maps an opaque token to the cookie set of a logged-in
// booking client, with a sliding-window TTL: every successful Get renews
// the full window, while Exists peeks without touching it. The Redis
// implementation is the production store; the in-memory implementation
// backs single-process use and tests.
package session
