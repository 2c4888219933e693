// Package scraper parses the club booking website's server-rendered HTML
// into structured results.
//
// The site exposes no API, so every structural rule the system depends on
// (row classes, the booking action anchor, the exact confirmation
// sentence) lives here and nowhere else. When the club changes its
// markup, this package is the only one that needs to follow.
package scraper
