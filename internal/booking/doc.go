// Package booking drives the club website's HTML booking protocol:
// login, availability lookup, slot booking and partner registration.
//
// A Client owns one HTTP client and cookie jar and is meant for
// sequential use by a single caller; run one Client per logical member
// session. Response interpretation is delegated to the scraper package.
package booking
