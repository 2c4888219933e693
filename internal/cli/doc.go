// Package cli implements the tee-booker command line interface.
//
// Commands cover the full booking workflow: authenticating and storing a
// resumable session, listing availability, booking a slot with playing
// partners, sniping a slot over repeated attempts, and operator
// utilities for sessions and credential envelopes.
package cli
