package booking

import (
	"errors"
	"fmt"
)

// Validation failures are raised locally, before any network call, and
// are never worth retrying.
var (
	ErrNotBookable           = errors.New("time slot is not bookable")
	ErrNumSlotsOutOfRange    = errors.New("number of slots must be between 1 and 4")
	ErrPartnerSlotOutOfRange = errors.New("partner slot must be between 2 and 4")
)

// TransportError wraps a network or HTTP-level failure. Transport errors
// are retryable at the caller's discretion; the client never retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BookingError reports a booking the site refused or a confirmation the
// client could not interpret.
type BookingError struct {
	Message string
}

func (e *BookingError) Error() string {
	return e.Message
}
