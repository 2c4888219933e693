// Package teetime provides the tee-time slot model and helpers for
// ordering and narrowing candidate slots.
//
// A TimeSlot carries the booking-form parameters scraped from the club
// website alongside the slot time; the helpers here let callers pick a
// slot inside a preferred time window without touching the form data.
package teetime
