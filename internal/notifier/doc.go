// Package notifier provides notification interfaces and implementations
// for booking outcomes.
//
// The notifier package delivers booking confirmations and failure alerts
// out of band, currently over Twilio SMS. A dry-run implementation
// prints instead of sending.
package notifier
