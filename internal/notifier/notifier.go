package notifier

import "context"

// Notifier defines the interface for delivering booking notifications
type Notifier interface {
	// Notify delivers one notification message
	Notify(ctx context.Context, message string) error
}
