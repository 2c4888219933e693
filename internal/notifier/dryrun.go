package notifier

import (
	"context"
	"fmt"
)

// DryRunNotifier prints what would be sent without actually sending
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the message that would be delivered
func (n *DryRunNotifier) Notify(_ context.Context, message string) error {
	fmt.Printf("--- SMS (dry run) ---\n%s\n\n", message)
	return nil
}
