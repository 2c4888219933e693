package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/tee-booker/internal/logger"
)

var (
	flagBookDate string
	flagBookTime string
	flagPartners string
	flagDryRun   bool
)

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a specific tee time",
		Long: `Books the tee time at the given date and time, then registers any
playing partners into slots 2-4. The party size is the booking member
plus the partners.`,
		RunE: runBook,
	}

	cmd.Flags().StringVar(&flagBookDate, "date", "", "Booking sheet date, DD-MM-YYYY (required)")
	cmd.Flags().StringVar(&flagBookTime, "time", "", "Tee time to book, HH:MM (required)")
	cmd.Flags().StringVar(&flagPartners, "partners", "", "Comma-separated playing partner member ids")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Validate and show the booking without performing it")
	addAuthFlags(cmd)

	cmd.MarkFlagRequired("date") // nolint:errcheck
	cmd.MarkFlagRequired("time") // nolint:errcheck
	return cmd
}

// partnerList splits the --partners flag into trimmed member ids.
func partnerList(flag string) []string {
	if flag == "" {
		return nil
	}
	parts := strings.Split(flag, ",")
	partners := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			partners = append(partners, trimmed)
		}
	}
	return partners
}

func runBook(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := parseBookingDate(flagBookDate); err != nil {
		return err
	}
	partners := partnerList(flagPartners)

	store := newSessionStore(cfg)

	client, _, err := resolveClient(cmd.Context(), cfg, store)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()

	slots, err := client.GetAvailability(ctx, flagBookDate)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if slot.Time != flagBookTime {
			continue
		}

		bookingID, err := client.BookTimeSlot(ctx, slot, len(partners)+1, flagDryRun)
		if err != nil {
			return fmt.Errorf("booking %s on %s: %w", flagBookTime, flagBookDate, err)
		}

		for i, partnerID := range partners {
			slotNum := i + 2
			ok, err := client.AddPartner(ctx, bookingID, partnerID, slotNum, flagDryRun)
			if err != nil || !ok {
				logger.Warn("Failed to add playing partner", logger.Fields{
					"partner_slot": slotNum,
					"booking_id":   bookingID,
				})
				continue
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s (booking id: %s)\n", flagBookTime, flagBookDate, bookingID)
		return nil
	}

	return fmt.Errorf("no bookable slot at %s on %s", flagBookTime, flagBookDate)
}
