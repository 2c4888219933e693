package cli

import (
	"github.com/spf13/cobra"
)

var (
	flagDate   string
	flagFormat string
)

func newAvailabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "List bookable tee times for a date",
		RunE:  runAvailability,
	}

	cmd.Flags().StringVar(&flagDate, "date", "", "Booking sheet date, DD-MM-YYYY (required)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	addAuthFlags(cmd)

	cmd.MarkFlagRequired("date") // nolint:errcheck
	return cmd
}

func runAvailability(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := parseBookingDate(flagDate); err != nil {
		return err
	}
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	store := newSessionStore(cfg)

	client, _, err := resolveClient(cmd.Context(), cfg, store)
	if err != nil {
		return err
	}
	defer client.Close()

	slots, err := client.GetAvailability(cmd.Context(), flagDate)
	if err != nil {
		return err
	}

	return printSlots(cmd.OutOrStdout(), flagDate, slots, format)
}
