package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/tee-booker/internal/teetime"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// printSlots writes availability results in the requested format.
func printSlots(w io.Writer, date string, slots []teetime.TimeSlot, format OutputFormat) error {
	if format == FormatJSON {
		payload := struct {
			Date  string             `json:"date"`
			Slots []teetime.TimeSlot `json:"slots"`
		}{Date: date, Slots: slots}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	if len(slots) == 0 {
		fmt.Fprintf(w, "No bookable tee times on %s\n", date)
		return nil
	}

	fmt.Fprintf(w, "Bookable tee times on %s:\n", date)
	for _, slot := range slots {
		fmt.Fprintf(w, "  %s\n", slot.Time)
	}
	fmt.Fprintf(w, "%d slot(s)\n", len(slots))
	return nil
}

// parseFormat validates a --format flag value.
func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
}
