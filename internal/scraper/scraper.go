package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/tee-booker/internal/teetime"
)

const (
	// loginTitlePrefix starts the page title of every authenticated page.
	loginTitlePrefix = "Welcome"

	// confirmationSelector is the exact location of the success banner on
	// the booking response page.
	confirmationSelector = "#globalwrap > div.user-messages.alert.user-message-success.alert-success > ul > li > strong"

	// confirmationMessage is the one sentence the site renders on a
	// successful booking.
	confirmationMessage = "Now please enter the names of your playing partners."

	// BookingFailedMessage is the fallback reason reported when the
	// confirmation banner is absent. The site gives no finer-grained
	// failure reason.
	BookingFailedMessage = "Booking failed - time slot may no longer be available"
)

// bookingIDPattern matches the edit parameter in a booking redirect URL,
// e.g. /memberbooking/?edit=BOOK77&...
var bookingIDPattern = regexp.MustCompile(`[?&]edit=([^&]+)`)

// ParseLogin reports whether a login response page represents an
// authenticated session. The site titles every member page
// "Welcome, <name>"; anything else, including missing or malformed
// markup, counts as a failed login.
func ParseLogin(r io.Reader) bool {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return false
	}

	title := doc.Find("title")
	if title.Length() == 0 {
		return false
	}

	return strings.HasPrefix(strings.TrimSpace(title.First().Text()), loginTitlePrefix)
}

// ParseAvailability extracts bookable time slots from a booking sheet
// page, in document order.
//
// Candidate rows carry either the canreserve or cantreserve class. A row
// is skipped when it has no time header cell, and included only when it
// has a booking action, no player already booked in, and no competition
// block. The slot's booking form collects every input under the row's
// action cell that has a name attribute and a non-empty value attribute.
//
// Malformed or partial markup never fails the parse; it just yields
// fewer rows. The returned error covers reader failures only.
func ParseAvailability(r io.Reader) ([]teetime.TimeSlot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	slots := []teetime.TimeSlot{}

	doc.Find("tr.canreserve,tr.cantreserve").Each(func(i int, row *goquery.Selection) {
		timeHeader := row.Find("th")
		if timeHeader.Length() == 0 {
			return
		}
		slotTime := strings.TrimSpace(timeHeader.First().Text())

		bookingButton := row.Find("a.inlineBooking").Length() != 0
		peopleBooked := row.Find("span.player-name").Length() != 0
		blocked := row.Find("div.comp-item").Length() != 0

		bookingForm := make(map[string]string)
		row.Find("td.slot-actions form input").Each(func(i int, input *goquery.Selection) {
			name, nok := input.Attr("name")
			value, vok := input.Attr("value")
			if nok && vok && value != "" {
				bookingForm[name] = value
			}
		})

		if bookingButton && !peopleBooked && !blocked {
			slots = append(slots, teetime.TimeSlot{
				Time:        slotTime,
				CanBook:     bookingButton,
				BookingForm: bookingForm,
			})
		}
	})

	return slots, nil
}

// ParseBookingConfirmation reports whether a booking response page
// confirms the reservation. Success requires the banner element at its
// exact structural location with the exact confirmation sentence; on
// anything else the fixed fallback message is returned.
func ParseBookingConfirmation(r io.Reader) (bool, string) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return false, BookingFailedMessage
	}

	banner := doc.Find(confirmationSelector)
	if banner.Length() != 0 && strings.TrimSpace(banner.First().Text()) == confirmationMessage {
		return true, ""
	}

	return false, BookingFailedMessage
}

// ExtractBookingID pulls the site-assigned booking id out of the final
// URL a successful booking redirects to. The second return is false when
// the URL carries no edit parameter.
func ExtractBookingID(rawURL string) (string, bool) {
	matches := bookingIDPattern.FindStringSubmatch(rawURL)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}
