package teetime

import (
	"errors"
	"math/rand"
	"sort"
)

// ErrNoSlotsAvailable is returned by PickRandom when there is nothing to pick.
var ErrNoSlotsAvailable = errors.New("no time slots available")

// TimeSlot represents a single tee time on the club booking sheet.
//
// BookingForm holds the hidden form fields scraped from the slot's row;
// replaying them unmodified is what books the slot, so callers must not
// mutate the map.
type TimeSlot struct {
	Time        string            `json:"time"`
	CanBook     bool              `json:"can_book"`
	BookingForm map[string]string `json:"booking_form"`
}

// SortTimesAscending sorts slots by their HH:MM label, earliest first.
func SortTimesAscending(slots []TimeSlot) []TimeSlot {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Time < slots[j].Time
	})
	return slots
}

// FilterBookable returns only the slots that can be booked.
func FilterBookable(slots []TimeSlot) (results []TimeSlot) {
	for _, ts := range slots {
		if ts.CanBook {
			results = append(results, ts)
		}
	}
	return
}

// FilterBetweenTimes returns slots strictly inside the (start, end) window.
// Times are compared lexically, which is correct for zero-padded HH:MM.
func FilterBetweenTimes(slots []TimeSlot, startTime, endTime string) (results []TimeSlot) {
	for _, ts := range slots {
		if ts.Time > startTime && ts.Time < endTime {
			results = append(results, ts)
		}
	}
	return
}

// PickRandom selects one slot at random, spreading repeated booking
// attempts across the available sheet.
func PickRandom(slots []TimeSlot) (TimeSlot, error) {
	if len(slots) == 0 {
		return TimeSlot{}, ErrNoSlotsAvailable
	}
	return slots[rand.Intn(len(slots))], nil
}
