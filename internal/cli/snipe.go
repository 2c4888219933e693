package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/tee-booker/internal/booking"
	"github.com/pfrederiksen/tee-booker/internal/logger"
	"github.com/pfrederiksen/tee-booker/internal/notifier"
	"github.com/pfrederiksen/tee-booker/internal/teetime"
)

// ErrNoBooking is returned when every snipe attempt failed.
var ErrNoBooking = errors.New("failed to book a tee time")

var (
	flagDaysAhead int
	flagTimeStart string
	flagTimeEnd   string
	flagRetries   int
)

func newSnipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snipe",
		Short: "Grab the first bookable tee time in a window",
		Long: `Repeatedly checks the booking sheet for the day the club opens next
(--days-ahead from today) and books a random bookable slot inside the
requested time window, retrying with jittered backoff while the sheet
is still filling up. Sends an SMS confirmation when Twilio is
configured.`,
		RunE: runSnipe,
	}

	cmd.Flags().IntVar(&flagDaysAhead, "days-ahead", 7, "How many days ahead the club opens bookings")
	cmd.Flags().StringVar(&flagTimeStart, "time-start", "07:00", "Earliest acceptable tee time, HH:MM")
	cmd.Flags().StringVar(&flagTimeEnd, "time-end", "11:00", "Latest acceptable tee time, HH:MM")
	cmd.Flags().IntVar(&flagRetries, "retries", 5, "Booking attempts before giving up")
	cmd.Flags().StringVar(&flagPartners, "partners", "", "Comma-separated playing partner member ids")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Run everything but perform no booking")
	addAuthFlags(cmd)

	return cmd
}

// sniper runs the snipe loop. Collaborators are injectable so the loop
// can be driven against a fake site in tests.
type sniper struct {
	svc      booking.Service
	notifier notifier.Notifier

	daysAhead int
	timeStart string
	timeEnd   string
	retries   int
	partners  []string
	dryRun    bool

	now        func() time.Time
	newBackoff func() backoff.BackOff
}

// defaultBackoff spaces attempts a few jittered seconds apart so retries
// do not hammer the site while its sheet opens.
func defaultBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Second
	bo.RandomizationFactor = 0.4
	bo.MaxInterval = 60 * time.Second
	bo.MaxElapsedTime = 0
	return bo
}

// run executes the snipe loop and returns the booking id.
func (s *sniper) run(ctx context.Context) (string, error) {
	targetDate := s.now().AddDate(0, 0, s.daysAhead).Format("02-01-2006")

	logger.Info("Sniping tee time", logger.Fields{
		"date":       targetDate,
		"time_start": s.timeStart,
		"time_end":   s.timeEnd,
		"retries":    s.retries,
		"dry_run":    s.dryRun,
	})

	bo := s.newBackoff()

	for attempt := 1; attempt <= s.retries; attempt++ {
		bookingID, err := s.attempt(ctx, targetDate)
		if err == nil {
			s.notify(ctx, fmt.Sprintf("Booked tee time on %s for %d player(s), booking id %s",
				targetDate, len(s.partners)+1, bookingID))
			return bookingID, nil
		}

		// Validation errors repeat identically; retrying is pointless.
		if errors.Is(err, booking.ErrNumSlotsOutOfRange) || errors.Is(err, booking.ErrPartnerSlotOutOfRange) {
			return "", err
		}

		logger.Warn("Booking attempt failed", logger.Fields{
			"attempt": attempt,
			"date":    targetDate,
			"reason":  err.Error(),
		})
		logger.IncrCounter("snipe.retries")

		if attempt == s.retries {
			break
		}
		if err := sleepContext(ctx, bo.NextBackOff()); err != nil {
			return "", err
		}
	}

	s.notify(ctx, fmt.Sprintf("Failed to book a tee time on %s", targetDate))
	return "", fmt.Errorf("%w: no slot booked on %s", ErrNoBooking, targetDate)
}

// attempt performs one availability check and booking try.
func (s *sniper) attempt(ctx context.Context, targetDate string) (string, error) {
	start := time.Now()
	slots, err := s.svc.GetAvailability(ctx, targetDate)
	logger.RecordTiming("snipe.availability", time.Since(start))
	if err != nil {
		return "", err
	}

	slots = teetime.FilterBookable(slots)
	slots = teetime.SortTimesAscending(slots)
	slots = teetime.FilterBetweenTimes(slots, s.timeStart, s.timeEnd)

	slot, err := teetime.PickRandom(slots)
	if err != nil {
		return "", err
	}

	bookingID, err := s.svc.BookTimeSlot(ctx, slot, len(s.partners)+1, s.dryRun)
	if err != nil {
		return "", err
	}

	for i, partnerID := range s.partners {
		slotNum := i + 2
		ok, err := s.svc.AddPartner(ctx, bookingID, partnerID, slotNum, s.dryRun)
		if err != nil || !ok {
			// The tee time itself is already secured; a failed partner
			// registration is not worth abandoning it for.
			logger.Warn("Failed to add playing partner", logger.Fields{
				"partner_slot": slotNum,
				"booking_id":   bookingID,
			})
		}
	}

	return bookingID, nil
}

func (s *sniper) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		logger.Error("Failed to send notification", nil, err)
	}
}

// sleepContext waits for d or the context, whichever ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func runSnipe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := newSessionStore(cfg)

	client, _, err := resolveClient(cmd.Context(), cfg, store)
	if err != nil {
		return err
	}
	defer client.Close()

	var n notifier.Notifier
	if cfg.Twilio.Enabled() {
		if flagDryRun {
			n = notifier.NewDryRunNotifier()
		} else {
			n = notifier.NewTwilioNotifier(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.ToNumber)
		}
	}

	s := &sniper{
		svc:        client,
		notifier:   n,
		daysAhead:  flagDaysAhead,
		timeStart:  flagTimeStart,
		timeEnd:    flagTimeEnd,
		retries:    flagRetries,
		partners:   partnerList(flagPartners),
		dryRun:     flagDryRun,
		now:        time.Now,
		newBackoff: defaultBackoff,
	}

	bookingID, err := s.run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Booked (booking id: %s)\n", bookingID)
	return nil
}
