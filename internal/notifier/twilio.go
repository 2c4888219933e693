package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"

	"github.com/pfrederiksen/tee-booker/internal/logger"
)

// apiBaseURL is a variable so tests can point the notifier at a fake
// Twilio endpoint.
var apiBaseURL = "https://api.twilio.com/2010-04-01/"

// TwilioNotifier sends booking notifications as SMS through Twilio's
// Messages API.
type TwilioNotifier struct {
	base *sling.Sling
	from string
	to   string
}

// twilioMessage is the form body of a Messages API create call.
type twilioMessage struct {
	To   string `url:"To"`
	From string `url:"From"`
	Body string `url:"Body"`
}

// twilioResponse is the subset of the API response we care about.
type twilioResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// twilioError is Twilio's error payload.
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e twilioError) Error() string {
	return fmt.Sprintf("twilio error %d: %s", e.Code, e.Message)
}

// NewTwilioNotifier creates a notifier sending from one number to one
// recipient.
func NewTwilioNotifier(accountSID, authToken, from, to string) *TwilioNotifier {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	base := sling.New().
		Client(httpClient).
		Base(apiBaseURL).
		Path("Accounts/" + accountSID + "/").
		SetBasicAuth(accountSID, authToken)

	return &TwilioNotifier{
		base: base,
		from: from,
		to:   to,
	}
}

// Notify sends one SMS with the given message body.
func (n *TwilioNotifier) Notify(ctx context.Context, message string) error {
	body := &twilioMessage{
		To:   n.to,
		From: n.from,
		Body: message,
	}

	req, err := n.base.New().Post("Messages.json").BodyForm(body).Request()
	if err != nil {
		return fmt.Errorf("building SMS request: %w", err)
	}
	req = req.WithContext(ctx)

	var success twilioResponse
	var failure twilioError
	resp, err := n.base.Do(req, &success, &failure)
	if err != nil {
		return fmt.Errorf("sending SMS: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sending SMS: %w", failure)
	}

	logger.Info("SMS sent", logger.Fields{
		"sid":    success.SID,
		"status": success.Status,
	})
	return nil
}

var _ Notifier = (*TwilioNotifier)(nil)
var _ Notifier = (*DryRunNotifier)(nil)
