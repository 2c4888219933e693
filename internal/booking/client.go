package booking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/tee-booker/internal/logger"
	"github.com/pfrederiksen/tee-booker/internal/scraper"
	"github.com/pfrederiksen/tee-booker/internal/teetime"
)

const (
	loginPath   = "login.php"
	bookingPath = "memberbooking/"

	// Timeout bounds every outbound request.
	Timeout = 30 * time.Second

	// DryRunBookingID is the sentinel returned by a dry-run booking.
	DryRunBookingID = "dryrun-booking-id"
)

// Service is the client's operation surface, extracted so orchestration
// code can be tested against a fake site driver.
type Service interface {
	Login(ctx context.Context, username, pin string) (bool, error)
	GetAvailability(ctx context.Context, date string) ([]teetime.TimeSlot, error)
	BookTimeSlot(ctx context.Context, slot teetime.TimeSlot, numSlots int, dryRun bool) (string, error)
	AddPartner(ctx context.Context, bookingID, partnerID string, slotNum int, dryRun bool) (bool, error)
}

// Client is a stateful scraping client for one member session on the
// club booking website. It is not safe for concurrent use; callers must
// sequence operations on a single instance.
type Client struct {
	baseURL    string
	siteURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client with an empty cookie jar. The caller
// authenticates it with Login.
func NewClient(baseURL string) (*Client, error) {
	return newClient(baseURL, nil)
}

// NewClientFromCookies creates a client whose jar is pre-loaded with a
// previously stored cookie set, yielding an authenticated client without
// calling Login. This is how a stored session is resumed.
func NewClientFromCookies(baseURL string, cookies map[string]string) (*Client, error) {
	return newClient(baseURL, cookies)
}

func newClient(baseURL string, cookies map[string]string) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")

	siteURL, err := url.Parse(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if siteURL.Scheme == "" || siteURL.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	if len(cookies) > 0 {
		seed := make([]*http.Cookie, 0, len(cookies))
		for name, value := range cookies {
			seed = append(seed, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
		jar.SetCookies(siteURL, seed)
	}

	return &Client{
		baseURL: baseURL,
		siteURL: siteURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: Timeout,
		},
		userAgent: randomUserAgent(),
	}, nil
}

// Login authenticates against the site's login form. It returns whether
// the site accepted the credentials; transport failures surface as
// *TransportError.
func (c *Client) Login(ctx context.Context, username, pin string) (bool, error) {
	form := url.Values{}
	form.Set("task", "login")
	form.Set("topmenu", "1")
	form.Set("memberid", username)
	form.Set("pin", pin)
	form.Set("cachemid", "1")
	form.Set("Submit", "Login")

	req, err := c.newRequest(ctx, http.MethodPost, loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do("login", req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	ok := scraper.ParseLogin(resp.Body)
	logger.Debug("Login attempt completed", logger.Fields{"authenticated": ok})
	return ok, nil
}

// GetAvailability fetches the booking sheet for a date (DD-MM-YYYY) and
// returns the bookable slots in sheet order.
func (c *Client) GetAvailability(ctx context.Context, date string) ([]teetime.TimeSlot, error) {
	req, err := c.newRequest(ctx, http.MethodGet, bookingPath, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("date", date)
	req.URL.RawQuery = q.Encode()

	resp, err := c.do("availability", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	slots, err := scraper.ParseAvailability(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "availability", Err: err}
	}
	return slots, nil
}

// BookTimeSlot replays a slot's booking form with the requested party
// size (1-4 including the booking member) and returns the site-assigned
// booking id.
//
// A dry run validates the slot and party size, performs no network call
// and returns DryRunBookingID.
func (c *Client) BookTimeSlot(ctx context.Context, slot teetime.TimeSlot, numSlots int, dryRun bool) (string, error) {
	if !slot.CanBook {
		return "", ErrNotBookable
	}
	if numSlots < 1 || numSlots > 4 {
		return "", ErrNumSlotsOutOfRange
	}

	if dryRun {
		logger.Info("Dry run: would book time slot", logger.Fields{
			"time":      slot.Time,
			"num_slots": numSlots,
		})
		return DryRunBookingID, nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, bookingPath, nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	for name, value := range slot.BookingForm {
		q.Set(name, value)
	}
	q.Set("numslots", strconv.Itoa(numSlots))
	req.URL.RawQuery = q.Encode()

	resp, err := c.do("booking", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	ok, message := scraper.ParseBookingConfirmation(resp.Body)
	if !ok {
		return "", &BookingError{Message: message}
	}

	// The booking id only appears in the URL the site redirected to.
	bookingID, found := scraper.ExtractBookingID(resp.Request.URL.String())
	if !found {
		return "", &BookingError{Message: "could not extract booking id"}
	}

	logger.Info("Time slot booked", logger.Fields{
		"time":       slot.Time,
		"booking_id": bookingID,
	})
	return bookingID, nil
}

// AddPartner registers a playing partner on an existing booking in slot
// 2, 3 or 4. Success is solely an HTTP 200 response; the site offers no
// structured confirmation to check.
func (c *Client) AddPartner(ctx context.Context, bookingID, partnerID string, slotNum int, dryRun bool) (bool, error) {
	if slotNum < 2 || slotNum > 4 {
		return false, ErrPartnerSlotOutOfRange
	}

	if dryRun {
		logger.Info("Dry run: would add playing partner", logger.Fields{
			"booking_id":   bookingID,
			"partner_slot": slotNum,
		})
		return true, nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, bookingPath, nil)
	if err != nil {
		return false, err
	}

	q := req.URL.Query()
	q.Set("edit", bookingID)
	q.Set("addpartner", partnerID)
	q.Set("partnerslot", strconv.Itoa(slotNum))
	req.URL.RawQuery = q.Encode()

	resp, err := c.send("add partner", req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) // nolint:errcheck

	return resp.StatusCode == http.StatusOK, nil
}

// Cookies snapshots the client's current cookie jar for persistence in a
// session store. The returned map does not alias jar state.
func (c *Client) Cookies() map[string]string {
	cookies := make(map[string]string)
	for _, cookie := range c.httpClient.Jar.Cookies(c.siteURL) {
		cookies[cookie.Name] = cookie.Value
	}
	return cookies
}

// BaseURL returns the site this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases the client's idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// newRequest builds a request under the client's base URL carrying its
// fixed identity headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	for name, value := range defaultHeaders {
		req.Header.Set(name, value)
	}
	return req, nil
}

// do sends a request and requires an HTTP 200, wrapping every failure as
// a *TransportError for the named operation.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.send(op, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &TransportError{Op: op, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}
	return resp, nil
}

// send sends a request, wrapping network failures as *TransportError but
// leaving status handling to the caller.
func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

var _ Service = (*Client)(nil)
