package boulevard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/app"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/browser"
)

const fetchTimeout = 30 * time.Second

// Client issues dashboard API calls through the authenticated browser page,
// so the session cookies apply without any token plumbing on our side.
type Client struct {
	session *browser.Session
	cfg     app.Config
}

func NewClient(session *browser.Session, cfg app.Config) *Client {
	return &Client{session: session, cfg: cfg}
}

// fetchResult is what the in-page fetch resolves to.
type fetchResult struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// FetchCalendarEvents pulls the raw calendar_events payload for an inclusive
// ISO date range. Non-200 responses are logged and returned as errors; the
// body is handed back undecoded so artifacts keep the exact server response.
func (c *Client) FetchCalendarEvents(start, end string) ([]byte, error) {
	apiURL := fmt.Sprintf(
		"%s/businesses/%s/calendar_events?start=%s&end=%s&location_id=%s&include_zero_minute=true",
		c.cfg.DashboardURL, c.cfg.BusinessID, start, end, c.cfg.LocationID,
	)

	log.Info().
		Str("business_id", c.cfg.BusinessID).
		Str("location_id", c.cfg.LocationID).
		Str("start", start).
		Str("end", end).
		Msg("Fetching calendar events via API endpoint")
	log.Debug().Str("url", apiURL).Msg("Calendar API URL")

	script := fmt.Sprintf(
		`fetch(%q, {credentials: "include"}).then(async r => ({status: r.status, body: await r.text()}))`,
		apiURL,
	)

	var result fetchResult
	err := c.session.RunWithTimeout(fetchTimeout,
		chromedp.Evaluate(script, &result, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar_events request failed: %w", err)
	}

	if result.Status != http.StatusOK {
		log.Error().
			Int("status", result.Status).
			Str("body", result.Body).
			Msg("Calendar API request failed")
		return nil, fmt.Errorf("calendar_events request returned status %d", result.Status)
	}

	body := []byte(result.Body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("calendar_events response is not valid JSON")
	}

	log.Info().Int("bytes", len(body)).Msg("Calendar API request successful")
	return body, nil
}
