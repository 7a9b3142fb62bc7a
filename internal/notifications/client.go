package notifications

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/app"
)

// Client posts run summaries to an ntfy topic. Delivery is best effort:
// send failures are logged and never fail the run.
type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	priority   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewClient(baseURL, topic string, enabled bool, priority string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		topic:      topic,
		enabled:    enabled,
		priority:   priority,
		maxRetries: 3,
		baseDelay:  1 * time.Second,
		maxDelay:   30 * time.Second,
	}
}

func NewClientFromEnv() *Client {
	return NewClient(
		app.GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
		app.GetEnvWithDefault("NTFY_TOPIC", ""),
		app.GetBoolEnv("NTFY_ENABLED", false),
		app.GetEnvWithDefault("NTFY_PRIORITY", "default"),
	)
}

// RunSummary carries the counts a run reports when it finishes.
type RunSummary struct {
	Date        string
	TotalEvents int
	NewClients  int
	Appended    int
	SheetName   string
	TestMode    bool
}

// FormatRunSummary renders the notification body.
func FormatRunSummary(summary RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New client automation for %s\n", summary.Date)
	fmt.Fprintf(&b, "Calendar events: %d\n", summary.TotalEvents)
	fmt.Fprintf(&b, "New clients: %d\n", summary.NewClients)
	fmt.Fprintf(&b, "Appended %d rows to %q", summary.Appended, summary.SheetName)
	if summary.TestMode {
		b.WriteString("\n(test mode)")
	}
	return b.String()
}

// NotifyRunSummary sends the end-of-run notification.
func (c *Client) NotifyRunSummary(ctx context.Context, summary RunSummary) {
	if err := c.Send(ctx, FormatRunSummary(summary)); err != nil {
		log.Warn().Err(err).Msg("Failed to send run summary notification")
	}
}

// Send posts a message to the configured topic with retry and backoff.
func (c *Client) Send(ctx context.Context, message string) error {
	if !c.enabled || c.topic == "" {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying notification after delay")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.post(ctx, message); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("notification failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), c.topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Title", "Boulevard New Client Report")
	req.Header.Set("Priority", c.priority)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification request returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := time.Duration(float64(c.baseDelay) * math.Pow(2, float64(attempt-1)))
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 4))
	return delay + jitter
}
