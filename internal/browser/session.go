package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/app"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/config"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/retry"
)

// Session owns the single browser page used for the whole run. All
// navigation and scraping rides on it serially; there is no tab pooling.
type Session struct {
	cfg         app.Config
	nav         retry.Config
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession launches the browser and opens the page. Close must be called
// to tear the browser down.
func NewSession(parent context.Context, cfg app.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a broken Chrome install fails fast.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Debug().Bool("headless", cfg.Headless).Msg("Browser session started")
	return &Session{
		cfg:         cfg,
		nav:         config.DefaultResilienceConfig.Navigation,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Close shuts down the page and the browser process.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// Context exposes the page context for packages that drive chromedp actions
// directly.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Run executes actions against the session page.
func (s *Session) Run(actions ...chromedp.Action) error {
	return chromedp.Run(s.ctx, actions...)
}

// RunWithTimeout executes actions with a bounded deadline.
func (s *Session) RunWithTimeout(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// IsVisible reports whether sel becomes visible within timeout.
func (s *Session) IsVisible(sel string, timeout time.Duration) bool {
	return s.RunWithTimeout(timeout, chromedp.WaitVisible(sel, chromedp.ByQuery)) == nil
}

// CurrentURL returns the page URL, or "" when it cannot be read.
func (s *Session) CurrentURL() string {
	var u string
	if err := s.RunWithTimeout(5*time.Second, chromedp.Location(&u)); err != nil {
		log.Debug().Err(err).Msg("Failed to read current URL")
		return ""
	}
	return u
}

// OuterHTML snapshots the subtree matched by sel for offline parsing.
func (s *Session) OuterHTML(sel string) (string, error) {
	var html string
	if err := s.RunWithTimeout(10*time.Second, chromedp.OuterHTML(sel, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to snapshot %q: %w", sel, err)
	}
	return html, nil
}

// sessionState is what gets persisted to the session file between runs.
type sessionState struct {
	Cookies []*network.Cookie `json:"cookies"`
	SavedAt time.Time         `json:"saved_at"`
}

// SaveState persists the browser cookies so the next run can skip the login
// form when the dashboard session is still valid.
func (s *Session) SaveState() error {
	var cookies []*network.Cookie
	err := s.Run(chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	raw, err := json.MarshalIndent(sessionState{Cookies: cookies, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := os.WriteFile(s.cfg.SessionFile, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	log.Debug().
		Str("file", s.cfg.SessionFile).
		Int("cookies", len(cookies)).
		Msg("Session state saved")
	return nil
}

// RestoreState loads cookies from a previous run. A missing or unreadable
// file is not an error: the login check downstream catches stale sessions.
func (s *Session) RestoreState() bool {
	raw, err := os.ReadFile(s.cfg.SessionFile)
	if err != nil {
		log.Debug().Str("file", s.cfg.SessionFile).Msg("No saved session state found")
		return false
	}

	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		log.Warn().Err(err).Str("file", s.cfg.SessionFile).Msg("Saved session state is corrupt, ignoring")
		return false
	}

	params := make([]*network.CookieParam, 0, len(state.Cookies))
	for _, c := range state.Cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &expires
		}
		params = append(params, p)
	}

	err = s.Run(chromedp.ActionFunc(func(ctx context.Context) error {
		return storage.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to restore session cookies")
		return false
	}

	log.Info().
		Int("cookies", len(params)).
		Time("saved_at", state.SavedAt).
		Msg("Restored session state from previous run")
	return true
}
