package browser

import (
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

const markerWaitTimeout = 10 * time.Second

// NavigateWithRetry loads url, re-authenticating when the dashboard bounces
// the page back to the login form. Attempt count, per-attempt timeout, and
// the post-navigation settle delay come from the Navigation resilience
// profile. marker, when non-empty, is an element expected on the
// destination page; its absence is logged but does not fail the navigation.
func (s *Session) NavigateWithRetry(url, marker string) bool {
	maxAttempts := s.nav.MaxRetries + 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		log.Info().
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Str("url", url).
			Msg("Navigating")

		if err := s.RunWithTimeout(s.nav.Timeout, chromedp.Navigate(url)); err != nil {
			log.Error().Err(err).Int("attempt", attempt).Msg("Navigation failed")
			if attempt < maxAttempts {
				_ = s.Run(chromedp.Sleep(s.nav.BaseDelay))
				continue
			}
			return false
		}

		// Give any auth redirect a moment to land.
		_ = s.Run(chromedp.Sleep(s.nav.BaseDelay))

		if s.IsOnLoginPage() {
			log.Warn().Int("attempt", attempt).Msg("Redirected to login page")
			if attempt == maxAttempts {
				log.Error().Msg("Max navigation attempts reached")
				return false
			}
			if !s.Login() {
				log.Error().Int("attempt", attempt).Msg("Re-login failed")
				continue
			}
			// Logged back in; take the navigation from the top.
			continue
		}

		if marker != "" {
			if s.IsVisible(marker, markerWaitTimeout) {
				log.Debug().Str("marker", marker).Msg("Destination page marker found")
			} else {
				log.Warn().Str("marker", marker).Msg("Destination page marker not found, continuing anyway")
			}
		}
		return true
	}
	return false
}
