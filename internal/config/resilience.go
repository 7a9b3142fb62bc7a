package config

import (
	"time"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/retry"
)

type ResilienceConfig struct {
	Navigation    retry.Config
	CalendarFetch retry.Config
	SheetOps      retry.Config
}

// DefaultResilienceConfig bounds every retried stage of the run. Navigation
// timeouts are generous because a page load behind a login redirect can
// legitimately take a while.
var DefaultResilienceConfig = ResilienceConfig{
	Navigation: retry.Config{
		MaxRetries: 2,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    60 * time.Second,
	},
	CalendarFetch: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    30 * time.Second,
	},
	SheetOps: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
}
