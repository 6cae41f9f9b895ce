package retry

import (
	"time"

	"github.com/pterm/pterm"
)

// APIPreset suits interactive API calls: quick backoff with visible warnings
// so the user knows a request is being retried.
func APIPreset() Config {
	return Config{
		MaxAttempts:   3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2,
		OnRetry: func(attempt int, err error) {
			pterm.Warning.Printfln(
				"request failed (attempt %d): %v. Retrying...",
				attempt,
				err,
			)
		},
		OnMaxAttemptsReached: func(err error) {
			pterm.Error.Printfln("request failed after all retries: %v", err)
		},
	}
}

// CriticalPreset suits operations that must not be given up on lightly, such
// as flushing the offline queue on demand. It allows more attempts and a
// longer ceiling.
func CriticalPreset() Config {
	return Config{
		MaxAttempts:   5,
		BaseDelay:     2 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2,
		OnRetry: func(attempt int, err error) {
			pterm.Warning.Printfln(
				"critical operation failed (attempt %d): %v. Retrying...",
				attempt,
				err,
			)
		},
		OnMaxAttemptsReached: func(err error) {
			pterm.Error.Printfln(
				"critical operation failed after all retries: %v",
				err,
			)
		},
	}
}

// BackgroundPreset suits periodic jobs where nobody is watching: patient
// backoff and no terminal output.
func BackgroundPreset() Config {
	return Config{
		MaxAttempts:   4,
		BaseDelay:     5 * time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 3,
	}
}
