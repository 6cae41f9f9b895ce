// Package retry executes asynchronous operations with bounded attempts and
// exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	defaultMaxAttempts   = 3
	defaultBaseDelay     = 1 * time.Second
	defaultMaxDelay      = 10 * time.Second
	defaultBackoffFactor = 2.0
)

// HTTPError is an HTTP response with a non-success status, carried as an
// error so retry conditions can classify it.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected response: %s", e.Status)
}

// Config controls the retry loop. Zero-valued fields take defaults.
type Config struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// RetryCondition reports whether a failed attempt should be retried.
	RetryCondition func(err error) bool
	// OnRetry runs before each backoff wait.
	OnRetry func(attempt int, err error)
	// OnMaxAttemptsReached runs once the attempt budget is exhausted.
	OnMaxAttemptsReached func(err error)
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}

	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}

	if c.MaxDelay <= 0 {
		c.MaxDelay = defaultMaxDelay
	}

	if c.BackoffFactor <= 0 {
		c.BackoffFactor = defaultBackoffFactor
	}

	if c.RetryCondition == nil {
		c.RetryCondition = DefaultRetryCondition
	}

	return c
}

// DefaultRetryCondition retries network-level failures and the retryable
// HTTP statuses (5xx, 408, 429). Everything else fails fast.
func DefaultRetryCondition(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		code := httpErr.StatusCode

		return code >= http.StatusInternalServerError ||
			code == http.StatusRequestTimeout ||
			code == http.StatusTooManyRequests
	}

	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// State is a point-in-time view of a Retrier.
type State struct {
	Attempt    int
	IsRetrying bool
	LastError  error
}

// Retrier runs operations under a single Config and tracks the state of the
// most recent execution. It is safe for concurrent use, though attempts
// themselves never run concurrently.
type Retrier struct {
	mu    sync.Mutex
	cfg   Config
	state State
}

// New returns a Retrier with the given configuration applied over defaults.
func New(cfg Config) *Retrier {
	return &Retrier{cfg: cfg.withDefaults()}
}

// State reports the attempt counter, retry flag, and last error observed.
func (r *Retrier) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Reset clears the tracked state between executions.
func (r *Retrier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = State{}
}

func (r *Retrier) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = s
}

// Delay returns the backoff before the attempt following a failed attempt
// numbered attempt (1-based): min(base * factor^(attempt-1), max).
func (c Config) Delay(attempt int) time.Duration {
	d := time.Duration(
		float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt-1)),
	)

	if d > c.MaxDelay {
		d = c.MaxDelay
	}

	return d
}

// Do executes op under the retrier's configuration. It returns op's value on
// the first success, or the last error once attempts are exhausted or the
// retry condition rejects the error. The backoff wait sits strictly between
// a failed attempt and the next one; there is no wait after the final
// attempt.
func Do[T any](ctx context.Context, r *Retrier, op func() (T, error)) (T, error) {
	var zero T

	cfg := r.cfg

	var (
		lastErr   error
		exhausted bool
	)

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		r.record(State{Attempt: attempt, IsRetrying: attempt > 1, LastError: lastErr})

		v, err := op()
		if err == nil {
			r.record(State{Attempt: attempt})
			return v, nil
		}

		lastErr = err
		r.record(State{Attempt: attempt, IsRetrying: true, LastError: lastErr})

		if !cfg.RetryCondition(err) {
			break
		}

		if attempt == cfg.MaxAttempts {
			exhausted = true
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		select {
		case <-time.After(cfg.Delay(attempt)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	// a non-retryable error is a verdict, not an exhausted budget
	if exhausted && cfg.OnMaxAttemptsReached != nil {
		cfg.OnMaxAttemptsReached(lastErr)
	}

	return zero, lastErr
}
