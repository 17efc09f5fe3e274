// Package retry holds the bounded linear-backoff policy shared by the HTTP
// fetcher and the browser-rendered extractor.
package retry

import (
	"context"
	"errors"
	"time"

	"quiz-scraper/internal/config"

	goretry "github.com/sethvargo/go-retry"
)

// Policy retries up to MaxAttempts times. The wait before attempt i (0-based)
// is BackoffUnit*i, so the first attempt runs immediately.
type Policy struct {
	MaxAttempts int
	BackoffUnit time.Duration
}

// FromConfig builds a policy from scraper settings.
func FromConfig(cfg config.ScraperConfig) Policy {
	cfg = cfg.WithDefaults()
	return Policy{MaxAttempts: cfg.MaxAttempts, BackoffUnit: cfg.BackoffUnit}
}

// Delay returns the wait before the given 0-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return p.BackoffUnit * time.Duration(attempt)
}

// Backoff returns a fresh go-retry backoff that yields Delay(1), Delay(2), ...
// and stops after MaxAttempts-1 retries.
func (p Policy) Backoff() goretry.Backoff {
	attempt := 0
	linear := goretry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return p.Delay(attempt), false
	})
	maxRetries := p.MaxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}
	return goretry.WithMaxRetries(uint64(maxRetries), linear)
}

// Retryable marks err as worth another attempt.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return goretry.RetryableError(err)
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempts
// run out. It returns how many attempts were made and the last error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := 0
	err := goretry.Do(ctx, p.Backoff(), func(ctx context.Context) error {
		attempt := attempts
		attempts++
		return fn(ctx, attempt)
	})
	return attempts, err
}

// IsContextError reports whether err came from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
