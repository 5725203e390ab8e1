package retry

import (
	"context"
	"fmt"
	"time"
)

/* Small retry combinator shared by the attachment transfer flows.
 * Callers parameterize the backoff math once instead of duplicating
 * imperative sleep loops.
 */

// Policy bounds the retry behavior
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Validate checks if the policy is usable
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1 (got %d)", p.MaxAttempts)
	}
	if p.BaseDelay <= 0 {
		return fmt.Errorf("base delay must be positive (got %s)", p.BaseDelay)
	}
	if p.MaxDelay < p.BaseDelay {
		return fmt.Errorf("max delay %s is below base delay %s", p.MaxDelay, p.BaseDelay)
	}
	return nil
}

// Delay returns the backoff before the given retry attempt (1-based):
// min(base * 2^(attempt-1), max).
func (p Policy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	return delay
}

// Classifier reports whether an error is worth retrying.
// A nil classifier retries every error.
type Classifier func(error) bool

// Do runs fn up to p.MaxAttempts times, sleeping the backoff delay before
// each retry. Terminal errors (per classify) and context cancellation stop
// the loop immediately. The last error is returned on exhaustion.
func Do(ctx context.Context, p Policy, classify Classifier, fn func(ctx context.Context) error) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating retry policy: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(p.Delay(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled after %d attempts: %w", attempt-1, ctx.Err())
			case <-timer.C:
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if classify != nil && !classify(lastErr) {
			return fmt.Errorf("terminal error on attempt %d: %w", attempt, lastErr)
		}
	}

	return fmt.Errorf("exhausted %d attempts: %w", p.MaxAttempts, lastErr)
}
