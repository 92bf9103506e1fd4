package glosa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig controls how dictionary loads are retried.
type RetryConfig struct {
	MaxRetries int           // Retries after the first attempt
	BaseDelay  time.Duration // Delay before the first retry, doubled for each next one
	MaxDelay   time.Duration // Upper bound for a single delay

	// OnRetry, if set, is called before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryConfig suits a term store reached over the network.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// delay returns the backoff before retry number attempt (zero based).
func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.BaseDelay
	for i := 0; i < attempt && d < c.MaxDelay; i++ {
		d *= 2
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// WithRetry calls fn until it succeeds, fails with an error IsRetryable
// rejects, or runs out of retries. Exhausting the retries yields a
// non-retryable *DictionaryLoadError wrapping the last failure, so an outer
// retry loop does not multiply the attempts.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}

		d := cfg.delay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, d)
		}

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, &DictionaryLoadError{
		Message: fmt.Sprintf("giving up after %d attempts", cfg.MaxRetries+1),
		Cause:   lastErr,
	}
}

// IsRetryable reports whether err is a *DictionaryLoadError marked retryable.
// Cancellation and deadline errors never are.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var loadErr *DictionaryLoadError
	if errors.As(err, &loadErr) {
		return loadErr.Retryable
	}
	return false
}

// RetryableTermProvider retries transient term store failures. The
// dictionary cache never retries on its own; wrap the provider when a retry
// policy is wanted.
type RetryableTermProvider struct {
	provider TermProvider
	config   RetryConfig
	logger   *slog.Logger
}

// RetryOption configures a RetryableTermProvider.
type RetryOption func(*RetryableTermProvider)

// WithRetryLogger logs each retry at warn level.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(p *RetryableTermProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewRetryableTermProvider wraps provider with the given retry policy.
func NewRetryableTermProvider(provider TermProvider, cfg RetryConfig, opts ...RetryOption) *RetryableTermProvider {
	p := &RetryableTermProvider{
		provider: provider,
		config:   cfg,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadAllTerms loads terms from the wrapped provider, retrying retryable failures.
func (p *RetryableTermProvider) LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error) {
	cfg := p.config
	onRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		p.logger.Warn("term store load failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}
	}
	return WithRetry(ctx, cfg, p.provider.LoadAllTerms)
}

var _ TermProvider = (*RetryableTermProvider)(nil)
