// Package retry re-invokes failing callables with a fixed inter-attempt delay.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/vyrodovalexey/decorate"
)

// Default retry configuration constants.
const (
	// DefaultMaxTries is the default total number of attempts.
	DefaultMaxTries = 3

	// DefaultDelay is the default pause between failed attempts.
	DefaultDelay = 1 * time.Second
)

// ErrInvalidMaxTries is returned when MaxTries is explicitly negative.
var ErrInvalidMaxTries = errors.New("retry: max tries must be positive")

// Config contains retry configuration parameters.
type Config struct {
	// MaxTries is the total number of attempts allowed, including the first.
	// Default is 3.
	MaxTries int

	// Delay is the pause between failed attempts. There is no backoff or
	// jitter: every pause is exactly this long. Default is 1s.
	Delay time.Duration
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxTries: DefaultMaxTries,
		Delay:    DefaultDelay,
	}
}

// GetMaxTries returns the effective max tries.
func (c *Config) GetMaxTries() int {
	if c == nil || c.MaxTries == 0 {
		return DefaultMaxTries
	}
	return c.MaxTries
}

// GetDelay returns the effective inter-attempt delay.
func (c *Config) GetDelay() time.Duration {
	if c == nil || c.Delay < 0 {
		return DefaultDelay
	}
	return c.Delay
}

// Validate checks the configuration. An explicitly negative MaxTries is a
// configuration error rather than a silent no-op.
func (c *Config) Validate() error {
	if c != nil && c.MaxTries < 0 {
		return ErrInvalidMaxTries
	}
	return nil
}

// RetryableFunc is a function that can be retried.
type RetryableFunc func() error

// ShouldRetryFunc determines if an error should trigger a retry.
type ShouldRetryFunc func(error) bool

// OnRetryFunc is called before each retry attempt.
type OnRetryFunc func(attempt int, err error, delay time.Duration)

// Options contains optional retry behavior configuration.
type Options struct {
	// ShouldRetry determines if an error should trigger a retry.
	// If nil, all errors are retried.
	ShouldRetry ShouldRetryFunc

	// OnRetry is called before each retry attempt.
	OnRetry OnRetryFunc
}

// Do executes a function with retry logic. On success at any attempt it
// returns nil immediately; after MaxTries failed attempts it returns the last
// error unchanged.
func Do(ctx context.Context, cfg *Config, fn RetryableFunc, opts *Options) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	maxTries := cfg.GetMaxTries()
	delay := cfg.GetDelay()

	var lastErr error
	for attempt := 1; attempt <= maxTries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		GetRetryMetrics().attemptsTotal.Inc()

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if opts != nil && opts.ShouldRetry != nil && !opts.ShouldRetry(lastErr) {
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt < maxTries {
			if opts != nil && opts.OnRetry != nil {
				opts.OnRetry(attempt, lastErr, delay)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	GetRetryMetrics().exhaustedTotal.Inc()

	return lastErr
}

// DoValue executes a value-producing function with retry logic.
func DoValue[T any](ctx context.Context, cfg *Config, fn decorate.Func[T], opts *Options) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var callErr error
		result, callErr = fn(ctx)
		return callErr
	}, opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Middleware returns a decorate.Middleware applying retry logic with the
// given configuration. It fails fast on invalid configuration.
func Middleware[T any](cfg *Config, opts *Options) (decorate.Middleware[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return func(fn decorate.Func[T]) decorate.Func[T] {
		return func(ctx context.Context) (T, error) {
			return DoValue(ctx, cfg, fn, opts)
		}
	}, nil
}
