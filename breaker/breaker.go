// Package breaker short-circuits repeatedly failing callables behind a
// circuit breaker.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vyrodovalexey/decorate"
	"github.com/vyrodovalexey/decorate/observability"
)

// ErrOpen is returned while the circuit is open and calls are rejected.
var ErrOpen = gobreaker.ErrOpenState

// StateFunc is called when the breaker changes state.
// Parameters: name (breaker name), state (0=closed, 1=half-open, 2=open).
type StateFunc func(name string, state int)

// Breaker wraps gobreaker.CircuitBreaker.
type Breaker struct {
	cb            *gobreaker.CircuitBreaker
	logger        observability.Logger
	stateCallback StateFunc
}

// Option is a functional option for configuring the breaker.
type Option func(*Breaker)

// WithLogger sets the logger for the breaker.
func WithLogger(logger observability.Logger) Option {
	return func(b *Breaker) {
		b.logger = logger
	}
}

// WithStateCallback sets a callback for breaker state changes.
func WithStateCallback(fn StateFunc) Option {
	return func(b *Breaker) {
		b.stateCallback = fn
	}
}

// New creates a breaker that trips once at least threshold calls have been
// observed and half of them failed, and probes again after timeout.
func New(name string, threshold int, timeout time.Duration, opts ...Option) *Breaker {
	b := &Breaker{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	thresholdU32 := safeIntToUint32(threshold)

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: thresholdU32,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= thresholdU32 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			b.logger.Info("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)

			if b.stateCallback != nil {
				b.stateCallback(name, int(to))
			}
		},
	}

	b.cb = gobreaker.NewCircuitBreaker(settings)
	return b
}

// safeIntToUint32 safely converts int to uint32.
func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n)
}

// State returns the current state of the breaker.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Wrap returns a callable executing fn through the breaker. While the
// circuit is open the callable fails immediately with ErrOpen; otherwise the
// wrapped call's result and error pass through unchanged.
func Wrap[T any](b *Breaker, fn decorate.Func[T]) decorate.Func[T] {
	return func(ctx context.Context) (T, error) {
		value, err := b.cb.Execute(func() (interface{}, error) {
			return fn(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				b.logger.Warn("circuit breaker rejected call",
					observability.String("name", b.cb.Name()),
					observability.String("state", b.State().String()),
				)
			}
			var zero T
			return zero, err
		}
		result, ok := value.(T)
		if !ok {
			var zero T
			return zero, err
		}
		return result, nil
	}
}

// Middleware returns a decorate.Middleware applying the breaker.
func Middleware[T any](b *Breaker) decorate.Middleware[T] {
	return func(fn decorate.Func[T]) decorate.Func[T] {
		return Wrap(b, fn)
	}
}
