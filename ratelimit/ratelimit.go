// Package ratelimit gates callables behind a token-bucket rate limiter.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/decorate"
)

// Limiter paces calls to a configured rate.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing rps calls per second with the given burst.
func New(rps float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Allow reports whether a call may proceed immediately.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wrap returns a callable that blocks until the limiter grants a token, then
// invokes fn. Context cancellation while waiting is returned as the error.
func Wrap[T any](l *Limiter, fn decorate.Func[T]) decorate.Func[T] {
	return func(ctx context.Context) (T, error) {
		if err := l.limiter.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	}
}

// Middleware returns a decorate.Middleware applying the limiter.
func Middleware[T any](l *Limiter) decorate.Middleware[T] {
	return func(fn decorate.Func[T]) decorate.Func[T] {
		return Wrap(l, fn)
	}
}
