// Package timing measures and reports the execution time of callables.
package timing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vyrodovalexey/decorate"
	"github.com/vyrodovalexey/decorate/observability"
)

// Option configures the timing wrapper.
type Option func(*options)

type options struct {
	logger      observability.Logger
	out         io.Writer
	nanoseconds bool
}

// WithLogger sets the logger the elapsed-time message is emitted through at
// INFO severity. This is the default reporting channel.
func WithLogger(logger observability.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput writes the elapsed-time message to w instead of logging it.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// Nanoseconds reports the elapsed time as an integer nanosecond count instead
// of float seconds.
func Nanoseconds() Option {
	return func(o *options) {
		o.nanoseconds = true
	}
}

// Wrap returns a callable that measures the wall-clock duration of fn and
// reports it under the given name. The wrapped call's result is returned
// unchanged. If fn fails, the error propagates and no message is emitted.
func Wrap[T any](name string, fn decorate.Func[T], opts ...Option) decorate.Func[T] {
	o := &options{logger: observability.NopLogger()}
	for _, opt := range opts {
		opt(o)
	}

	return func(ctx context.Context) (T, error) {
		start := time.Now()
		result, err := fn(ctx)
		if err != nil {
			return result, err
		}
		elapsed := time.Since(start)

		message := format(name, elapsed, o.nanoseconds)
		if o.out != nil {
			fmt.Fprintln(o.out, message)
		} else {
			o.logger.Info(message,
				observability.String("function", name),
				observability.Duration("elapsed", elapsed))
		}

		return result, nil
	}
}

// Middleware returns a decorate.Middleware applying the timing wrapper.
func Middleware[T any](name string, opts ...Option) decorate.Middleware[T] {
	return func(fn decorate.Func[T]) decorate.Func[T] {
		return Wrap(name, fn, opts...)
	}
}

func format(name string, elapsed time.Duration, nanoseconds bool) string {
	if nanoseconds {
		return fmt.Sprintf("Execution time for: %s: %dns.", name, elapsed.Nanoseconds())
	}
	return fmt.Sprintf("Execution time for: %s: %gs.", name, elapsed.Seconds())
}
