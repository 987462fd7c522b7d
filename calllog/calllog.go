// Package calllog brackets callable invocations with log entries.
package calllog

import (
	"context"
	"fmt"
	"strings"

	"github.com/vyrodovalexey/decorate"
	"github.com/vyrodovalexey/decorate/observability"
)

// Execution returns a callable that emits an INFO entry before invoking fn
// and another after it returns successfully. If fn fails, only the first
// entry is emitted and the error propagates unchanged.
func Execution[T any](logger observability.Logger, name string, fn decorate.Func[T]) decorate.Func[T] {
	if logger == nil {
		logger = observability.NopLogger()
	}

	return func(ctx context.Context) (T, error) {
		logger.Info(fmt.Sprintf("Executing %s", name))
		result, err := fn(ctx)
		if err != nil {
			return result, err
		}
		logger.Info(fmt.Sprintf("Finished executing %s", name))
		return result, nil
	}
}

// ExecutionMiddleware returns a decorate.Middleware applying Execution.
func ExecutionMiddleware[T any](logger observability.Logger, name string) decorate.Middleware[T] {
	return func(fn decorate.Func[T]) decorate.Func[T] {
		return Execution(logger, name, fn)
	}
}

// namedArg is a keyword-style argument created by Named.
type namedArg struct {
	name  string
	value any
}

// Named renders an argument as name=value in the logged signature.
func Named(name string, value any) any {
	return namedArg{name: name, value: value}
}

// Signature returns a callable that emits DEBUG entries on entry and on
// successful exit, both including a textual rendering of the given arguments.
// The exit entry includes the return value. Errors propagate unchanged with
// no exit entry.
func Signature[T any](logger observability.Logger, name string, fn decorate.Func[T], args ...any) decorate.Func[T] {
	if logger == nil {
		logger = observability.NopLogger()
	}

	return func(ctx context.Context) (T, error) {
		signature := renderSignature(args)
		logger.Debug(fmt.Sprintf("Entering %s(%s)", name, signature))
		result, err := fn(ctx)
		if err != nil {
			return result, err
		}
		logger.Debug(fmt.Sprintf("Leaving %s(%s) with return value `%#v`.", name, signature, result))
		return result, nil
	}
}

// renderSignature joins positional arguments rendered with %#v and named
// arguments rendered as name=value, in the order given.
func renderSignature(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if named, ok := arg.(namedArg); ok {
			parts = append(parts, fmt.Sprintf("%s=%#v", named.name, named.value))
			continue
		}
		parts = append(parts, fmt.Sprintf("%#v", arg))
	}
	return strings.Join(parts, ",")
}
