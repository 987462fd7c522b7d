package decorate

import "context"

// Func is a callable producing a value of type T. Callers close over any
// arguments the underlying operation needs.
type Func[T any] func(ctx context.Context) (T, error)

// Middleware transforms a Func into a decorated Func.
type Middleware[T any] func(Func[T]) Func[T]

// Chain applies the given middlewares to fn. The first middleware becomes the
// outermost wrapper, so Chain(fn, a, b) executes a(b(fn)).
func Chain[T any](fn Func[T], mw ...Middleware[T]) Func[T] {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			fn = mw[i](fn)
		}
	}
	return fn
}

// NoValue adapts a plain error-returning function to a Func. It is a
// convenience for callables that produce no result.
func NoValue(fn func(ctx context.Context) error) Func[struct{}] {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}
}
