// Package decorate provides small, composable function-wrapping utilities
// that add cross-cutting behavior around arbitrary callables without
// touching their internal logic.
//
// Each concern lives in its own package:
//
//   - retry: re-invoke a failing callable with a fixed inter-attempt delay
//   - timing: measure and report wall-clock execution time
//   - memoize: cache results keyed by the call arguments
//   - calllog: bracket a call with entry/exit log entries
//   - notify/discord: post structured completion/failure messages to a webhook
//   - notify/ntfy: post plain-text completion/failure messages to a push topic
//   - breaker: short-circuit a callable behind a circuit breaker
//   - ratelimit: gate a callable behind a token-bucket rate limiter
//
// # Core Types
//
// The root package defines the callable shape every wrapper works with:
//
//	type Func[T any] func(ctx context.Context) (T, error)
//	type Middleware[T any] func(Func[T]) Func[T]
//
// Callers close over their arguments, so a function of any arity can be
// wrapped:
//
//	fetch := func(ctx context.Context) (string, error) {
//	    return client.Get(ctx, url)
//	}
//	fetch = decorate.Chain(fetch,
//	    timing.Middleware[string]("fetch", timing.WithLogger(logger)),
//	    retryMW,
//	)
//	body, err := fetch(ctx)
//
// Wrappers that render the callable's name or arguments take them as explicit
// parameters; no metadata is copied implicitly.
//
// # Logging
//
// Every wrapper that logs accepts an injected observability.Logger and
// defaults to a no-op logger, so the library never depends on ambient
// process-wide logging configuration.
package decorate
