// Package discord posts completion and failure notifications to a
// Discord-compatible webhook.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/vyrodovalexey/decorate"
	"github.com/vyrodovalexey/decorate/notify"
	"github.com/vyrodovalexey/decorate/observability"
)

// embedColor is the fixed color code used for every embed.
const embedColor = 5814783

const (
	completionUsername = "Go Completion Notification"
	failureUsername    = "Go Error Notification"
)

// ErrMissingWebhookURL is returned when New is called without a webhook URL.
var ErrMissingWebhookURL = errors.New("discord: webhook URL is required")

// Notifier posts payloads to a single webhook URL.
type Notifier struct {
	webhookURL string
	client     notify.Doer
	logger     observability.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient injects the HTTP client used for delivery.
func WithHTTPClient(client notify.Doer) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger observability.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// New creates a Notifier for the given webhook URL. It fails fast when the
// URL is empty.
func New(webhookURL string, opts ...Option) (*Notifier, error) {
	if webhookURL == "" {
		return nil, ErrMissingWebhookURL
	}

	n := &Notifier{
		webhookURL: webhookURL,
		client:     notify.DefaultHTTPClient(),
		logger:     observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// payload is the webhook body schema.
type payload struct {
	Content     any     `json:"content"`
	Embeds      []embed `json:"embeds"`
	Username    string  `json:"username"`
	Attachments []any   `json:"attachments"`
}

type embed struct {
	Author      author `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type author struct {
	Name string `json:"name"`
}

// OnCompletion returns a callable that notifies the webhook after every
// outcome of fn. On success the returned value is described and the original
// result passed through, though a delivery failure replaces it. On failure
// the error's type, cause, and chain are posted and the original error is
// returned; delivery failures on this path are logged, never substituted.
// A panic in fn is reported with its stack trace and re-panicked.
func OnCompletion[T any](n *Notifier, name string, fn decorate.Func[T]) decorate.Func[T] {
	return func(ctx context.Context) (T, error) {
		defer n.panicHandler(ctx, name)

		result, err := fn(ctx)
		if err != nil {
			n.sendFailure(ctx, name, err)
			return result, err
		}

		if sendErr := n.send(ctx, successPayload(name, result)); sendErr != nil {
			var zero T
			return zero, sendErr
		}
		return result, nil
	}
}

// OnFailure returns a callable that notifies the webhook only when fn fails
// or panics. Success makes no network call.
func OnFailure[T any](n *Notifier, name string, fn decorate.Func[T]) decorate.Func[T] {
	return func(ctx context.Context) (T, error) {
		defer n.panicHandler(ctx, name)

		result, err := fn(ctx)
		if err != nil {
			n.sendFailure(ctx, name, err)
		}
		return result, err
	}
}

// panicHandler reports a recovered panic to the webhook and re-panics.
func (n *Notifier) panicHandler(ctx context.Context, name string) {
	rec := recover()
	if rec == nil {
		return
	}

	stack := debug.Stack()
	n.logger.Error("panic in wrapped callable",
		observability.String("function", name),
		observability.Any("panic", rec),
		observability.String("stack", string(stack)))

	p := payload{
		Embeds: []embed{{
			Author:      author{Name: failureUsername},
			Title:       fmt.Sprintf("panic: %v", rec),
			Description: fmt.Sprintf("```%s```", stack),
			Color:       embedColor,
		}},
		Username:    failureUsername,
		Attachments: []any{},
	}
	if err := n.send(ctx, p); err != nil {
		n.logger.Warn("panic notification delivery failed",
			observability.String("function", name),
			observability.Error(err))
	}

	panic(rec)
}

func (n *Notifier) sendFailure(ctx context.Context, name string, callErr error) {
	cause := errors.Unwrap(callErr)
	if cause == nil {
		cause = callErr
	}

	p := payload{
		Embeds: []embed{{
			Author:      author{Name: failureUsername},
			Title:       fmt.Sprintf("%T: %v", callErr, cause),
			Description: fmt.Sprintf("```%s```", notify.ErrorChain(callErr)),
			Color:       embedColor,
		}},
		Username:    failureUsername,
		Attachments: []any{},
	}
	if err := n.send(ctx, p); err != nil {
		n.logger.Warn("failure notification delivery failed",
			observability.String("function", name),
			observability.Error(err))
	}
}

func successPayload(name string, value any) payload {
	results, plural := renderResults(value)
	noun, verb := "value", "was"
	if plural {
		noun, verb = "values", "were"
	}

	return payload{
		Embeds: []embed{{
			Author: author{Name: completionUsername},
			Title:  fmt.Sprintf("`%s` Successfully Executed:", name),
			Description: fmt.Sprintf(
				"Function `%s` has completed running and the following %s %s returned: `%s`.",
				name, noun, verb, results),
			Color: embedColor,
		}},
		Username:    completionUsername,
		Attachments: []any{},
	}
}

// renderResults renders a returned value for the success description. A
// slice or array counts as an ordered group of values and reads as plural.
func renderResults(value any) (string, bool) {
	if value == nil {
		return "nil", false
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, fmt.Sprintf("%#v", v.Index(i).Interface()))
		}
		return "(" + strings.Join(parts, ",") + ")", true
	}

	return fmt.Sprintf("%#v", value), false
}

func (n *Notifier) send(ctx context.Context, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return notify.Post(ctx, n.client, n.webhookURL, "application/json", body)
}
