// Package ntfy posts plain-text completion and failure notifications to a
// topic-based push endpoint.
package ntfy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vyrodovalexey/decorate"
	"github.com/vyrodovalexey/decorate/notify"
	"github.com/vyrodovalexey/decorate/observability"
)

// Common construction errors.
var (
	// ErrMissingBaseURL is returned when New is called without a server URL.
	ErrMissingBaseURL = errors.New("ntfy: server URL is required")

	// ErrMissingTopic is returned when New is called without a topic.
	ErrMissingTopic = errors.New("ntfy: topic is required")
)

// messageMode selects what a notification body contains.
type messageMode int

const (
	// modeOutcome sends the rendered result or error.
	modeOutcome messageMode = iota
	// modeLiteral sends configured literal text.
	modeLiteral
	// modeSkip sends nothing.
	modeSkip
)

type message struct {
	mode messageMode
	text string
}

// Client posts notifications to <baseURL>/<topic>.
type Client struct {
	baseURL string
	topic   string
	client  notify.Doer
	logger  observability.Logger

	onCompletion message
	onError      message
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client used for delivery.
func WithHTTPClient(client notify.Doer) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger observability.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCompletionMessage sends the given literal text on success instead of
// the rendered result.
func WithCompletionMessage(text string) Option {
	return func(c *Client) {
		c.onCompletion = message{mode: modeLiteral, text: text}
	}
}

// WithoutCompletion disables the success notification.
func WithoutCompletion() Option {
	return func(c *Client) {
		c.onCompletion = message{mode: modeSkip}
	}
}

// WithErrorMessage sends the given literal text on failure instead of the
// rendered error chain.
func WithErrorMessage(text string) Option {
	return func(c *Client) {
		c.onError = message{mode: modeLiteral, text: text}
	}
}

// WithoutError disables the failure notification.
func WithoutError() Option {
	return func(c *Client) {
		c.onError = message{mode: modeSkip}
	}
}

// New creates a Client for the given server URL and topic. It fails fast
// when either is missing.
func New(baseURL, topic string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if topic == "" {
		return nil, ErrMissingTopic
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		topic:        topic,
		client:       notify.DefaultHTTPClient(),
		logger:       observability.NopLogger(),
		onCompletion: message{mode: modeOutcome},
		onError:      message{mode: modeOutcome},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Notify returns a callable that posts at most one notification per call:
// the success body on success, the failure body on failure. The send is a
// side effect only; the original result is always returned and the original
// error always propagates, with delivery failures logged rather than
// substituted for the outcome.
func Notify[T any](c *Client, name string, fn decorate.Func[T]) decorate.Func[T] {
	return func(ctx context.Context) (T, error) {
		result, err := fn(ctx)
		if err != nil {
			switch c.onError.mode {
			case modeOutcome:
				c.post(ctx, name, notify.ErrorChain(err))
			case modeLiteral:
				c.post(ctx, name, c.onError.text)
			}
			return result, err
		}

		switch c.onCompletion.mode {
		case modeOutcome:
			c.post(ctx, name, fmt.Sprintf("%v", result))
		case modeLiteral:
			c.post(ctx, name, c.onCompletion.text)
		}
		return result, nil
	}
}

// Time returns a callable that posts exactly one notification per call,
// reporting the elapsed duration with success or failure wording. The
// result and error pass through untouched; a panic still triggers the
// notification before propagating.
func Time[T any](c *Client, name string, fn decorate.Func[T]) decorate.Func[T] {
	return func(ctx context.Context) (result T, err error) {
		start := time.Now()

		defer func() {
			elapsed := time.Since(start)
			rec := recover()

			var body string
			if rec != nil || err != nil {
				body = fmt.Sprintf("Function: %s had an error thrown after: %s.", name, elapsed)
			} else {
				body = fmt.Sprintf("Function: %s successfully run in: %s.", name, elapsed)
			}
			c.post(ctx, name, body)

			if rec != nil {
				panic(rec)
			}
		}()

		result, err = fn(ctx)
		return result, err
	}
}

func (c *Client) post(ctx context.Context, name, body string) {
	url := c.baseURL + "/" + c.topic
	if err := notify.Post(ctx, c.client, url, "text/plain", []byte(body)); err != nil {
		c.logger.Warn("ntfy notification delivery failed",
			observability.String("function", name),
			observability.String("topic", c.topic),
			observability.Error(err))
	}
}
