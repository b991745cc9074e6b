// Package api is the HTTP client for the EagleKidz backend service.
//
// Every call goes through Client.do, which attaches JSON headers, decodes the
// {message, status, data} envelope and turns non-2xx responses into *Error.
// There are no retries and no client-side timeout; cancel through the context.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"eaglekidz/pkg/ctxutil"
)

// RequestIDHeader is forwarded on every backend call.
const RequestIDHeader = "X-Request-ID"

// DefaultSummarizePath is the AI summarisation endpoint.
const DefaultSummarizePath = "/api/v1/ai/summarize"

// transportMessage is shown when the backend cannot be reached at all.
const transportMessage = "unable to reach the EagleKidz service"

// ErrNoData is returned when a successful envelope carries no data.
var ErrNoData = errors.New("response contained no data")

// Error is a failed backend call. Message is safe to show to the user.
type Error struct {
	StatusCode int // 0 for transport failures
	Message    string
	cause      error
}

// Error returns the user-facing message.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the transport cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Envelope is the uniform response body of the backend.
type Envelope[T any] struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    *T     `json:"data,omitempty"`
}

// Observer is notified after every backend call (status 0 on transport failure).
type Observer func(method, path string, status int, d time.Duration)

// Client is an explicitly constructed, injectable backend client.
type Client struct {
	http          *resty.Client
	summarizePath string
	observers     []Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.http.SetHeader(key, value) }
}

// WithSummarizePath overrides the AI summarisation path.
func WithSummarizePath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.summarizePath = path
		}
	}
}

// WithObserver registers a call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observers = append(c.observers, o) }
}

// WithHTTPClient swaps the underlying *http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		base := c.http.BaseURL
		headers := c.http.Header.Clone()
		c.http = resty.NewWithClient(hc).SetBaseURL(base)
		c.http.Header = headers
	}
}

// New creates a client against baseURL.
// PRE: baseURL is an absolute origin, e.g. http://localhost:8080
// POST: Returns a client with JSON headers, no retries and no timeout
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		summarizePath: DefaultSummarizePath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes the envelope into out.
// PRE: path is relative to the base origin; out is nil or a pointer
// POST: 2xx → out populated (if the body is non-empty); otherwise *Error
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	reqID := ctxutil.RequestIDFromCtx(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, reqID).
		SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil {
		c.notify(method, path, 0, elapsed)
		slog.Warn("backend_unreachable", "method", method, "path", path, "request_id", reqID, "error", err)
		return &Error{Message: transportMessage, cause: err}
	}
	c.notify(method, path, resp.StatusCode(), elapsed)
	slog.Debug("backend_call", "method", method, "path", path, "status", resp.StatusCode(),
		"request_id", reqID, "duration_ms", float64(elapsed.Microseconds())/1000.0)

	if !resp.IsSuccess() {
		return failure(resp.StatusCode(), resp.Body())
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &Error{StatusCode: resp.StatusCode(), Message: "unexpected response from the EagleKidz service", cause: err}
	}
	return nil
}

// failure maps a non-2xx body to *Error, preferring the server's message.
func failure(status int, body []byte) error {
	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &Error{StatusCode: status, Message: env.Message}
	}
	return &Error{StatusCode: status, Message: fmt.Sprintf("HTTP error! status: %d", status)}
}

func (c *Client) notify(method, path string, status int, d time.Duration) {
	for _, o := range c.observers {
		o(method, path, status, d)
	}
}

// fetch is the typed specialisation of do used by every endpoint call.
func fetch[T any](ctx context.Context, c *Client, method, path string, body any) (Envelope[T], error) {
	var env Envelope[T]
	if err := c.do(ctx, method, path, body, nil, &env); err != nil {
		return Envelope[T]{}, err
	}
	return env, nil
}

// data unwraps the envelope, turning a missing payload into ErrNoData.
func data[T any](env Envelope[T], err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if env.Data == nil {
		return zero, ErrNoData
	}
	return *env.Data, nil
}

// list unwraps a list envelope; a missing payload is an empty list.
func list[T any](env Envelope[[]T], err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, nil
	}
	return *env.Data, nil
}
