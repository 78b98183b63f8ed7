// Package upstream is the shared outbound HTTP plumbing for the hardiness,
// weather and plant catalog clients: a traced transport, a per-call timeout,
// a circuit breaker and metrics for every call.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/scottkoskoski/gardening-app/internal/observability/metrics"
	"github.com/scottkoskoski/gardening-app/internal/reliability/circuitbreaker"
)

const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Upstream, e.StatusCode)
}

// IsClientError reports whether err is a 4xx upstream response. Those do not
// count against the breaker.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500
}

// IsTimeout reports whether err came from a deadline or client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Client performs JSON GET requests against one upstream.
type Client struct {
	name    string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// Options configures a Client. A nil Breaker gets a default one.
type Options struct {
	Timeout    time.Duration
	Breaker    *circuitbreaker.CircuitBreaker
	HTTPClient *http.Client
}

// New creates a client for the named upstream.
func New(name string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	br := opts.Breaker
	if br == nil {
		br = circuitbreaker.New(name, circuitbreaker.Settings{
			IsFailure: func(err error) bool { return err != nil && !IsClientError(err) },
		}, logger)
	}
	return &Client{
		name:    name,
		http:    hc,
		breaker: br,
		logger:  logger.With(slog.String("upstream", name)),
	}
}

// Name returns the upstream name used in logs and metrics.
func (c *Client) Name() string { return c.name }

// GetJSON issues a GET to rawURL and decodes a 2xx body into out. Numbers
// are decoded as json.Number when useNumber is set.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any, useNumber bool) error {
	start := time.Now()
	err := c.breaker.Execute(func() error {
		return c.do(ctx, rawURL, out, useNumber)
	})
	outcome := classify(err)
	metrics.ObserveUpstream(c.name, outcome, time.Since(start))
	if err != nil {
		c.logger.Warn("upstream call failed",
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
	}
	return err
}

func (c *Client) do(ctx context.Context, rawURL string, out any, useNumber bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Upstream: c.name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	dec := json.NewDecoder(resp.Body)
	if useNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}

func classify(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, circuitbreaker.ErrOpen):
		return "open"
	case errors.As(err, &se) && se.StatusCode == http.StatusNotFound:
		return "not_found"
	case errors.As(err, &se) && se.StatusCode < 500:
		return "client_error"
	case IsTimeout(err):
		return "timeout"
	default:
		return "error"
	}
}
