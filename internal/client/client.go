package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/admin-console/pkg/circuitbreaker"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// TokenSource supplies the bearer credential attached to every request.
// session.Session satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is the sustained outbound requests per second; 0 disables
	// the limiter.
	RateLimit       float64
	RateBurst       int
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// Client talks to the hospital REST backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  *zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(config Config, tokens TokenSource, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", config.BaseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	nop := zerolog.Nop()
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  &nop,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "hospitalis-api",
			MaxFailures: config.BreakerFailures,
			Timeout:     config.BreakerTimeout,
			IsFailure:   isTransportFailure,
		}),
	}
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.NewNop()
	}
	return c, nil
}

// isTransportFailure counts only outages against the breaker: transport
// errors and 5xx answers. Client errors are the caller's problem.
func isTransportFailure(err error) bool {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return true
	}
	if appErr.Code != errors.ErrRequestFailed {
		return false
	}
	return appErr.Status == 0 || appErr.Status >= http.StatusInternalServerError
}

// do performs one JSON round trip. out may be nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.RequestFailed(0, "", err)
		}
	}

	start := time.Now()
	status := 0
	err := c.breaker.Execute(func() error {
		var err error
		status, err = c.roundTrip(ctx, method, path, query, in, out)
		return err
	})
	c.metrics.APILatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if stderrors.Is(err, circuitbreaker.ErrOpen) {
		c.metrics.APIRejected.Inc()
		c.metrics.APIRequests.WithLabelValues(op, "rejected").Inc()
		return errors.RequestFailed(0, "", err)
	}
	c.metrics.APIRequests.WithLabelValues(op, statusLabel(status, err)).Inc()

	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Int("status", status).Msg("api call failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, in, out interface{}) (int, error) {
	// path arrives escaped; u.Path must hold it decoded.
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	decoded, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return 0, errors.RequestFailed(0, "", err)
	}
	u.Path = decoded
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return 0, errors.RequestFailed(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return 0, errors.Unauthenticated(err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.RequestFailed(0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.RequestFailed(resp.StatusCode, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, errors.RequestFailed(resp.StatusCode, serverMessage(data),
			fmt.Errorf("%s %s: %s", method, path, resp.Status))
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, errors.RequestFailed(resp.StatusCode, "", fmt.Errorf("failed to decode response: %w", err))
		}
	}
	return resp.StatusCode, nil
}

// serverMessage extracts the message field of an error body. Some backends
// send error instead.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func statusLabel(status int, err error) string {
	if status == 0 {
		if err != nil {
			return "error"
		}
		return "ok"
	}
	return strconv.Itoa(status)
}
