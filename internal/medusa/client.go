// Package medusa is a thin client for the commerce backend's store, auth and admin REST APIs.
package medusa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"trek-storefront/internal/logging"
)

const publishableKeyHeader = "x-publishable-api-key"

// Options configures a Client.
type Options struct {
	BaseURL        string
	PublishableKey string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Client talks to the backend. Store calls replay the backend session found in the
// request context (see ContextWithSession) and capture any cookie the backend sets.
type Client struct {
	baseURL        string
	publishableKey string
	http           *http.Client
	logger         *zap.Logger
}

// New builds a Client. A zero Timeout leaves the http.Client default.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		publishableKey: opts.PublishableKey,
		http:           hc,
		logger:         logging.OrNop(opts.Logger),
	}
}

// BaseURL returns the backend base URL the client points at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.publishableKey != "" {
		httpReq.Header.Set(publishableKeyHeader, c.publishableKey)
	}
	if req.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
	}
	if id := RequestIDFrom(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}
	sess := SessionFrom(ctx)
	if sess != nil {
		if h := sess.Header(); h != "" {
			httpReq.Header.Set("Cookie", h)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", req.method), zap.String("path", req.path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	if sess != nil {
		sess.Capture(resp.Cookies())
	}
	c.logger.Debug("backend request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// Health checks the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/health"}, nil)
}

type ctxKey string

const (
	sessionCtxKey   ctxKey = "medusa-session"
	requestIDCtxKey ctxKey = "request-id"
)

// ContextWithSession attaches the backend session used by store calls.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFrom returns the session attached to ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey).(*Session)
	return s
}

// ContextWithRequestID tags outgoing backend calls with id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestIDFrom returns the request id attached to ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}
