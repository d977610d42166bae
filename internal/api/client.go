// Package api is the single outbound HTTP path to the marketplace backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/bazaar-client/internal/tokenstore"
	"github.com/prohmpiriya/bazaar-client/pkg/logger"
	"github.com/prohmpiriya/bazaar-client/pkg/retry"
	"github.com/prohmpiriya/bazaar-client/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	maxBodyBytes    = 10 << 20
)

// UnauthorizedHook runs after a 401 response has cleared the token store
type UnauthorizedHook func(ctx context.Context)

// Config contains API client configuration
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RetryMax      int // GET only, network failures only
	RetryInterval time.Duration
	UserAgent     string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client attaches the bearer token to every request and normalizes failures
// into *Error
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	store      tokenstore.Store
	retrier    *retry.Retrier
	retryMax   int
	log        *logger.Logger

	mu    sync.RWMutex
	hooks []UnauthorizedHook
}

// New creates a Client reading tokens from store
func New(cfg Config, store tokenstore.Store, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if store == nil {
		return nil, errors.New("token store is required")
	}

	c := &Client{
		baseURL:    base,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		store:      store,
		retryMax:   cfg.RetryMax,
		log:        logger.NewNop(),
	}
	if c.userAgent == "" {
		c.userAgent = "bazaar-client"
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	c.log = c.log.Named("api")

	if cfg.RetryMax > 0 {
		c.retrier = retry.New(&retry.Config{
			MaxRetries:      cfg.RetryMax,
			InitialInterval: cfg.RetryInterval,
			ShouldRetry:     IsNetworkError,
		})
	}
	return c, nil
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnUnauthorized registers a hook fired after every 401
func (c *Client) OnUnauthorized(h UnauthorizedHook) {
	c.mu.Lock()
	c.hooks = append(c.hooks, h)
	c.mu.Unlock()
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, query, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, nil, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, nil, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, nil, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request. body is JSON-encoded when non-nil, out is decoded
// from a 2xx response when non-nil. Every returned error is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	target, err := c.resolve(path, query)
	if err != nil {
		return requestError(method, path, err)
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return requestError(method, path, fmt.Errorf("encode request body: %w", err))
		}
	}

	call := func(ctx context.Context) error {
		return c.send(ctx, method, path, target, payload, out)
	}

	if c.retrier == nil || method != http.MethodGet {
		err = call(ctx)
	} else {
		result := c.retrier.DoWithCallback(ctx, call, func(attempt int, err error, next time.Duration) {
			c.log.Warn("retrying request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", next),
				zap.Error(err),
			)
		})
		err = result.Err
	}

	if IsUnauthorized(err) {
		c.handleUnauthorized(ctx)
	}
	return err
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("build request url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) send(ctx context.Context, method, path, target string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return requestError(method, path, fmt.Errorf("build request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)
	if token, ok := c.store.Get(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	spanCtx, span := telemetry.StartClientSpan(ctx, req)
	defer span.End()
	span.SetAttributes(attribute.String("http.request_id", requestID))
	req = req.WithContext(spanCtx)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.RecordError(span, err)
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return networkError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		telemetry.RecordError(span, err)
		return networkError(method, path, fmt.Errorf("read response body: %w", err))
	}

	telemetry.EndClientSpan(span, resp.StatusCode)
	c.log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := serverError(method, path, resp.StatusCode, respBody)
		telemetry.RecordError(span, apiErr)
		return apiErr
	}

	if err := decode(respBody, out); err != nil {
		telemetry.RecordError(span, err)
		return requestError(method, path, err)
	}
	return nil
}

// decode fills out from a 2xx body. A *string target takes a plain text body
// as-is.
func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		if err := json.Unmarshal(body, s); err != nil {
			*s = string(body)
		}
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn("clear token after 401", zap.Error(err))
	}

	c.mu.RLock()
	hooks := make([]UnauthorizedHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.RUnlock()

	for _, h := range hooks {
		h(ctx)
	}
}
