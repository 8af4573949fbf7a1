// Package client is the typed HTTP client of the inspection store. Queries
// are served from an injected Cache; every successful mutation invalidates
// the affected keys before it returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FetchError reports a failed REST call. StatusCode is 0 when the request
// never produced a response.
type FetchError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to the inspection store REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	token      string
	logger     *zap.Logger

	// invalMu orders cache writes of queries against invalidations of
	// mutations. invalidated holds the epoch of the last invalidation per
	// prefix.
	invalMu     sync.Mutex
	epoch       uint64
	invalidated map[string]invalidation
}

type invalidation struct {
	prefix Key
	epoch  uint64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache replaces the default MemoryCache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),

		invalidated: make(map[string]invalidation),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	return c
}

// Cache returns the cache the client reads through.
func (c *Client) Cache() Cache {
	return c.cache
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// send performs one request and returns the raw response for a 2xx status.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &FetchError{Method: method, Path: path, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &FetchError{Method: method, Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &FetchError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		fe := &FetchError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var env envelope
		if raw, err := io.ReadAll(resp.Body); err == nil && json.Unmarshal(raw, &env) == nil {
			fe.Message = env.Message
		}
		c.logger.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", fe.Message))
		return nil, fe
	}
	return resp, nil
}

// do sends a JSON request and returns the envelope's data payload; it is
// nil for 204 responses.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &FetchError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return env.Data, nil
}

// query serves GET path from the cache under key, fetching and storing it
// on a miss. Cache failures are logged and fall through to the network. A
// response is not stored when key was invalidated while it was in flight.
func (c *Client) query(ctx context.Context, key Key, path string, out interface{}) error {
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", zap.Stringer("key", key), zap.Error(err))
	} else if ok {
		return json.Unmarshal(data, out)
	}

	started := c.currentEpoch()
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &FetchError{Method: http.MethodGet, Path: path, StatusCode: http.StatusOK, Err: fmt.Errorf("decode data: %w", err)}
	}

	c.invalMu.Lock()
	defer c.invalMu.Unlock()
	if c.invalidatedSince(key, started) {
		c.logger.Debug("dropping response invalidated in flight", zap.Stringer("key", key))
		return nil
	}
	if err := c.cache.Set(ctx, key, data); err != nil {
		c.logger.Warn("cache write failed", zap.Stringer("key", key), zap.Error(err))
	}
	return nil
}

// mutate runs a write and then invalidates keys. Invalidation only happens
// after the server confirmed the write.
func (c *Client) mutate(ctx context.Context, method, path string, body, out interface{}, keys ...Key) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := c.invalidate(ctx, keys...); err != nil {
		return err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &FetchError{Method: method, Path: path, StatusCode: http.StatusOK, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func (c *Client) currentEpoch() uint64 {
	c.invalMu.Lock()
	defer c.invalMu.Unlock()
	return c.epoch
}

// invalidate bumps the epoch of every prefix and drops it from the cache.
func (c *Client) invalidate(ctx context.Context, prefixes ...Key) error {
	c.invalMu.Lock()
	defer c.invalMu.Unlock()
	c.epoch++
	for _, prefix := range prefixes {
		c.invalidated[memoryKey(prefix)] = invalidation{prefix: append(Key(nil), prefix...), epoch: c.epoch}
	}
	for _, prefix := range prefixes {
		if err := c.cache.Invalidate(ctx, prefix); err != nil {
			return fmt.Errorf("invalidate %s: %w", prefix, err)
		}
	}
	return nil
}

// invalidatedSince reports whether a prefix of key was invalidated after
// epoch. Callers hold invalMu.
func (c *Client) invalidatedSince(key Key, epoch uint64) bool {
	for _, inv := range c.invalidated {
		if inv.epoch > epoch && key.HasPrefix(inv.prefix) {
			return true
		}
	}
	return false
}

type listData[T any] struct {
	Items []T `json:"items"`
}
