// Package client is the Go SDK for the JobBoard API. It mirrors the server's
// response envelope, keeps a process-wide query cache with a staleness
// window, and invalidates cached reads after successful mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const DefaultStaleness = 30 * time.Second

// APIError is any non-success reply decoded from the response envelope.
// Fields is populated when the server reported per-field validation
// failures.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for f, msg := range e.Fields {
			parts = append(parts, f+" "+msg)
		}
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// envelope is the fixed wire shape every endpoint replies with.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type queryKey struct {
	Resource string
	Params   string
}

// Client talks to one JobBoard deployment. Safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	token     string
	staleness time.Duration
	notifier  func(error)
	cache     *ttlcache.Cache[queryKey, json.RawMessage]
}

type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithStaleness sets how long cached query results are served without a
// refetch.
func WithStaleness(d time.Duration) Option {
	return func(c *Client) { c.staleness = d }
}

// WithNotifier registers a callback fired whenever a mutation fails. The
// cache is left untouched on failure, so the callback is the only signal.
func WithNotifier(fn func(error)) Option {
	return func(c *Client) { c.notifier = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      http.DefaultClient,
		staleness: DefaultStaleness,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Expiry is anchored to the fetch, not the last read: a hit must not
	// push the staleness window out
	c.cache = ttlcache.New[queryKey, json.RawMessage](
		ttlcache.WithTTL[queryKey, json.RawMessage](c.staleness),
		ttlcache.WithDisableTouchOnHit[queryKey, json.RawMessage](),
	)
	return c
}

// SetToken swaps the bearer token, e.g. after sign-in.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do performs one request and decodes the envelope. Any reply whose
// envelope carries an error becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}

	if resp.StatusCode >= 400 || len(env.Error) > 0 && string(env.Error) != "null" {
		return nil, decodeAPIError(resp.StatusCode, env)
	}
	return env.Data, nil
}

func decodeAPIError(httpStatus int, env envelope) *APIError {
	apiErr := &APIError{Status: env.Status, Message: env.Message}
	if apiErr.Status == 0 {
		apiErr.Status = httpStatus
	}
	if len(env.Error) == 0 {
		return apiErr
	}
	var fields map[string]string
	if err := json.Unmarshal(env.Error, &fields); err == nil {
		apiErr.Fields = fields
		return apiErr
	}
	var msg string
	if err := json.Unmarshal(env.Error, &msg); err == nil && msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

// query serves a cached read when the entry is still inside the staleness
// window, and refetches otherwise.
func (c *Client) query(ctx context.Context, key queryKey, path string) (json.RawMessage, error) {
	if item := c.cache.Get(key); item != nil {
		return item.Value(), nil
	}
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, data, ttlcache.DefaultTTL)
	return data, nil
}

// Invalidate drops every cached query belonging to the resource family.
func (c *Client) Invalidate(resource string) {
	for _, key := range c.cache.Keys() {
		if key.Resource == resource {
			c.cache.Delete(key)
		}
	}
}

// mutate runs a write and invalidates the resource family only when it
// succeeds. Failed mutations leave cached state intact and fire the
// notifier.
func (c *Client) mutate(ctx context.Context, method, path, resource string, body interface{}) (json.RawMessage, error) {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		if c.notifier != nil {
			c.notifier(err)
		}
		return nil, err
	}
	c.Invalidate(resource)
	return data, nil
}
