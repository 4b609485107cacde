// Package client is the HTTP side of the marketplace SDK: one configured
// client with bearer-token injection, quiet classification of expected
// failures, and transparent access-token refresh. Under concurrent 401s
// exactly one refresh call is issued; every other failing request queues
// behind it and is replayed with the refreshed token.
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

	"github.com/keciramounir97/souk-boudouaou/pkg/apiurl"
	"github.com/keciramounir97/souk-boudouaou/pkg/kvstore"
	"github.com/rs/zerolog"
)

// Storage keys for persisted session state.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

const refreshPath = "/auth/refresh"

// Doer abstracts the underlying HTTP transport for tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Path       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d on %s: %s", e.StatusCode, e.Path, e.Message)
	}
	return fmt.Sprintf("api error %d on %s", e.StatusCode, e.Path)
}

// Options configures a Client.
type Options struct {
	// BaseURL is canonicalized through apiurl.EnsureAPIBaseURL.
	BaseURL string
	// Store holds tokens and client-side state. Required.
	Store kvstore.Store
	// HTTPClient overrides the transport; defaults to http.DefaultClient.
	HTTPClient Doer
	// Development switches the path normalizer to strict mode and enables
	// debug logging of unexpected errors.
	Development bool
	Logger      zerolog.Logger
}

// Client is the shared request pipeline for the data access layer.
type Client struct {
	baseURL string
	store   kvstore.Store
	http    Doer
	dev     bool
	log     zerolog.Logger

	refreshMu  sync.Mutex
	refreshing bool
	waiters    []chan error
}

// New creates a Client. The refresh call reuses the same transport but goes
// through a direct path that never re-enters the 401 handler.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("client: store is required")
	}
	doer := opts.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: apiurl.EnsureAPIBaseURL(opts.BaseURL),
		store:   opts.Store,
		http:    doer,
		dev:     opts.Development,
		log:     opts.Logger.With().Str("component", "client").Logger(),
	}, nil
}

// Store exposes the underlying state store for the data access layer.
func (c *Client) Store() kvstore.Store {
	return c.store
}

// Token returns the persisted access token, if any.
func (c *Client) Token() string {
	token, _ := c.store.Get(KeyToken)
	return token
}

// SetSession persists a full token pair plus the serialized user record.
func (c *Client) SetSession(token, refreshToken, userJSON string) error {
	if err := c.store.Set(KeyToken, token); err != nil {
		return err
	}
	if err := c.store.Set(KeyRefreshToken, refreshToken); err != nil {
		return err
	}
	if userJSON != "" {
		return c.store.Set(KeyUser, userJSON)
	}
	return nil
}

// ClearSession drops all persisted session state.
func (c *Client) ClearSession() {
	_ = c.store.Delete(KeyToken)
	_ = c.store.Delete(KeyRefreshToken)
	_ = c.store.Delete(KeyUser)
}

// Get issues a GET request and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do runs one request through the full pipeline. The body is marshaled once
// so the request can be replayed after a token refresh.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}
	return c.do(ctx, method, path, payload, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out interface{}, retried bool) error {
	normalized, err := apiurl.NormalizeEndpointPath(path, c.dev)
	if err != nil {
		return err
	}

	status, respBody, err := c.send(ctx, method, normalized, payload, true)
	if err != nil {
		// Transport/connection errors are surfaced but never logged.
		return err
	}

	if status == http.StatusUnauthorized && !retried && normalized != refreshPath {
		origErr := c.apiError(status, normalized, respBody)
		return c.retryAfterRefresh(ctx, method, path, payload, out, origErr)
	}

	if status >= 400 {
		apiErr := c.apiError(status, normalized, respBody)
		c.logAPIError(method, normalized, apiErr)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", normalized, err)
		}
	}
	return nil
}

// send performs one HTTP round trip. withAuth controls bearer injection.
func (c *Client) send(ctx context.Context, method, normalized string, payload []byte, withAuth bool) (int, []byte, error) {
	url := normalized
	if !strings.HasPrefix(strings.ToLower(normalized), "http") {
		url = c.baseURL + normalized
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s %s: %w", method, normalized, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response from %s: %w", normalized, err)
	}
	return resp.StatusCode, respBody, nil
}

// retryAfterRefresh implements the single-flight refresh protocol. The first
// 401 to arrive performs the refresh; concurrent 401s queue and wait for its
// outcome. On refresh failure every queued caller (and the trigger) is
// rejected with the trigger's original error, not a refresh error. Kept
// deliberately for parity with existing consumers.
func (c *Client) retryAfterRefresh(ctx context.Context, method, path string, payload []byte, out interface{}, origErr error) error {
	c.refreshMu.Lock()
	if c.refreshing {
		wait := make(chan error, 1)
		c.waiters = append(c.waiters, wait)
		c.refreshMu.Unlock()

		if err := <-wait; err != nil {
			return err
		}
		return c.do(ctx, method, path, payload, out, true)
	}
	c.refreshing = true
	c.refreshMu.Unlock()

	refreshErr := c.refresh(ctx)

	c.refreshMu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.refreshMu.Unlock()

	for _, wait := range waiters {
		if refreshErr != nil {
			wait <- origErr
		} else {
			wait <- nil
		}
	}

	if refreshErr != nil {
		return origErr
	}
	return c.do(ctx, method, path, payload, out, true)
}

// refresh exchanges the stored refresh token for a new pair. It bypasses the
// 401 handler entirely, so a failing refresh can never recurse.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken, _ := c.store.Get(KeyRefreshToken)
	if refreshToken == "" {
		return fmt.Errorf("no refresh token")
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return err
	}

	status, respBody, err := c.send(ctx, http.MethodPost, refreshPath, payload, false)
	if err != nil {
		return err
	}
	if status >= 400 {
		return c.apiError(status, refreshPath, respBody)
	}

	var envelope struct {
		Data struct {
			Token        string          `json:"token"`
			RefreshToken string          `json:"refreshToken"`
			User         json.RawMessage `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if envelope.Data.Token == "" {
		return fmt.Errorf("refresh response missing token")
	}

	if err := c.store.Set(KeyToken, envelope.Data.Token); err != nil {
		return err
	}
	if envelope.Data.RefreshToken != "" {
		if err := c.store.Set(KeyRefreshToken, envelope.Data.RefreshToken); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) apiError(status int, path string, body []byte) *APIError {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)
	return &APIError{StatusCode: status, Message: envelope.Message, Path: path}
}

// logAPIError drops expected negatives and only speaks up in development:
// 404s from unconfigured site settings and 400s from bad login credentials
// are part of normal operation.
func (c *Client) logAPIError(method, path string, apiErr *APIError) {
	if !c.dev {
		return
	}
	if apiErr.StatusCode == http.StatusNotFound && strings.Contains(path, "/site/") {
		return
	}
	if apiErr.StatusCode == http.StatusBadRequest && path == "/auth/login" {
		return
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", apiErr.StatusCode).
		Str("message", apiErr.Message).
		Msg("API request failed")
}
