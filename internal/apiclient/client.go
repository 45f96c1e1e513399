// Package apiclient is the typed HTTP client for the EduDesk server API.
// The base URL is mutable at runtime: a user may repoint the agent at a
// different server while offline, and queued mutations replay against
// whatever base URL is current at drain time.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/edudesk/edudesk/internal/domain"
)

// StatusError is returned for any non-2xx response. It carries the HTTP
// status so callers can apply the drop policy (404 on DELETE, 409).
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %s", e.Status)
}

// StatusCode returns the HTTP status code of the failed request.
func (e *StatusError) StatusCode() int { return e.Code }

// Client talks to the EduDesk server API.
type Client struct {
	mu      sync.RWMutex
	baseURL string

	apiKey     string
	httpClient *http.Client
}

// New creates a client for the given base URL (scheme + host, no path).
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// BaseURL returns the currently configured base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL repoints the client at a different server. Queued entries
// are unaffected; they resolve against the new base on the next drain.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()
	slog.Info(LogMsgBaseURLChanged, "base_url", baseURL)
}

// FullState fetches all collections plus config in one response. The
// result may be marked optimized (avatars stripped) or empty.
func (c *Client) FullState(ctx context.Context) (domain.FullState, error) {
	var state domain.FullState
	err := c.do(ctx, http.MethodGet, PathFullState, nil, &state)
	return state, err
}

// StudentAvatars fetches the avatar images stripped from an optimized
// full-state response, keyed by student id.
func (c *Client) StudentAvatars(ctx context.Context) (map[string]string, error) {
	var avatars map[string]string
	err := c.do(ctx, http.MethodGet, PathAvatars, nil, &avatars)
	return avatars, err
}

// UpsertRecord saves one record into its collection.
func (c *Client) UpsertRecord(ctx context.Context, collection domain.Collection, record domain.Record) error {
	return c.do(ctx, http.MethodPost, "/"+string(collection), record, nil)
}

// DeleteRecord removes one record from its collection by id.
func (c *Client) DeleteRecord(ctx context.Context, collection domain.Collection, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+string(collection)+"/"+id, nil, nil)
}

// UpsertConfig saves the singleton school config.
func (c *Client) UpsertConfig(ctx context.Context, cfg domain.SchoolConfig) error {
	return c.do(ctx, http.MethodPost, PathConfig, cfg, nil)
}

// BulkSync uploads an entire exported snapshot (manual full migration).
func (c *Client) BulkSync(ctx context.Context, state domain.FullState) error {
	return c.do(ctx, http.MethodPost, PathBulkSync, state, nil)
}

// Send replays a queued entry. It satisfies the queue's Sender interface.
func (c *Client) Send(ctx context.Context, method, endpoint string, body json.RawMessage) error {
	var payload any
	if len(body) > 0 {
		payload = body
	}
	return c.do(ctx, method, endpoint, payload, nil)
}

// do issues one JSON request against baseURL + /api + endpoint. A non-2xx
// response yields a *StatusError; transport failures are returned as-is
// and read by callers as "offline".
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		switch b := body.(type) {
		case json.RawMessage:
			reqBody = bytes.NewReader(b)
		default:
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to encode request body: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}
	}

	url := c.BaseURL() + APIPrefix + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	if reqBody != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug(LogMsgRequestFailed, "method", method, "endpoint", endpoint, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
