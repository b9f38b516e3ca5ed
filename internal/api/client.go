// Package api is the HTTP transport for the /records REST resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/record"
)

// ResourcePath is the fixed collection path appended to the base URL.
const ResourcePath = "/records"

// ErrNoBaseURL is returned by New when no base URL is configured.
var ErrNoBaseURL = errors.New("records API base URL is not configured")

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client issues the list/create/update/delete requests against one base URL.
// It never retries and carries no timeout of its own; callers cancel through
// the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// New creates a Client for baseURL. A trailing slash is ignored.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every record.
func (c *Client) List(ctx context.Context) ([]record.Record, error) {
	var records []record.Record
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []record.Record{}
	}
	return records, nil
}

// Create posts a draft to the collection and returns the created record.
func (c *Client) Create(ctx context.Context, d record.Draft) (*record.Record, error) {
	var created record.Record
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), d, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update patches the record with the given id.
func (c *Client) Update(ctx context.Context, id int64, d record.Draft) (*record.Record, error) {
	var updated record.Record
	if err := c.do(ctx, http.MethodPatch, c.itemURL(id), d, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return c.baseURL + ResourcePath
}

func (c *Client) itemURL(id int64) string {
	return c.collectionURL() + "/" + strconv.FormatInt(id, 10)
}

// do sends one request. in is JSON-encoded when non-nil; out is decoded from
// the response body when non-nil and the body is not empty.
func (c *Client) do(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugw("Sending request", "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debugw("Received response", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, url, err)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, url, err)
	}
	return nil
}
