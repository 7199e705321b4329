// Package httpclient is the shared HTTP layer for the vendor's REST
// endpoints: bearer auth, the x-api-key header, JSON decoding, and a small
// retry budget for transient failures.
package httpclient

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client is an HTTP client bound to one API host.
type Client struct {
	baseURL    string
	token      string
	apiKey     string
	headers    map[string]string
	maxRetries int
	httpClient *http.Client
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string // internal: Retry-After header value for 429s
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAPIKey sets the x-api-key header sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHeader adds a static header sent with every request
// (e.g. x-proxy-global-company-id for the reporting API).
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithMaxRetries sets how many times a transient failure (429, 5xx, or a
// transport error) is retried before the error propagates. Default: 1.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// New creates a Client for the given base URL. token may be empty for
// unauthenticated endpoints (the token exchange itself).
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		headers:    make(map[string]string),
		maxRetries: 1,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON sends a GET request and unmarshals the JSON response into dest.
// Returns *APIError for non-2xx responses. Retries transient failures up to
// the configured budget.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	return c.doRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, path, query, "", nil)
	}, dest)
}

// PostForm sends an application/x-www-form-urlencoded POST and unmarshals
// the JSON response into dest. Used for the token exchange, which is safe
// to retry.
func (c *Client) PostForm(ctx context.Context, path string, query, form url.Values, dest any) error {
	encoded := form.Encode()
	return c.doRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, path, query,
			"application/x-www-form-urlencoded", strings.NewReader(encoded))
	}, dest)
}

// PostJSON sends a JSON-encoded POST and unmarshals the JSON response into
// dest. Callers must only use this for read-only queries; the retry budget
// applies.
func (c *Client) PostJSON(ctx context.Context, path string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("httpclient: marshal payload: %w", err)
	}
	return c.doRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, path, nil,
			"application/json", bytes.NewReader(body))
	}, dest)
}

// PostGzipFile gzips the file at filePath and uploads it as a multipart form
// field named "file". Never retried: the receiving endpoints ingest data and
// a duplicate submission cannot be rolled back.
func (c *Client) PostGzipFile(ctx context.Context, path, filePath string, dest any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(filePath)+".gz")
	if err != nil {
		return fmt.Errorf("httpclient: multipart: %w", err)
	}
	if err := gzipFileInto(part, filePath); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, mw.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	return c.doOnce(req, dest)
}

// gzipFileInto streams the file's gzipped content into w.
func gzipFileInto(w io.Writer, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("httpclient: open %s: %w", filePath, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(w)
	if _, err := io.Copy(gz, f); err != nil {
		return fmt.Errorf("httpclient: gzip %s: %w", filePath, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("httpclient: gzip %s: %w", filePath, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// doRetry executes the request, retrying 429 (honoring Retry-After), 5xx,
// and transport errors with exponential backoff (1s, 2s, 4s, ...).
func (c *Client) doRetry(ctx context.Context, makeReq func() (*http.Request, error), dest any) error {
	var lastAPIErr *APIError
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt, lastAPIErr)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := makeReq()
		if err != nil {
			return err
		}

		err = c.doOnce(req, dest)
		if err == nil {
			return nil
		}

		if apiErr, ok := err.(*APIError); ok {
			if apiErr.StatusCode == 429 || apiErr.StatusCode >= 500 {
				lastAPIErr = apiErr
				lastErr = apiErr
				continue
			}
			return apiErr
		}
		if ctx.Err() != nil {
			return err
		}
		// Transport error: treated as transient.
		lastAPIErr = nil
		lastErr = err
	}

	return lastErr
}

// doOnce executes a single request with no retry.
func (c *Client) doOnce(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if dest == nil || len(body) == 0 {
			return nil
		}
		return json.Unmarshal(body, dest)
	}

	bodyStr := string(body)
	if len(bodyStr) > 512 {
		bodyStr = bodyStr[:512]
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
	if resp.StatusCode == 429 {
		apiErr.retryAfter = resp.Header.Get("Retry-After")
	}
	return apiErr
}

// backoffDelay returns the wait duration before a retry attempt.
func backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == 429 && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(1<<(attempt-1)) * time.Second
}
