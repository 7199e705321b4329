// Package collect talks to the vendor's data-collection host: remote CSV
// validation and the bulk insertion endpoint itself.
package collect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/loglift/internal/adobe/httpclient"
)

const (
	validatePath = "/aa/collect/v1/events/validate"
	insertPath   = "/aa/collect/v1/events"
)

// IngestionResult is the vendor's acknowledgment of a bulk submission,
// passed through unchanged. Ingestion itself completes asynchronously on
// the vendor side (up to 24h for historic data); this tool does not poll.
type IngestionResult map[string]any

// RemoteValidationError is returned when the validation endpoint accepts
// the request but rejects the file content.
type RemoteValidationError struct {
	Detail string
}

func (e *RemoteValidationError) Error() string {
	return fmt.Sprintf("collect: csv rejected by validation endpoint: %s", e.Detail)
}

// Client submits gzipped CSV files to the collection host.
type Client struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for submission results.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a collection client. The http client must carry the
// x-adobe-vgid visitor group header.
func New(hc *httpclient.Client, opts ...Option) *Client {
	c := &Client{
		http:   hc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type validateResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// ValidateCSV submits the CSV at path to the remote validation endpoint.
// The file is gzipped on the way out, exactly like a real submission.
func (c *Client) ValidateCSV(ctx context.Context, path string) error {
	var resp validateResponse
	if err := c.http.PostGzipFile(ctx, validatePath, path, &resp); err != nil {
		return fmt.Errorf("collect: validate csv: %w", err)
	}
	if !resp.Success {
		detail := resp.Detail
		if detail == "" {
			detail = resp.Error
		}
		if detail == "" {
			detail = "no detail provided"
		}
		return &RemoteValidationError{Detail: detail}
	}
	c.logger.Info("remote csv validation passed", "file", path)
	return nil
}

// BulkInsert submits the CSV at path to the insertion endpoint and returns
// the vendor's acknowledgment unchanged. The submission is atomic on the
// vendor side; on failure nothing is retried or rolled back here.
func (c *Client) BulkInsert(ctx context.Context, path string) (IngestionResult, error) {
	var result IngestionResult
	if err := c.http.PostGzipFile(ctx, insertPath, path, &result); err != nil {
		return nil, fmt.Errorf("collect: bulk insert: %w", err)
	}
	c.logger.Info("bulk insertion accepted", "file", path)
	return result, nil
}
