// Package report asks the vendor's reporting API whether a report suite
// already holds data for a date range. Ingested data cannot practically be
// deleted, so this check gates every upload.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/loglift/internal/adobe/httpclient"
)

// Tolerance for stray hits: the reporting API occasionally attributes one
// or two occurrences just outside the requested range.
const strayHitTolerance = 2

// ExistingDataError blocks an upload whose date range already has data in
// the target report suite.
type ExistingDataError struct {
	RSID  string
	Start string
	End   string
	Total float64
}

func (e *ExistingDataError) Error() string {
	return fmt.Sprintf("report: %s already has data for %s..%s (%.0f occurrences); upload blocked",
		e.RSID, e.Start, e.End, e.Total)
}

// Client queries ranked reports for one company.
type Client struct {
	http      *httpclient.Client
	companyID string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for check results.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a reporting client on top of the shared API http client.
// The http client must carry the x-proxy-global-company-id header.
func New(hc *httpclient.Client, companyID string, opts ...Option) *Client {
	c := &Client{
		http:      hc,
		companyID: companyID,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request/response shapes for the ranked-report query. Only the pieces the
// occurrences total needs.

type reportRequest struct {
	RSID            string          `json:"rsid"`
	GlobalFilters   []globalFilter  `json:"globalFilters"`
	MetricContainer metricContainer `json:"metricContainer"`
	Settings        map[string]any  `json:"settings"`
}

type globalFilter struct {
	Type      string `json:"type"`
	DateRange string `json:"dateRange"`
}

type metricContainer struct {
	Metrics       []metric       `json:"metrics"`
	MetricFilters []metricFilter `json:"metricFilters"`
}

type metric struct {
	ColumnID string   `json:"columnId"`
	ID       string   `json:"id"`
	Filters  []string `json:"filters"`
}

type metricFilter struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	SegmentID string `json:"segmentId"`
}

type reportResponse struct {
	SummaryData *struct {
		Totals []float64 `json:"totals"`
	} `json:"summaryData"`
}

// ExistingDataForRange reports whether the report suite holds significant
// data inside the inclusive [startDate, endDate] day range (YYYY-MM-DD).
// Read-only against the vendor system.
func (c *Client) ExistingDataForRange(ctx context.Context, rsid, startDate, endDate string) (bool, error) {
	total, err := c.occurrences(ctx, rsid, startDate, endDate)
	if err != nil {
		return false, err
	}
	return total > strayHitTolerance, nil
}

// occurrences runs the ranked-report query and returns the occurrences
// total for the range.
func (c *Client) occurrences(ctx context.Context, rsid, startDate, endDate string) (float64, error) {
	span, err := inclusiveSpan(startDate, endDate)
	if err != nil {
		return 0, err
	}

	req := reportRequest{
		RSID: rsid,
		GlobalFilters: []globalFilter{
			{Type: "dateRange", DateRange: span},
		},
		MetricContainer: metricContainer{
			Metrics: []metric{
				{
					ColumnID: "metrics/occurrences:::0",
					ID:       "metrics/occurrences",
					Filters:  []string{"STATIC_ROW_COMPONENT_1"},
				},
			},
			MetricFilters: []metricFilter{
				{ID: "STATIC_ROW_COMPONENT_1", Type: "segment", SegmentID: "All_Visits"},
			},
		},
		Settings: map[string]any{
			"countRepeatInstances": true,
			"includeAnnotations":   true,
			"dimensionSort":        "asc",
		},
	}

	var resp reportResponse
	path := "/api/" + c.companyID + "/reports"
	if err := c.http.PostJSON(ctx, path, req, &resp); err != nil {
		return 0, fmt.Errorf("report: query occurrences: %w", err)
	}
	if resp.SummaryData == nil {
		return 0, fmt.Errorf("report: response has no summaryData")
	}
	if len(resp.SummaryData.Totals) == 0 {
		return 0, fmt.Errorf("report: summaryData has no totals")
	}

	total := resp.SummaryData.Totals[0]
	c.logger.Info("existing-data check", "rsid", rsid, "range", span, "occurrences", total)
	return total, nil
}

// EnsureNoExistingData converts a positive existing-data result into an
// *ExistingDataError that blocks the upload.
func (c *Client) EnsureNoExistingData(ctx context.Context, rsid, startDate, endDate string) error {
	total, err := c.occurrences(ctx, rsid, startDate, endDate)
	if err != nil {
		return err
	}
	if total > strayHitTolerance {
		return &ExistingDataError{RSID: rsid, Start: startDate, End: endDate, Total: total}
	}
	return nil
}

// inclusiveSpan renders [startDate, endDate] as the reporting API's
// dateRange syntax, with the end extended to the last second of its day.
func inclusiveSpan(startDate, endDate string) (string, error) {
	const dateLayout = "2006-01-02"
	const tsLayout = "2006-01-02T15:04:05"

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("report: bad start date %q", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return "", fmt.Errorf("report: bad end date %q", endDate)
	}
	endOfDay := end.AddDate(0, 0, 1).Add(-time.Second)
	return start.Format(tsLayout) + "/" + endOfDay.Format(tsLayout), nil
}
