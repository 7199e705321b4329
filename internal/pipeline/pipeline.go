// Package pipeline runs a complete backfill: authenticate, fetch audit
// logs, enrich them, export the bulk-import CSV, validate it, and
// optionally upload it after confirming the target range is empty.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/crimson-sun/loglift/internal/adobe/collect"
	"github.com/crimson-sun/loglift/internal/adobe/httpclient"
	"github.com/crimson-sun/loglift/internal/adobe/ims"
	"github.com/crimson-sun/loglift/internal/adobe/report"
	"github.com/crimson-sun/loglift/internal/adobe/usage"
	"github.com/crimson-sun/loglift/internal/config"
	"github.com/crimson-sun/loglift/internal/enrich"
	"github.com/crimson-sun/loglift/internal/export"
	"github.com/crimson-sun/loglift/internal/logging"
	"github.com/crimson-sun/loglift/internal/model"
)

// Options control one backfill run.
type Options struct {
	Start string // inclusive, YYYY-MM-DD
	End   string // inclusive, YYYY-MM-DD
	RSID  string // target report suite id for the exported rows

	Filters usage.Filters

	OutCSV  string // bulk-import CSV path (required)
	OutJSON string // optional raw enriched-entries dump

	// Upload submits the CSV to the collection host after remote
	// validation and the existing-data check. Off by default: ingested
	// rows cannot practically be deleted.
	Upload bool
}

func (o Options) validate() error {
	if o.Start == "" || o.End == "" {
		return fmt.Errorf("pipeline: start and end dates are required")
	}
	if o.RSID == "" {
		return fmt.Errorf("pipeline: report suite id is required")
	}
	if o.OutCSV == "" {
		return fmt.Errorf("pipeline: output csv path is required")
	}
	return nil
}

// Result is what a run produced.
type Result struct {
	RunID   string
	Entries []model.LogEntry
	CSVPath string

	// Ingestion is the collection host's acknowledgment. Nil unless an
	// upload actually happened.
	Ingestion collect.IngestionResult
}

// Run executes a backfill with the given credentials and options.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := logging.ForRun(runID)
	logger.Info("starting backfill run",
		"start", opts.Start, "end", opts.End, "rsid", opts.RSID, "upload", opts.Upload)

	token, err := ims.New(cfg).Token(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := fetchAndEnrich(ctx, cfg, token, logger, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, Entries: entries, CSVPath: opts.OutCSV}

	if opts.OutJSON != "" {
		if err := export.WriteJSON(opts.OutJSON, entries); err != nil {
			return nil, err
		}
		logger.Info("wrote raw entries", "path", opts.OutJSON)
	}

	rows, err := export.ToRows(entries, opts.RSID)
	if err != nil {
		return nil, err
	}
	if err := export.WriteFile(opts.OutCSV, rows); err != nil {
		return nil, err
	}
	if err := export.ValidateFile(opts.OutCSV); err != nil {
		return nil, err
	}
	logger.Info("wrote bulk-import csv", "path", opts.OutCSV, "rows", len(rows))

	if !opts.Upload {
		logger.Info("dry run, skipping upload")
		return result, nil
	}
	if len(rows) == 0 {
		logger.Warn("no rows to upload, skipping")
		return result, nil
	}

	ack, err := uploadRows(ctx, cfg, token, logger, opts, rows)
	if err != nil {
		return nil, err
	}
	result.Ingestion = ack
	return result, nil
}

// Fetch authenticates, downloads the audit logs, and runs the enrichment
// passes without exporting or uploading anything.
func Fetch(ctx context.Context, cfg *config.Config, start, end string, f usage.Filters) ([]model.LogEntry, error) {
	token, err := ims.New(cfg).Token(ctx)
	if err != nil {
		return nil, err
	}
	return fetchAndEnrich(ctx, cfg, token, slog.Default(), Options{Start: start, End: end, Filters: f})
}

// fetchAndEnrich downloads the audit logs and runs all enrichment passes.
func fetchAndEnrich(ctx context.Context, cfg *config.Config, token string, logger *slog.Logger, opts Options) ([]model.LogEntry, error) {
	apiHTTP := httpclient.New(cfg.APIURL, token,
		httpclient.WithTimeout(cfg.Timeout()),
		httpclient.WithAPIKey(cfg.ClientID),
		httpclient.WithMaxRetries(cfg.MaxRetries))

	usageClient := usage.New(apiHTTP, cfg.CompanyID,
		usage.WithPageLimit(cfg.PageLimit),
		usage.WithLogger(logger))

	entries, err := usageClient.Fetch(ctx, opts.Start, opts.End, opts.Filters)
	if err != nil {
		return nil, err
	}
	return enrich.Apply(entries), nil
}

// uploadRows gates the upload behind remote validation and the
// existing-data check, then submits the CSV.
func uploadRows(ctx context.Context, cfg *config.Config, token string, logger *slog.Logger, opts Options, rows []export.Row) (collect.IngestionResult, error) {
	collectHTTP := httpclient.New(cfg.CollectionURL, token,
		httpclient.WithTimeout(cfg.Timeout()),
		httpclient.WithAPIKey(cfg.ClientID),
		httpclient.WithHeader("x-adobe-vgid", cfg.VisitorGroupID))
	collector := collect.New(collectHTTP, collect.WithLogger(logger))

	if err := collector.ValidateCSV(ctx, opts.OutCSV); err != nil {
		return nil, err
	}

	rsid, minDate, maxDate, err := export.DateSpan(rows)
	if err != nil {
		return nil, err
	}

	reportHTTP := httpclient.New(cfg.APIURL, token,
		httpclient.WithTimeout(cfg.Timeout()),
		httpclient.WithAPIKey(cfg.ClientID),
		httpclient.WithMaxRetries(cfg.MaxRetries),
		httpclient.WithHeader("x-proxy-global-company-id", cfg.CompanyID))
	checker := report.New(reportHTTP, cfg.CompanyID, report.WithLogger(logger))

	if err := checker.EnsureNoExistingData(ctx, rsid, minDate, maxDate); err != nil {
		return nil, err
	}

	ack, err := collector.BulkInsert(ctx, opts.OutCSV)
	if err != nil {
		return nil, err
	}
	logger.Info("upload accepted", "rows", len(rows), "ack", ack)
	return ack, nil
}
