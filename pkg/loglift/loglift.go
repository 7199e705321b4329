package loglift

import (
	"context"
	"fmt"

	"github.com/crimson-sun/loglift/internal/adobe/usage"
	"github.com/crimson-sun/loglift/internal/config"
	"github.com/crimson-sun/loglift/internal/pipeline"
)

// Client runs backfills against one company's analytics account.
// Safe for concurrent use.
type Client struct {
	cfg *config.Config
}

// New creates a Client from a credential file, environment variables, and
// any explicit option overrides. Returns an error listing every missing
// credential field.
func New(opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return nil, fmt.Errorf("loglift: %w", err)
	}
	return &Client{cfg: cfg}, nil
}

// loadConfig builds the internal config, applying option overrides on top
// of the file and environment values before validating.
func loadConfig(o options) (*config.Config, error) {
	cfg, err := config.LoadUnvalidated(o.configFile)
	if err != nil {
		return nil, err
	}

	if o.clientID != "" {
		cfg.ClientID = o.clientID
	}
	if o.clientSecret != "" {
		cfg.ClientSecret = o.clientSecret
	}
	if o.companyID != "" {
		cfg.CompanyID = o.companyID
	}
	if o.scopes != "" {
		cfg.Scopes = o.scopes
	}
	if o.tokenURL != "" {
		cfg.TokenURL = o.tokenURL
	}
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.collectionURL != "" {
		cfg.CollectionURL = o.collectionURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BackfillOptions control one backfill run.
type BackfillOptions struct {
	Start string // inclusive, YYYY-MM-DD
	End   string // inclusive, YYYY-MM-DD
	RSID  string // target report suite id

	Filters Filters

	OutCSV  string // bulk-import CSV path (required)
	OutJSON string // optional raw enriched-entries dump

	// Upload submits the CSV after remote validation and the
	// existing-data check. Off by default.
	Upload bool
}

// BackfillResult is what a run produced.
type BackfillResult struct {
	RunID   string
	Entries []Entry
	CSVPath string

	// Ingestion is the collection host's acknowledgment, nil unless an
	// upload happened.
	Ingestion map[string]any
}

// Backfill fetches, enriches, exports, and (optionally) uploads the usage
// audit logs for the given date range.
func (c *Client) Backfill(ctx context.Context, opts BackfillOptions) (*BackfillResult, error) {
	result, err := pipeline.Run(ctx, c.cfg, pipeline.Options{
		Start:   opts.Start,
		End:     opts.End,
		RSID:    opts.RSID,
		Filters: usageFilters(opts.Filters),
		OutCSV:  opts.OutCSV,
		OutJSON: opts.OutJSON,
		Upload:  opts.Upload,
	})
	if err != nil {
		return nil, err
	}
	return &BackfillResult{
		RunID:     result.RunID,
		Entries:   entriesFromModel(result.Entries),
		CSVPath:   result.CSVPath,
		Ingestion: result.Ingestion,
	}, nil
}

// Fetch downloads and enriches the usage audit logs for the date range
// without writing or uploading anything.
func (c *Client) Fetch(ctx context.Context, start, end string, f Filters) ([]Entry, error) {
	entries, err := pipeline.Fetch(ctx, c.cfg, start, end, usageFilters(f))
	if err != nil {
		return nil, err
	}
	return entriesFromModel(entries), nil
}

func usageFilters(f Filters) usage.Filters {
	return usage.Filters{
		Login:     f.Login,
		IP:        f.IP,
		RSID:      f.RSID,
		EventType: f.EventType,
		Event:     f.Event,
	}
}
