// Package config loads loglift configuration from a YAML credential file
// with environment-variable overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Auth modes.
const (
	AuthModeOAuth = "oauth" // server-to-server client credentials (default)
	AuthModeJWT   = "jwt"   // legacy JWT service account
)

// Defaults for non-secret configuration.
const (
	DefaultTokenURL       = "https://ims-na1.adobelogin.com"
	DefaultAPIURL         = "https://analytics.adobe.io"
	DefaultCollectionURL  = "https://analytics-collection.adobe.io"
	DefaultVisitorGroupID = "usage_group1"
	DefaultTimeout        = 10 * time.Second
	DefaultPageLimit      = 1000
	DefaultMaxRetries     = 1
)

// Configuration validation errors.
var (
	ErrMissingClientID     = errors.New("client_id is required")
	ErrMissingClientSecret = errors.New("client_secret is required")
	ErrMissingCompanyID    = errors.New("company_id is required")
	ErrMissingScopes       = errors.New("scopes is required for oauth auth mode")
	ErrMissingOrgID        = errors.New("org_id is required for jwt auth mode")
	ErrMissingTechAccount  = errors.New("technical_account_id is required for jwt auth mode")
	ErrMissingPrivateKey   = errors.New("private_key_path is required for jwt auth mode")
	ErrInvalidAuthMode     = errors.New(`auth_mode must be "oauth" or "jwt"`)
)

// Config holds credentials and endpoint settings for one run.
type Config struct {
	// Credentials.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	CompanyID    string `koanf:"company_id"`
	Scopes       string `koanf:"scopes"` // comma-separated capability list

	// Auth mode selection. The JWT fields apply only to auth_mode "jwt".
	AuthMode           string   `koanf:"auth_mode"`
	OrgID              string   `koanf:"org_id"`
	TechnicalAccountID string   `koanf:"technical_account_id"`
	PrivateKeyPath     string   `koanf:"private_key_path"`
	Metascopes         []string `koanf:"metascopes"`

	// Endpoint overrides, mainly for tests.
	TokenURL      string `koanf:"token_url"`
	APIURL        string `koanf:"api_url"`
	CollectionURL string `koanf:"collection_url"`

	// Bulk-insertion visitor group header value.
	VisitorGroupID string `koanf:"visitor_group_id"`

	TimeoutSeconds int `koanf:"timeout_seconds"`
	PageLimit      int `koanf:"page_limit"`
	MaxRetries     int `koanf:"max_retries"`
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// envOverrides maps environment variables onto config fields. Secrets are
// usually supplied this way rather than written into the credential file.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{"LOGLIFT_CLIENT_ID", func(c *Config, v string) { c.ClientID = v }},
	{"LOGLIFT_CLIENT_SECRET", func(c *Config, v string) { c.ClientSecret = v }},
	{"LOGLIFT_COMPANY_ID", func(c *Config, v string) { c.CompanyID = v }},
	{"LOGLIFT_SCOPES", func(c *Config, v string) { c.Scopes = v }},
	{"LOGLIFT_AUTH_MODE", func(c *Config, v string) { c.AuthMode = v }},
	{"LOGLIFT_ORG_ID", func(c *Config, v string) { c.OrgID = v }},
	{"LOGLIFT_TECHNICAL_ACCOUNT_ID", func(c *Config, v string) { c.TechnicalAccountID = v }},
	{"LOGLIFT_PRIVATE_KEY_PATH", func(c *Config, v string) { c.PrivateKeyPath = v }},
	{"LOGLIFT_TOKEN_URL", func(c *Config, v string) { c.TokenURL = v }},
	{"LOGLIFT_API_URL", func(c *Config, v string) { c.APIURL = v }},
	{"LOGLIFT_COLLECTION_URL", func(c *Config, v string) { c.CollectionURL = v }},
}

// Load reads configuration from the given YAML file (optional) and applies
// environment-variable overrides. Returns the config and any validation
// errors joined together; a non-nil error means the config is unusable.
func Load(path string) (*Config, error) {
	cfg, err := LoadUnvalidated(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnvalidated is Load without the validation step, for callers that
// fill in credentials from another source before validating themselves.
func LoadUnvalidated(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		AuthMode:       AuthModeOAuth,
		TokenURL:       DefaultTokenURL,
		APIURL:         DefaultAPIURL,
		CollectionURL:  DefaultCollectionURL,
		VisitorGroupID: DefaultVisitorGroupID,
		PageLimit:      DefaultPageLimit,
		MaxRetries:     DefaultMaxRetries,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthModeOAuth
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultPageLimit
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.envVar); v != "" {
			o.apply(cfg, v)
		}
	}
	return cfg, nil
}

// Validate accumulates all missing-field errors so the operator sees the
// full list in one run.
func (c *Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, ErrMissingClientID)
	}
	if c.ClientSecret == "" {
		errs = append(errs, ErrMissingClientSecret)
	}
	if c.CompanyID == "" {
		errs = append(errs, ErrMissingCompanyID)
	}

	switch c.AuthMode {
	case AuthModeOAuth:
		if c.Scopes == "" {
			errs = append(errs, ErrMissingScopes)
		}
	case AuthModeJWT:
		if c.OrgID == "" {
			errs = append(errs, ErrMissingOrgID)
		}
		if c.TechnicalAccountID == "" {
			errs = append(errs, ErrMissingTechAccount)
		}
		if c.PrivateKeyPath == "" {
			errs = append(errs, ErrMissingPrivateKey)
		}
	default:
		errs = append(errs, ErrInvalidAuthMode)
	}

	return errors.Join(errs...)
}
