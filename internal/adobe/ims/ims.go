// Package ims exchanges client credentials for a bearer token at the
// vendor's identity service. Two exchange flows are supported: OAuth
// server-to-server client credentials (the default) and the legacy JWT
// service-account flow.
package ims

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/crimson-sun/loglift/internal/adobe/httpclient"
	"github.com/crimson-sun/loglift/internal/config"
)

const (
	oauthTokenPath  = "/ims/token/v3"
	jwtExchangePath = "/ims/exchange/jwt"
)

// AuthError is returned when the token exchange fails: a non-2xx response
// or a response without an access token.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("ims: token exchange failed: %s", e.Body)
	}
	return fmt.Sprintf("ims: token exchange failed: HTTP %d: %s", e.Status, e.Body)
}

// Client performs the token exchange and caches the result for the
// lifetime of the process. Backfill runs are short; expiry-based refresh
// is deliberately not implemented.
type Client struct {
	cfg  *config.Config
	http *httpclient.Client

	mu    sync.Mutex
	token string
}

// New creates a token client for the identity host named in cfg.
func New(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		http: httpclient.New(cfg.TokenURL, "",
			httpclient.WithTimeout(cfg.Timeout()),
			httpclient.WithMaxRetries(cfg.MaxRetries)),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns the cached bearer token, performing the exchange on first use.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh discards the cached token and performs a fresh exchange.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) (string, error) {
	var (
		resp tokenResponse
		err  error
	)
	switch c.cfg.AuthMode {
	case config.AuthModeJWT:
		resp, err = c.exchangeJWT(ctx)
	default:
		resp, err = c.exchangeOAuth(ctx)
	}
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &AuthError{Body: "response contained no access_token"}
	}
	c.token = resp.AccessToken
	return c.token, nil
}

// exchangeOAuth posts the client-credentials grant. The client id rides in
// the query string and the secret in the form body, per the vendor contract.
func (c *Client) exchangeOAuth(ctx context.Context) (tokenResponse, error) {
	query := url.Values{}
	query.Set("client_id", c.cfg.ClientID)

	form := url.Values{}
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", c.cfg.Scopes)

	var resp tokenResponse
	if err := c.http.PostForm(ctx, oauthTokenPath, query, form, &resp); err != nil {
		return tokenResponse{}, asAuthError(err)
	}
	return resp, nil
}

func asAuthError(err error) error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return &AuthError{Status: apiErr.StatusCode, Body: apiErr.Body}
	}
	return fmt.Errorf("ims: token exchange: %w", err)
}
