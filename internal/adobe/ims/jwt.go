package ims

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime of the signed assertion. The identity service only needs it to
// be valid at the moment of exchange.
const assertionExpiry = 30 * time.Minute

// Metascope granted to service accounts that ingest analytics data.
const defaultMetascope = "ent_analytics_bulk_ingest_sdk"

// exchangeJWT performs the legacy service-account flow: sign an RS256
// assertion with the account's private key, then trade it for a bearer
// token at the exchange endpoint.
func (c *Client) exchangeJWT(ctx context.Context) (tokenResponse, error) {
	assertion, err := c.signAssertion(time.Now())
	if err != nil {
		return tokenResponse{}, err
	}

	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("jwt_token", assertion)

	var resp tokenResponse
	if err := c.http.PostForm(ctx, jwtExchangePath, nil, form, &resp); err != nil {
		return tokenResponse{}, asAuthError(err)
	}
	return resp, nil
}

// signAssertion builds and signs the service-account claim set:
// issuer = org id, subject = technical account id, audience = the client's
// entry on the identity host, plus one boolean claim per metascope.
func (c *Client) signAssertion(now time.Time) (string, error) {
	pemBytes, err := os.ReadFile(c.cfg.PrivateKeyPath)
	if err != nil {
		return "", fmt.Errorf("ims: read private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return "", fmt.Errorf("ims: parse private key: %w", err)
	}

	claims := jwt.MapClaims{
		"exp": now.Add(assertionExpiry).Unix(),
		"iss": c.cfg.OrgID,
		"sub": c.cfg.TechnicalAccountID,
		"aud": c.cfg.TokenURL + "/c/" + c.cfg.ClientID,
	}
	metascopes := c.cfg.Metascopes
	if len(metascopes) == 0 {
		metascopes = []string{defaultMetascope}
	}
	for _, scope := range metascopes {
		claims[c.cfg.TokenURL+"/s/"+scope] = true
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("ims: sign assertion: %w", err)
	}
	return signed, nil
}
