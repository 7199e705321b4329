package loglift

type options struct {
	configFile string

	clientID     string
	clientSecret string
	companyID    string
	scopes       string

	tokenURL      string
	apiURL        string
	collectionURL string
}

// Option configures a Client.
type Option func(*options)

// WithConfigFile sets the YAML credential file to load. Environment
// variables (LOGLIFT_CLIENT_ID and friends) still override its values.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithCredentials sets the OAuth server-to-server credentials directly,
// bypassing the credential file for these fields.
func WithCredentials(clientID, clientSecret, companyID string) Option {
	return func(o *options) {
		o.clientID = clientID
		o.clientSecret = clientSecret
		o.companyID = companyID
	}
}

// WithScopes sets the comma-separated OAuth scope list.
func WithScopes(scopes string) Option {
	return func(o *options) {
		o.scopes = scopes
	}
}

// WithEndpoints overrides the identity, analytics, and collection hosts.
// Mainly for tests; empty values keep the defaults.
func WithEndpoints(tokenURL, apiURL, collectionURL string) Option {
	return func(o *options) {
		o.tokenURL = tokenURL
		o.apiURL = apiURL
		o.collectionURL = collectionURL
	}
}
