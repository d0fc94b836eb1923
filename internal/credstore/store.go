package credstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for the requested
// service or (service, user) pair.
var ErrNotFound = errors.New("not found")

// OAuthConfig is the per-service client configuration read (not owned)
// by the OAuth core. It is resolved once per flow invocation.
type OAuthConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	// RedirectURI overrides the default http://localhost:{port} redirect
	// when the registered OAuth app requires a fixed callback.
	RedirectURI string `json:"redirect_uri,omitempty"`

	// CodeVerifier is transient PKCE state threaded from auth-URL
	// construction through to token exchange within one flow invocation.
	// Never persisted.
	CodeVerifier string `json:"-"`
}

// Validate checks that the client credentials needed for any OAuth flow
// are present.
func (c *OAuthConfig) Validate(service string) error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("missing OAuth client credentials for %s", service)
	}
	return nil
}

// Store is the opaque persistence layer keyed by (service, user).
// The OAuth core reads OAuth client configs from it and reads/rewrites
// credential records; it never deletes them.
type Store interface {
	// GetOAuthConfig returns the client configuration for a service.
	GetOAuthConfig(service string) (*OAuthConfig, error)

	// GetCredentials returns the stored record for (service, user),
	// or ErrNotFound.
	GetCredentials(service, user string) (*Credentials, error)

	// SaveCredentials persists the record, overwriting any prior one
	// in full. Last write wins.
	SaveCredentials(service, user string, creds *Credentials) error
}
