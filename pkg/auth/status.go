package auth

import (
	"errors"

	"toolbridge/internal/credstore"
)

// ServiceStatus describes the credential state for one service and user.
type ServiceStatus struct {
	// Service is the connector service name.
	Service string `json:"service"`

	// Configured reports whether an OAuth client config exists.
	Configured bool `json:"configured"`

	// Authenticated reports whether stored credentials exist.
	Authenticated bool `json:"authenticated"`

	// Refreshable reports whether the stored credentials carry a
	// refresh token.
	Refreshable bool `json:"refreshable,omitempty"`

	// ExpiresAt is the unix expiry of the access token; zero for
	// non-expiring tokens.
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// Expired reports whether the access token is no longer usable,
	// per oauth2.Token validity. Non-expiring tokens are never expired.
	Expired bool `json:"expired,omitempty"`

	// Error carries any store failure other than a missing record.
	Error string `json:"error,omitempty"`
}

// Collect gathers the credential status for each named service.
func Collect(store credstore.Store, user string, services []string) []ServiceStatus {
	statuses := make([]ServiceStatus, 0, len(services))
	for _, service := range services {
		status := ServiceStatus{Service: service}

		if _, err := store.GetOAuthConfig(service); err == nil {
			status.Configured = true
		} else if !errors.Is(err, credstore.ErrNotFound) {
			status.Error = err.Error()
		}

		creds, err := store.GetCredentials(service, user)
		switch {
		case errors.Is(err, credstore.ErrNotFound):
		case err != nil:
			status.Error = err.Error()
		default:
			status.Authenticated = true
			status.Refreshable = creds.RefreshToken != ""
			status.ExpiresAt = creds.ExpiresAt
			status.Expired = !creds.Token().Valid()
		}

		statuses = append(statuses, status)
	}
	return statuses
}
