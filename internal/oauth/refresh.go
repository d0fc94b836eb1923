package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"toolbridge/internal/credstore"
)

// RefreshExpiryBuffer is the safety margin before the stored expiry at
// which a refresh is performed, covering clock skew and the duration of
// the API call the token is about to be used for.
const RefreshExpiryBuffer = 5 * time.Minute

// AccessToken returns a currently valid access token for (provider,
// user), transparently refreshing an expired or near-expiry token
// first. It never requires user interaction: a missing record or a due
// refresh without a refresh token is an AuthRequiredError.
//
// Records without an expiry (non-expiring tokens) and non-local
// environments return the stored token as-is with zero network calls.
func (a *Authenticator) AccessToken(ctx context.Context, provider Provider, userID string) (string, error) {
	creds, err := a.freshCredentials(ctx, provider, userID)
	if err != nil {
		return "", err
	}

	if f, ok := provider.(AccessTokenFormatter); ok {
		return f.FormatAccessToken(creds), nil
	}
	return creds.AccessToken, nil
}

// Credentials behaves like AccessToken but returns the full credential
// record, for connectors that need provider-specific fields alongside
// the token.
func (a *Authenticator) Credentials(ctx context.Context, provider Provider, userID string) (*credstore.Credentials, error) {
	return a.freshCredentials(ctx, provider, userID)
}

func (a *Authenticator) freshCredentials(ctx context.Context, provider Provider, userID string) (*credstore.Credentials, error) {
	service := provider.Name()

	creds, err := a.store.GetCredentials(service, userID)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return nil, a.authRequired(service, userID)
		}
		return nil, err
	}

	// Non-expiring tokens never refresh. Outside the local environment
	// the store backend is expected to hand out ready-to-use tokens.
	if !creds.HasExpiry() || a.environment != EnvironmentLocal {
		return creds, nil
	}

	if !creds.ExpiresWithin(RefreshExpiryBuffer) {
		return creds, nil
	}

	// Collapse concurrent refreshes racing past the expiry boundary
	// into a single token-endpoint POST and store write per key.
	v, err, _ := a.refreshGroup.Do(service+"/"+userID, func() (any, error) {
		return a.refresh(ctx, provider, userID, creds)
	})
	if err != nil {
		return nil, err
	}
	return v.(*credstore.Credentials), nil
}

// refresh performs one refresh-token exchange and persists the result.
func (a *Authenticator) refresh(ctx context.Context, provider Provider, userID string, creds *credstore.Credentials) (*credstore.Credentials, error) {
	service := provider.Name()

	if creds.RefreshToken == "" {
		return nil, a.authRequired(service, userID)
	}

	cfg, err := a.store.GetOAuthConfig(service)
	if err != nil {
		return nil, err
	}

	form := provider.RefreshRequest(cfg, creds.RefreshToken, creds)
	if form == nil {
		// Non-refreshable provider with a stored expiry; nothing this
		// subsystem can do but ask for a new interactive flow.
		return nil, a.authRequired(service, userID)
	}

	newCreds, err := a.doTokenRequest(ctx, provider, cfg, form)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed for %s: %w", service, err)
	}

	// Many providers do not re-issue the refresh token; carry the prior
	// one forward rather than clobbering it.
	if newCreds.RefreshToken == "" {
		newCreds.RefreshToken = creds.RefreshToken
	}

	if err := a.store.SaveCredentials(service, userID, newCreds); err != nil {
		return nil, err
	}

	slog.Info("access token refreshed",
		"service", service,
		"user", userID,
		"expires_at", newCreds.ExpiresAt,
	)
	return newCreds, nil
}

func (a *Authenticator) authRequired(service, userID string) error {
	e := &AuthRequiredError{Service: service, User: userID}
	if a.environment == EnvironmentLocal {
		e.Hint = "Run 'toolbridge auth login " + service + "' first"
	}
	return e
}
