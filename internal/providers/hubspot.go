package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"toolbridge/internal/credstore"
)

const (
	hubspotAuthorizeURL = "https://app.hubspot.com/oauth/authorize"
	hubspotTokenURL     = "https://api.hubapi.com/oauth/v1/token"
)

// HubSpot implements the OAuth adapter for the HubSpot CRM API.
type HubSpot struct{}

func (HubSpot) Name() string         { return "hubspot" }
func (HubSpot) AuthorizeURL() string { return hubspotAuthorizeURL }
func (HubSpot) TokenURL() string     { return hubspotTokenURL }

func (HubSpot) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":      {cfg.ClientID},
		"scope":          {strings.Join(scopes, " ")},
		"redirect_uri":   {redirectURI},
		"response_type":  {"code"},
		"optional_scope": {""},
	}
}

func (HubSpot) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (HubSpot) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

// ProcessTokenResponse computes the absolute expiry itself rather than
// leaving it to the flow driver, honoring an expires_at the provider
// may already have included.
func (HubSpot) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if msg := p.errorMessage(); msg != "" {
		return nil, fmt.Errorf("token exchange failed: %s", msg)
	}
	if p.str("access_token") == "" {
		return nil, errors.New("no access token found in response")
	}

	expiresIn := p.int64("expires_in")
	if expiresIn == 0 {
		expiresIn = 3600
	}
	expiresAt := p.int64("expires_at")
	if expiresAt == 0 {
		expiresAt = time.Now().Unix() + expiresIn
	}

	return &credstore.Credentials{
		AccessToken:  p.str("access_token"),
		RefreshToken: p.str("refresh_token"),
		TokenType:    p.strDefault("token_type", "Bearer"),
		ExpiresIn:    expiresIn,
		ExpiresAt:    expiresAt,
		Scope:        p.str("scope"),
		Extra:        p.extras("hub_id", "hub_domain"),
	}, nil
}
