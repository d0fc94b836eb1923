package providers

import (
	"fmt"
	"net/url"

	"toolbridge/internal/credstore"
)

const (
	clickupAuthorizeURL = "https://app.clickup.com/api"
	clickupTokenURL     = "https://api.clickup.com/api/v2/oauth/token"
)

// ClickUp implements the OAuth adapter for the ClickUp API. ClickUp
// issues non-refreshable tokens without an expiry and does not use
// scopes; its API additionally wants the token type prepended to the
// stored token at read time.
type ClickUp struct{}

func (ClickUp) Name() string         { return "clickup" }
func (ClickUp) AuthorizeURL() string { return clickupAuthorizeURL }
func (ClickUp) TokenURL() string     { return clickupTokenURL }

func (ClickUp) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, _ []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
	}
}

func (ClickUp) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

// RefreshRequest returns nil: ClickUp does not use refresh tokens, and
// its stored records carry no expiry so the guard never refreshes.
func (ClickUp) RefreshRequest(_ *credstore.OAuthConfig, _ string, _ *credstore.Credentials) url.Values {
	return nil
}

func (ClickUp) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if p.str("access_token") == "" {
		return nil, fmt.Errorf("token exchange failed: %s - %s",
			p.strDefault("error", "Unknown error"), p.str("error_description"))
	}

	return &credstore.Credentials{
		AccessToken: p.str("access_token"),
		TokenType:   p.strDefault("token_type", "Bearer"),
	}, nil
}

// FormatAccessToken recombines the raw token with its token type into
// the single header value the ClickUp API expects.
func (ClickUp) FormatAccessToken(creds *credstore.Credentials) string {
	tokenType := creds.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + creds.AccessToken
}
