package providers

import (
	"errors"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	linearAuthorizeURL = "https://linear.app/oauth/authorize"
	linearTokenURL     = "https://api.linear.app/oauth/token"
)

// Linear implements the OAuth adapter for the Linear API. Linear joins
// scopes with commas rather than spaces and issues long-lived tokens
// without refresh support.
type Linear struct{}

func (Linear) Name() string         { return "linear" }
func (Linear) AuthorizeURL() string { return linearAuthorizeURL }
func (Linear) TokenURL() string     { return linearTokenURL }

func (Linear) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, ",")},
		"actor":         {"user"},
	}
}

func (Linear) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Linear) RefreshRequest(_ *credstore.OAuthConfig, _ string, _ *credstore.Credentials) url.Values {
	return nil
}

func (Linear) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if p.str("access_token") == "" {
		return nil, errors.New("no access token found in response")
	}

	// Linear reports a multi-year expires_in on its long-lived tokens.
	// The record is stored without a lifetime or expiry so it is handed
	// out as-is for its whole life instead of hitting the (unsupported)
	// refresh path when the synthetic deadline nears.
	return &credstore.Credentials{
		AccessToken: p.str("access_token"),
		TokenType:   p.strDefault("token_type", "Bearer"),
		Scope:       p.str("scope"),
	}, nil
}
