package providers

import (
	"errors"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	mondayAuthorizeURL = "https://auth.monday.com/oauth2/authorize"
	mondayTokenURL     = "https://auth.monday.com/oauth2/token"
)

// Monday implements the OAuth adapter for the monday.com API.
// monday.com tokens carry no expiry, so the refresh request below is
// defined for completeness but never issued.
type Monday struct{}

func (Monday) Name() string         { return "monday" }
func (Monday) AuthorizeURL() string { return mondayAuthorizeURL }
func (Monday) TokenURL() string     { return mondayTokenURL }

func (Monday) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
	}
}

func (Monday) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Monday) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
	}
}

func (Monday) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if p.str("access_token") == "" {
		return nil, errors.New("no access token found in response")
	}

	return &credstore.Credentials{
		AccessToken: p.str("access_token"),
		TokenType:   p.strDefault("token_type", "Bearer"),
		Scope:       p.str("scope"),
	}, nil
}
