package providers

import (
	"errors"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	patreonAuthorizeURL = "https://www.patreon.com/oauth2/authorize"
	patreonTokenURL     = "https://www.patreon.com/api/oauth2/token"
)

// Patreon implements the OAuth adapter for the Patreon API.
type Patreon struct{}

func (Patreon) Name() string         { return "patreon" }
func (Patreon) AuthorizeURL() string { return patreonAuthorizeURL }
func (Patreon) TokenURL() string     { return patreonTokenURL }

func (Patreon) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
	}
}

func (Patreon) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Patreon) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
	}
}

func (Patreon) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if p.str("access_token") == "" {
		return nil, errors.New("no access token found in response")
	}

	return &credstore.Credentials{
		AccessToken:  p.str("access_token"),
		RefreshToken: p.str("refresh_token"),
		TokenType:    p.strDefault("token_type", "Bearer"),
		ExpiresIn:    p.int64("expires_in"),
		Scope:        p.str("scope"),
	}, nil
}
