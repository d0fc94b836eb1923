package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	attioAuthorizeURL = "https://app.attio.com/authorize"
	attioTokenURL     = "https://app.attio.com/oauth/token"
)

// Attio implements the OAuth adapter for the Attio CRM API.
type Attio struct{}

func (Attio) Name() string         { return "attio" }
func (Attio) AuthorizeURL() string { return attioAuthorizeURL }
func (Attio) TokenURL() string     { return attioTokenURL }

func (Attio) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"scope":         {strings.Join(scopes, " ")}, // Attio uses space-delimited scopes
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
	}
}

func (Attio) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Attio) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

func (Attio) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
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

	return &credstore.Credentials{
		AccessToken:  p.str("access_token"),
		RefreshToken: p.str("refresh_token"),
		TokenType:    p.strDefault("token_type", "Bearer"),
		ExpiresIn:    expiresIn,
		Scope:        p.str("scope"),
		Extra:        p.extras("workspace_id", "workspace_name"),
	}, nil
}
