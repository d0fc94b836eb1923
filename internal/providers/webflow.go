package providers

import (
	"errors"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	webflowAuthorizeURL = "https://webflow.com/oauth/authorize"
	webflowTokenURL     = "https://api.webflow.com/oauth/access_token"
)

// Webflow implements the OAuth adapter for the Webflow API. The token
// response is preserved in full since Webflow includes deployment
// details callers may need later.
type Webflow struct{}

func (Webflow) Name() string         { return "webflow" }
func (Webflow) AuthorizeURL() string { return webflowAuthorizeURL }
func (Webflow) TokenURL() string     { return webflowTokenURL }

func (Webflow) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
	}
}

func (Webflow) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

// RefreshRequest mirrors the exchange body with the refresh grant.
// Webflow tokens carry no expiry, so in practice this never fires.
func (Webflow) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

func (Webflow) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
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
		Extra:       p.allExtras(),
	}, nil
}
