package providers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	calendlyAuthorizeURL = "https://auth.calendly.com/oauth/authorize"
	calendlyTokenURL     = "https://auth.calendly.com/oauth/token"
)

// Calendly implements the OAuth adapter for the Calendly API. Calendly
// wants an explicit form-encoded content type on token requests and
// reports its token type in lowercase.
type Calendly struct{}

func (Calendly) Name() string         { return "calendly" }
func (Calendly) AuthorizeURL() string { return calendlyAuthorizeURL }
func (Calendly) TokenURL() string     { return calendlyTokenURL }

func (Calendly) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
	}
}

func (Calendly) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Calendly) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

func (Calendly) TokenHeaders(_ *credstore.OAuthConfig) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	return h
}

func (Calendly) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if p.str("access_token") == "" {
		return nil, fmt.Errorf("token exchange failed: %s", p.strDefault("error", "Unknown error"))
	}

	return &credstore.Credentials{
		AccessToken:  p.str("access_token"),
		RefreshToken: p.str("refresh_token"),
		TokenType:    p.strDefault("token_type", "bearer"),
		ExpiresIn:    p.int64("expires_in"),
		Scope:        p.str("scope"),
		Extra:        p.extras("owner"),
	}, nil
}
