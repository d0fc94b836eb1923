package providers

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"toolbridge/internal/credstore"
)

const (
	typeformAuthorizeURL = "https://admin.typeform.com/oauth/authorize"
	typeformTokenURL     = "https://api.typeform.com/oauth/token"
)

// Typeform implements the OAuth adapter for the Typeform API.
type Typeform struct{}

func (Typeform) Name() string         { return "typeform" }
func (Typeform) AuthorizeURL() string { return typeformAuthorizeURL }
func (Typeform) TokenURL() string     { return typeformTokenURL }

func (Typeform) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
		"state":         {"typeform_auth"},
	}
}

func (Typeform) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Typeform) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
	}
}

func (Typeform) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
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
		ExpiresAt:    time.Now().Unix() + expiresIn,
		Scope:        p.str("scope"),
	}, nil
}
