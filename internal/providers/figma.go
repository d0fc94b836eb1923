package providers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	figmaAuthorizeURL = "https://www.figma.com/oauth"
	figmaTokenURL     = "https://api.figma.com/v1/oauth/token"
)

// Figma implements the OAuth adapter for the Figma API. Figma
// authenticates the client with HTTP Basic auth on token requests.
type Figma struct{}

func (Figma) Name() string         { return "figma" }
func (Figma) AuthorizeURL() string { return figmaAuthorizeURL }
func (Figma) TokenURL() string     { return figmaTokenURL }

func (Figma) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"scope":         {strings.Join(scopes, " ")},
		"state":         {"figma_auth"},
		"response_type": {"code"},
	}
}

func (Figma) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"redirect_uri":  {redirectURI},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	}
}

func (Figma) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
	}
}

func (Figma) TokenHeaders(cfg *credstore.OAuthConfig) http.Header {
	return basicAuthHeaders(cfg)
}

func (Figma) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
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
		ExpiresIn:    p.int64("expires_in"),
		Extra:        p.extras("user_id"),
	}, nil
}
