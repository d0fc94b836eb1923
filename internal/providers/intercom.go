package providers

import (
	"errors"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	intercomAuthorizeURL = "https://app.intercom.com/oauth"
	intercomTokenURL     = "https://api.intercom.io/auth/eagle/token"
)

// Intercom implements the OAuth adapter for the Intercom API.
// Intercom access tokens never expire and cannot be refreshed.
type Intercom struct{}

func (Intercom) Name() string         { return "intercom" }
func (Intercom) AuthorizeURL() string { return intercomAuthorizeURL }
func (Intercom) TokenURL() string     { return intercomTokenURL }

func (Intercom) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
		"state":         {"intercom-auth"},
	}
}

func (Intercom) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Intercom) RefreshRequest(_ *credstore.OAuthConfig, _ string, _ *credstore.Credentials) url.Values {
	return nil
}

func (Intercom) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
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
