package providers

import (
	"fmt"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	jiraAuthorizeURL = "https://auth.atlassian.com/authorize"
	jiraTokenURL     = "https://auth.atlassian.com/oauth/token"
)

// Jira implements the OAuth adapter for Atlassian Jira Cloud.
// Rotating refresh tokens require the offline_access scope.
type Jira struct{}

func (Jira) Name() string         { return "jira" }
func (Jira) AuthorizeURL() string { return jiraAuthorizeURL }
func (Jira) TokenURL() string     { return jiraTokenURL }

func (Jira) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
		"prompt":        {"consent"},
		"state":         {"jira-oauth-state"},
	}
}

func (Jira) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Jira) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

func (Jira) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if p.str("access_token") == "" {
		return nil, fmt.Errorf("token exchange failed: %s", string(body))
	}

	return &credstore.Credentials{
		AccessToken:  p.str("access_token"),
		RefreshToken: p.str("refresh_token"),
		TokenType:    p.strDefault("token_type", "Bearer"),
		ExpiresIn:    p.int64("expires_in"),
		Scope:        p.str("scope"),
	}, nil
}
