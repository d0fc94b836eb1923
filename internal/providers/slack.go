package providers

import (
	"fmt"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	slackAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	slackTokenURL     = "https://slack.com/api/oauth.v2.access"
)

// Slack implements the OAuth adapter for the Slack v2 flow. Slack
// departs from plain OAuth in several ways: scopes are comma-joined,
// the authorize URL takes no response_type, the token exchange takes
// no grant_type, and success is signalled by an "ok" field instead of
// an HTTP error status.
type Slack struct{}

func (Slack) Name() string         { return "slack" }
func (Slack) AuthorizeURL() string { return slackAuthorizeURL }
func (Slack) TokenURL() string     { return slackTokenURL }

func (Slack) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":    {cfg.ClientID},
		"redirect_uri": {redirectURI},
		"scope":        {strings.Join(scopes, ",")},
	}
}

func (Slack) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}
}

func (Slack) RefreshRequest(_ *credstore.OAuthConfig, _ string, _ *credstore.Credentials) url.Values {
	return nil
}

func (Slack) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	p, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if ok, _ := p["ok"].(bool); !ok {
		return nil, fmt.Errorf("token exchange failed: %s", p.strDefault("error", "Unknown error"))
	}

	extra := map[string]any{}
	if team, ok := p["team"].(map[string]any); ok {
		if id, ok := team["id"].(string); ok && id != "" {
			extra["team_id"] = id
		}
		if name, ok := team["name"].(string); ok && name != "" {
			extra["team_name"] = name
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	return &credstore.Credentials{
		AccessToken: p.str("access_token"),
		TokenType:   "Bearer",
		Scope:       p.str("scope"),
		Extra:       extra,
	}, nil
}
