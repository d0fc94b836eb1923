package providers

import (
	"fmt"
	"net/url"
	"strings"

	"toolbridge/internal/credstore"
)

const (
	stripeAuthorizeURL = "https://connect.stripe.com/oauth/authorize"
	stripeTokenURL     = "https://connect.stripe.com/oauth/token"
)

// Stripe implements the OAuth adapter for Stripe Connect. Refresh
// requests authenticate with the secret key alone.
type Stripe struct{}

func (Stripe) Name() string         { return "stripe" }
func (Stripe) AuthorizeURL() string { return stripeAuthorizeURL }
func (Stripe) TokenURL() string     { return stripeTokenURL }

func (Stripe) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
	}
}

func (Stripe) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
}

func (Stripe) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	return url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_secret": {cfg.ClientSecret},
	}
}

func (Stripe) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
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
		Extra:        p.extras("stripe_user_id", "stripe_publishable_key"),
	}, nil
}
