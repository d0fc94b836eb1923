package oauth

import (
	"net/http"
	"net/url"

	"toolbridge/internal/credstore"
)

// Provider supplies the service-specific pieces of the OAuth flows:
// how to shape the authorize URL, the token-exchange body, the refresh
// body, and how to validate and normalize the provider's token JSON.
//
// Implementations are pure; all network, browser, and storage work is
// done by the Authenticator.
type Provider interface {
	// Name is the service identifier used as the credential store key.
	Name() string

	// AuthorizeURL is the base URL the user's browser is sent to.
	AuthorizeURL() string

	// TokenURL is the endpoint for code exchange and refresh.
	TokenURL() string

	// AuthParams builds the query parameters for the authorize URL.
	// Scope delimiters and extra parameters (state, prompt, PKCE
	// challenge) vary per provider. Implementations that use PKCE store
	// the code verifier on cfg for the token exchange.
	AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values

	// TokenRequest builds the form body for the authorization-code
	// exchange.
	TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, scopes []string, code string) url.Values

	// RefreshRequest builds the form body for a refresh-token exchange.
	// Providers whose tokens are not refreshable return nil; such
	// providers never store an expiry, so the refresh guard never
	// reaches this path.
	RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, creds *credstore.Credentials) url.Values

	// ProcessTokenResponse validates the provider's token JSON and maps
	// it into the normalized credential record. It must fail with a
	// descriptive error when the provider signaled an error or omitted
	// the access token.
	ProcessTokenResponse(body []byte) (*credstore.Credentials, error)
}

// TokenHeaderBuilder is implemented by providers that need extra HTTP
// headers on token requests, e.g. HTTP Basic auth with the client
// credentials or an explicit Content-Type.
type TokenHeaderBuilder interface {
	TokenHeaders(cfg *credstore.OAuthConfig) http.Header
}

// AccessTokenFormatter is implemented by providers whose stored access
// token must be reshaped at read time. ClickUp recombines the raw token
// with its token type into a single header value.
type AccessTokenFormatter interface {
	FormatAccessToken(creds *credstore.Credentials) string
}
