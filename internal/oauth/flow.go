package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"toolbridge/internal/credstore"
)

// EnvironmentLocal is the environment in which the refresh guard
// performs its own token refreshes. Managed deployments are assumed to
// refresh out-of-band in the credential store backend.
const EnvironmentLocal = "local"

// DefaultHTTPTimeout bounds every token-endpoint request so a stalled
// provider cannot hang a connector handler indefinitely.
const DefaultHTTPTimeout = 30 * time.Second

// Authenticator runs the OAuth credential lifecycle for connector
// services: the one-time interactive authorization flow and the
// non-interactive refresh guard consulted before every API call.
type Authenticator struct {
	store        credstore.Store
	httpClient   *http.Client
	port         int
	environment  string
	openBrowser  func(url string) error
	refreshGroup singleflight.Group
}

// Config configures an Authenticator.
type Config struct {
	// Store is the credential persistence backend.
	Store credstore.Store

	// CallbackPort is the local port for the redirect listener.
	// Defaults to 8080.
	CallbackPort int

	// Environment gates self-refresh; anything but "local" defers
	// refresh to the store backend. Defaults to "local".
	Environment string

	// HTTPClient is an optional custom HTTP client for token requests.
	HTTPClient *http.Client

	// OpenBrowser overrides how the authorize URL is opened. Used in
	// tests; defaults to OpenBrowser.
	OpenBrowser func(url string) error
}

// New creates an Authenticator with the specified configuration.
func New(cfg Config) (*Authenticator, error) {
	if cfg.Store == nil {
		return nil, errors.New("credential store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	port := cfg.CallbackPort
	if port == 0 {
		port = DefaultCallbackPort
	}

	environment := cfg.Environment
	if environment == "" {
		environment = EnvironmentLocal
	}

	openBrowser := cfg.OpenBrowser
	if openBrowser == nil {
		openBrowser = OpenBrowser
	}

	return &Authenticator{
		store:       cfg.Store,
		httpClient:  httpClient,
		port:        port,
		environment: environment,
		openBrowser: openBrowser,
	}, nil
}

// Authenticate runs the complete first-time authorization handshake for
// one service and one user: build the authorize URL, open the browser,
// capture the redirect on a local listener, exchange the code for
// tokens, and persist the normalized record.
//
// It binds the callback port for the duration of the call; exactly one
// flow may be in flight per port.
func (a *Authenticator) Authenticate(ctx context.Context, provider Provider, userID string, scopes []string) (*credstore.Credentials, error) {
	service := provider.Name()
	flowID := uuid.NewString()

	slog.Info("launching auth flow",
		"service", service,
		"user", userID,
		"flow_id", flowID,
	)

	cfg, err := a.store.GetOAuthConfig(service)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(service); err != nil {
		return nil, err
	}

	callbackServer := NewCallbackServer(a.port)
	if err := callbackServer.Start(ctx); err != nil {
		return nil, &FlowError{Service: service, Err: err}
	}
	defer callbackServer.Stop()

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = callbackServer.RedirectURI()
	}

	params := provider.AuthParams(cfg, redirectURI, scopes)
	authURL := provider.AuthorizeURL() + "?" + params.Encode()

	if err := a.openBrowser(authURL); err != nil {
		// The URL is still usable by hand; the wait below carries on.
		slog.Warn("failed to open browser, open the URL manually",
			"service", service,
			"url", authURL,
			"error", err.Error(),
		)
	}

	waitCtx, cancel := context.WithTimeout(ctx, CallbackTimeout)
	defer cancel()

	result, err := callbackServer.WaitForCallback(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &FlowError{Service: service, Err: errors.New("authentication timed out or was canceled")}
		}
		return nil, &FlowError{Service: service, Err: err}
	}

	if result.IsError() {
		slog.Error("authorization failed",
			"service", service,
			"flow_id", flowID,
			"error", result.Error,
		)
		return nil, &FlowError{Service: service, Err: fmt.Errorf("authorization failed: %s", result.Error)}
	}

	// PKCE continuation for providers that round-trip the verifier
	// through the state parameter.
	if result.CodeVerifier != "" {
		cfg.CodeVerifier = result.CodeVerifier
	}

	form := provider.TokenRequest(cfg, redirectURI, scopes, result.Code)
	creds, err := a.doTokenRequest(ctx, provider, cfg, form)
	if err != nil {
		return nil, &FlowError{Service: service, Err: err}
	}

	if err := a.store.SaveCredentials(service, userID, creds); err != nil {
		return nil, &FlowError{Service: service, Err: err}
	}

	slog.Info("credentials saved",
		"service", service,
		"user", userID,
		"flow_id", flowID,
		"has_refresh_token", creds.RefreshToken != "",
	)
	return creds, nil
}

// doTokenRequest POSTs a form-encoded body to the provider's token
// endpoint, applies provider-specific headers, and normalizes the
// response. Used by both the code exchange and the refresh path.
func (a *Authenticator) doTokenRequest(ctx context.Context, provider Provider, cfg *credstore.OAuthConfig, form url.Values) (*credstore.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.TokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if hb, ok := provider.(TokenHeaderBuilder); ok {
		for key, values := range hb.TokenHeaders(cfg) {
			req.Header[key] = values
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	creds, err := provider.ProcessTokenResponse(body)
	if err != nil {
		return nil, err
	}

	// Providers that report a lifetime but no absolute expiry get one
	// computed here. Providers that report neither issue non-expiring
	// tokens and the record stays without an expiry.
	if creds.ExpiresAt == 0 && creds.ExpiresIn > 0 {
		creds.ExpiresAt = time.Now().Unix() + creds.ExpiresIn
	}

	return creds, nil
}
