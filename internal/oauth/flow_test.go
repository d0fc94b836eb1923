package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"toolbridge/internal/credstore"
)

// fakeProvider is a minimal provider for exercising the flow driver and
// refresh guard without real provider endpoints.
type fakeProvider struct {
	tokenURL    string
	refreshable bool
}

func (p *fakeProvider) Name() string         { return "fake" }
func (p *fakeProvider) AuthorizeURL() string { return "https://fake.example.com/authorize" }
func (p *fakeProvider) TokenURL() string     { return p.tokenURL }

func (p *fakeProvider) AuthParams(cfg *credstore.OAuthConfig, redirectURI string, scopes []string) url.Values {
	return url.Values{
		"client_id":     {cfg.ClientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(scopes, " ")},
	}
}

func (p *fakeProvider) TokenRequest(cfg *credstore.OAuthConfig, redirectURI string, _ []string, code string) url.Values {
	form := url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"grant_type":    {"authorization_code"},
	}
	if cfg.CodeVerifier != "" {
		form.Set("code_verifier", cfg.CodeVerifier)
	}
	return form
}

func (p *fakeProvider) RefreshRequest(cfg *credstore.OAuthConfig, refreshToken string, _ *credstore.Credentials) url.Values {
	if !p.refreshable {
		return nil
	}
	return url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
}

func (p *fakeProvider) ProcessTokenResponse(body []byte) (*credstore.Credentials, error) {
	var creds credstore.Credentials
	if err := json.Unmarshal(body, &creds); err != nil {
		return nil, err
	}
	if creds.AccessToken == "" {
		return nil, errors.New("no access token found in response")
	}
	return &creds, nil
}

// freePort reserves an ephemeral port for a callback listener.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("could not reserve port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

// browserTo returns an OpenBrowser stub that simulates the user
// approving the authorization by hitting the local listener.
func browserTo(port int, query string) func(string) error {
	return func(string) error {
		go func() {
			url := fmt.Sprintf("http://localhost:%d/?%s", port, query)
			for i := 0; i < 20; i++ {
				resp, err := http.Get(url)
				if err == nil {
					resp.Body.Close()
					return
				}
				time.Sleep(10 * time.Millisecond)
			}
		}()
		return nil
	}
}

func newFlowFixture(t *testing.T, handler http.HandlerFunc) (*credstore.MemoryStore, *fakeProvider, int, *http.Server) {
	t.Helper()

	tokenSrv := &http.Server{}
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("could not start token server: %v", err)
	}
	tokenSrv.Handler = handler
	go tokenSrv.Serve(l)
	t.Cleanup(func() { tokenSrv.Close() })

	store := credstore.NewMemoryStore()
	store.SetOAuthConfig("fake", &credstore.OAuthConfig{
		ClientID:     "cid",
		ClientSecret: "csec",
	})

	provider := &fakeProvider{
		tokenURL: fmt.Sprintf("http://%s/token", l.Addr().String()),
	}
	return store, provider, freePort(t), tokenSrv
}

func TestAuthenticate_Success(t *testing.T) {
	var gotForm url.Values
	store, provider, port, _ := newFlowFixture(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-new","refresh_token":"rt-new","token_type":"Bearer","expires_in":3600}`)
	})

	a, err := New(Config{
		Store:        store,
		CallbackPort: port,
		OpenBrowser:  browserTo(port, "code=test-code&state=s1"),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	before := time.Now().Unix()
	creds, err := a.Authenticate(context.Background(), provider, "alice", []string{"read", "write"})
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	if creds.AccessToken != "at-new" {
		t.Errorf("AccessToken = %q, want at-new", creds.AccessToken)
	}
	if creds.RefreshToken != "rt-new" {
		t.Errorf("RefreshToken = %q, want rt-new", creds.RefreshToken)
	}
	if creds.ExpiresAt < before+3600 || creds.ExpiresAt > time.Now().Unix()+3600 {
		t.Errorf("ExpiresAt = %d, want ~now+3600", creds.ExpiresAt)
	}

	if got := gotForm.Get("grant_type"); got != "authorization_code" {
		t.Errorf("grant_type = %q, want authorization_code", got)
	}
	if got := gotForm.Get("code"); got != "test-code" {
		t.Errorf("code = %q, want test-code", got)
	}
	wantRedirect := fmt.Sprintf("http://localhost:%d", port)
	if got := gotForm.Get("redirect_uri"); got != wantRedirect {
		t.Errorf("redirect_uri = %q, want %q", got, wantRedirect)
	}

	stored, err := store.GetCredentials("fake", "alice")
	if err != nil {
		t.Fatalf("credentials were not persisted: %v", err)
	}
	if stored.AccessToken != "at-new" {
		t.Errorf("stored AccessToken = %q, want at-new", stored.AccessToken)
	}
}

func TestAuthenticate_ProviderDenied(t *testing.T) {
	store, provider, port, _ := newFlowFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("token endpoint must not be called on authorization error")
	})

	a, err := New(Config{
		Store:        store,
		CallbackPort: port,
		OpenBrowser:  browserTo(port, "error=access_denied&error_description=denied"),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = a.Authenticate(context.Background(), provider, "alice", nil)
	if err == nil {
		t.Fatal("expected error for denied authorization")
	}

	var flowErr *FlowError
	if !errors.As(err, &flowErr) {
		t.Fatalf("err = %T, want *FlowError", err)
	}
	if !strings.Contains(flowErr.Error(), "access_denied") {
		t.Errorf("error should mention access_denied, got: %v", flowErr)
	}
}

func TestAuthenticate_TokenEndpointFailure(t *testing.T) {
	store, provider, port, _ := newFlowFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	a, err := New(Config{
		Store:        store,
		CallbackPort: port,
		OpenBrowser:  browserTo(port, "code=bad-code"),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = a.Authenticate(context.Background(), provider, "alice", nil)
	if err == nil {
		t.Fatal("expected error for failed token exchange")
	}

	var flowErr *FlowError
	if !errors.As(err, &flowErr) {
		t.Fatalf("err = %T, want *FlowError", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should include status code, got: %v", err)
	}

	if _, err := store.GetCredentials("fake", "alice"); !errors.Is(err, credstore.ErrNotFound) {
		t.Error("no credentials must be stored after a failed exchange")
	}
}

func TestAuthenticate_MissingOAuthConfig(t *testing.T) {
	store := credstore.NewMemoryStore()
	provider := &fakeProvider{tokenURL: "http://localhost/token"}

	a, err := New(Config{
		Store:        store,
		CallbackPort: freePort(t),
		OpenBrowser:  func(string) error { return nil },
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = a.Authenticate(context.Background(), provider, "alice", nil)
	if !errors.Is(err, credstore.ErrNotFound) {
		t.Errorf("err = %v, want wrapped ErrNotFound", err)
	}
}

func TestAuthenticate_RedirectURIOverride(t *testing.T) {
	var gotForm url.Values
	store, provider, port, _ := newFlowFixture(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-1"}`)
	})
	store.SetOAuthConfig("fake", &credstore.OAuthConfig{
		ClientID:     "cid",
		ClientSecret: "csec",
		RedirectURI:  "https://tunnel.example.com/callback",
	})

	var authURL string
	a, err := New(Config{
		Store:        store,
		CallbackPort: port,
		OpenBrowser: func(u string) error {
			authURL = u
			return browserTo(port, "code=c1")(u)
		},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := a.Authenticate(context.Background(), provider, "alice", nil); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("invalid auth URL: %v", err)
	}
	if got := parsed.Query().Get("redirect_uri"); got != "https://tunnel.example.com/callback" {
		t.Errorf("authorize redirect_uri = %q, want the configured override", got)
	}
	if got := gotForm.Get("redirect_uri"); got != "https://tunnel.example.com/callback" {
		t.Errorf("token redirect_uri = %q, want the configured override", got)
	}
}

func TestAuthenticate_VerifierRecoveredFromState(t *testing.T) {
	var gotForm url.Values
	store, provider, port, _ := newFlowFixture(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-1"}`)
	})

	state := url.QueryEscape(`{"code_verifier":"v-123"}`)
	a, err := New(Config{
		Store:        store,
		CallbackPort: port,
		OpenBrowser:  browserTo(port, "code=c1&state="+state),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := a.Authenticate(context.Background(), provider, "alice", nil); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}

	if got := gotForm.Get("code_verifier"); got != "v-123" {
		t.Errorf("code_verifier = %q, want v-123", got)
	}
}

func TestAuthenticate_BrowserFailureContinues(t *testing.T) {
	store, provider, port, _ := newFlowFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at-1"}`)
	})

	driveCallback := browserTo(port, "code=c1")
	a, err := New(Config{
		Store:        store,
		CallbackPort: port,
		OpenBrowser: func(u string) error {
			// Simulate a headless host: opening fails but the user follows
			// the logged URL by hand.
			_ = driveCallback(u)
			return errors.New("no display")
		},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	creds, err := a.Authenticate(context.Background(), provider, "alice", nil)
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if creds.AccessToken != "at-1" {
		t.Errorf("AccessToken = %q, want at-1", creds.AccessToken)
	}
}
