package oauth

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultCallbackPort is the default port for the local OAuth callback
// server. OAuth apps for the supported services are registered with
// http://localhost:8080 as their redirect URI.
const DefaultCallbackPort = 8080

// CallbackTimeout is how long the flow driver waits for the provider
// redirect before giving up. Re-running the whole flow is the only
// recovery after a timeout.
const CallbackTimeout = 120 * time.Second

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

// CallbackResult represents the single captured OAuth redirect.
type CallbackResult struct {
	// Code is the authorization code from the OAuth provider.
	Code string

	// State is the state parameter echoed back by the provider.
	State string

	// Error is the error code if the authorization failed, or the
	// generic "No code or error received" when the redirect carried
	// neither.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string

	// CodeVerifier is the PKCE verifier recovered from a JSON state
	// payload, for providers that round-trip it through the redirect.
	CodeVerifier string
}

// IsError returns true if the callback result represents an error.
func (r *CallbackResult) IsError() bool {
	return r.Error != ""
}

// CallbackServer is a short-lived local HTTP server that captures
// exactly one OAuth redirect, renders a confirmation page, and shuts
// down. Exactly one authorization flow may be in flight per port.
type CallbackServer struct {
	port     int
	server   *http.Server
	listener net.Listener
	resultCh chan *CallbackResult
	errorCh  chan error
	once     sync.Once
}

// NewCallbackServer creates a callback server on the specified port.
// If port is 0, an ephemeral port is chosen on Start; the flow driver
// passes DefaultCallbackPort unless configured otherwise.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:     port,
		resultCh: make(chan *CallbackResult, 1),
		errorCh:  make(chan error, 1),
	}
}

// Start binds the port and begins listening for the OAuth redirect.
// The server stops when the context is cancelled or after the first
// redirect has been handled.
func (s *CallbackServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("localhost:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		// Browsers probe this while rendering the landing page.
		w.WriteHeader(http.StatusNoContent)
	})
	// Providers redirect to the bare root path, so the handler is
	// mounted at "/" rather than a dedicated callback path.
	mux.HandleFunc("/", s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// WaitForCallback blocks until the redirect arrives, the server fails,
// or the context expires.
func (s *CallbackServer) WaitForCallback(ctx context.Context) (*CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleCallback handles the OAuth redirect request. Only the first
// request has any effect.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

// processCallback parses the redirect query and writes the
// confirmation page. Called exactly once via sync.Once.
func (s *CallbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()
	result := &CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	switch {
	case result.Code != "":
		// Providers that thread the PKCE verifier through the redirect
		// encode it as JSON in the state parameter.
		if result.State != "" {
			var stateData struct {
				CodeVerifier string `json:"code_verifier"`
			}
			if err := json.Unmarshal([]byte(result.State), &stateData); err == nil {
				result.CodeVerifier = stateData.CodeVerifier
			}
		}
	case result.Error != "":
	default:
		result.Error = "No code or error received"
	}

	var tmpl *template.Template
	var data any

	if result.IsError() {
		tmpl = template.Must(template.New("error").Parse(callbackErrorHTML))
		data = map[string]string{
			"Error":       result.Error,
			"Description": result.ErrorDescription,
		}
	} else {
		tmpl = template.Must(template.New("success").Parse(callbackSuccessHTML))
		data = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	select {
	case s.resultCh <- result:
	default:
	}

	// Shut down once the response has had time to flush.
	go func() {
		time.Sleep(1 * time.Second)
		s.Stop()
	}()
}

// Stop gracefully shuts down the callback server.
func (s *CallbackServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

// RedirectURI returns the redirect URI the provider should be given.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}
