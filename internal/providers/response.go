package providers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"toolbridge/internal/credstore"
)

// payload is a provider token response in its raw JSON shape.
type payload map[string]any

func parsePayload(body []byte) (payload, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("invalid token response: %w", err)
	}
	return p, nil
}

func (p payload) str(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p payload) strDefault(key, def string) string {
	if s := p.str(key); s != "" {
		return s
	}
	return def
}

func (p payload) int64(key string) int64 {
	switch n := p[key].(type) {
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}

// errorMessage renders the provider-reported error, if any, as
// "error: description".
func (p payload) errorMessage() string {
	if _, ok := p["error"]; !ok {
		return ""
	}
	msg := p.strDefault("error", "Unknown error")
	if desc := p.str("error_description"); desc != "" {
		msg += ": " + desc
	}
	return msg
}

// extras collects the named keys that are present into an opaque map
// for the credential record.
func (p payload) extras(keys ...string) map[string]any {
	var m map[string]any
	for _, key := range keys {
		if v, ok := p[key]; ok && v != nil {
			if m == nil {
				m = make(map[string]any)
			}
			m[key] = v
		}
	}
	return m
}

// allExtras collects every key the normalized record does not own, for
// providers whose whole response is preserved.
func (p payload) allExtras() map[string]any {
	owned := map[string]struct{}{
		"access_token": {}, "refresh_token": {}, "token_type": {},
		"expires_in": {}, "expires_at": {}, "scope": {},
	}
	var m map[string]any
	for key, v := range p {
		if _, ok := owned[key]; ok {
			continue
		}
		if m == nil {
			m = make(map[string]any)
		}
		m[key] = v
	}
	return m
}

// basicAuthHeaders builds the Basic-auth token-request headers used by
// providers that authenticate the client via the Authorization header
// instead of body fields.
func basicAuthHeaders(cfg *credstore.OAuthConfig) http.Header {
	creds := base64.StdEncoding.EncodeToString([]byte(cfg.ClientID + ":" + cfg.ClientSecret))
	h := http.Header{}
	h.Set("Authorization", "Basic "+creds)
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	return h
}
