package credstore

import (
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// Credentials is the normalized credential record persisted per
// (service, user). Provider-specific fields that the core does not
// interpret (workspace_id, hub_id, team_id, ...) are carried opaquely
// in Extra and survive every rewrite of the record.
type Credentials struct {
	// AccessToken is the bearer token used for API calls.
	AccessToken string

	// RefreshToken is the long-lived refresh credential. Only present for
	// services that issue one; never cleared by a refresh response that
	// omits it.
	RefreshToken string

	// TokenType is used verbatim in the Authorization header, typically "Bearer".
	TokenType string

	// ExpiresIn is the lifetime in seconds reported by the provider at
	// issuance or refresh time.
	ExpiresIn int64

	// ExpiresAt is the unix timestamp the access token expires at.
	// Zero for services whose tokens do not expire.
	ExpiresAt int64

	// Scope is the granted scope string as reported by the provider.
	Scope string

	// Extra holds provider-specific fields preserved opaquely.
	Extra map[string]any
}

// knownFields are the keys owned by the normalized record; everything
// else round-trips through Extra.
var knownFields = map[string]struct{}{
	"access_token":  {},
	"refresh_token": {},
	"token_type":    {},
	"expires_in":    {},
	"expires_at":    {},
	"scope":         {},
}

// MarshalJSON flattens Extra into the top-level object so the persisted
// shape matches what the provider returned.
func (c *Credentials) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+6)
	for k, v := range c.Extra {
		if _, owned := knownFields[k]; owned {
			continue
		}
		m[k] = v
	}
	m["access_token"] = c.AccessToken
	if c.RefreshToken != "" {
		m["refresh_token"] = c.RefreshToken
	}
	if c.TokenType != "" {
		m["token_type"] = c.TokenType
	}
	if c.ExpiresIn != 0 {
		m["expires_in"] = c.ExpiresIn
	}
	if c.ExpiresAt != 0 {
		m["expires_at"] = c.ExpiresAt
	}
	if c.Scope != "" {
		m["scope"] = c.Scope
	}
	return json.Marshal(m)
}

// UnmarshalJSON splits the flat provider shape back into the known
// fields and the opaque remainder.
func (c *Credentials) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	c.AccessToken = asString(m["access_token"])
	c.RefreshToken = asString(m["refresh_token"])
	c.TokenType = asString(m["token_type"])
	c.ExpiresIn = asInt64(m["expires_in"])
	c.ExpiresAt = asInt64(m["expires_at"])
	c.Scope = asString(m["scope"])

	c.Extra = nil
	for k, v := range m {
		if _, owned := knownFields[k]; owned {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[k] = v
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}

// HasExpiry reports whether the record carries an expiration timestamp.
// Records without one belong to services whose tokens do not expire.
func (c *Credentials) HasExpiry() bool {
	return c.ExpiresAt != 0
}

// ExpiresWithin reports whether the token expires inside the given buffer.
// Always false for records without an expiry.
func (c *Credentials) ExpiresWithin(buffer time.Duration) bool {
	if !c.HasExpiry() {
		return false
	}
	return time.Now().Add(buffer).Unix() > c.ExpiresAt
}

// Token converts the record to an oauth2.Token, with Extra fields
// attached as token extras.
func (c *Credentials) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
	}
	if c.ExpiresAt != 0 {
		tok.Expiry = time.Unix(c.ExpiresAt, 0)
	}
	if len(c.Extra) > 0 {
		tok = tok.WithExtra(c.Extra)
	}
	return tok
}
