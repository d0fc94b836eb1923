package credstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsMarshalRoundTrip(t *testing.T) {
	creds := &Credentials{
		AccessToken:  "at-123",
		RefreshToken: "rt-456",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		ExpiresAt:    1700003600,
		Scope:        "read write",
		Extra: map[string]any{
			"workspace_id":   "ws-789",
			"workspace_name": "Acme",
		},
	}

	data, err := json.Marshal(creds)
	require.NoError(t, err)

	var got Credentials
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, creds.AccessToken, got.AccessToken)
	assert.Equal(t, creds.RefreshToken, got.RefreshToken)
	assert.Equal(t, creds.TokenType, got.TokenType)
	assert.Equal(t, creds.ExpiresIn, got.ExpiresIn)
	assert.Equal(t, creds.ExpiresAt, got.ExpiresAt)
	assert.Equal(t, creds.Scope, got.Scope)
	assert.Equal(t, "ws-789", got.Extra["workspace_id"])
	assert.Equal(t, "Acme", got.Extra["workspace_name"])
}

func TestCredentialsMarshalFlattensExtra(t *testing.T) {
	creds := &Credentials{
		AccessToken: "at-123",
		Extra:       map[string]any{"hub_id": "h-1"},
	}

	data, err := json.Marshal(creds)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))

	// Extra fields sit at the top level, not under a nested key.
	assert.Equal(t, "h-1", flat["hub_id"])
	assert.NotContains(t, flat, "Extra")
}

func TestCredentialsMarshalOmitsEmptyFields(t *testing.T) {
	creds := &Credentials{AccessToken: "at-123"}

	data, err := json.Marshal(creds)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))

	assert.Equal(t, "at-123", flat["access_token"])
	assert.NotContains(t, flat, "refresh_token")
	assert.NotContains(t, flat, "token_type")
	assert.NotContains(t, flat, "expires_in")
	assert.NotContains(t, flat, "expires_at")
	assert.NotContains(t, flat, "scope")
}

func TestCredentialsUnmarshalCollectsUnknownFields(t *testing.T) {
	raw := `{
		"access_token": "at-1",
		"token_type": "Bearer",
		"team_id": "T1",
		"team_name": "Eng"
	}`

	var creds Credentials
	require.NoError(t, json.Unmarshal([]byte(raw), &creds))

	assert.Equal(t, "at-1", creds.AccessToken)
	assert.Equal(t, "Bearer", creds.TokenType)
	assert.Equal(t, "T1", creds.Extra["team_id"])
	assert.Equal(t, "Eng", creds.Extra["team_name"])
	assert.NotContains(t, creds.Extra, "access_token")
}

func TestCredentialsHasExpiry(t *testing.T) {
	assert.False(t, (&Credentials{}).HasExpiry())
	assert.True(t, (&Credentials{ExpiresAt: time.Now().Unix()}).HasExpiry())
}

func TestCredentialsExpiresWithin(t *testing.T) {
	now := time.Now()

	nonExpiring := &Credentials{AccessToken: "at"}
	assert.False(t, nonExpiring.ExpiresWithin(5*time.Minute))

	fresh := &Credentials{ExpiresAt: now.Add(time.Hour).Unix()}
	assert.False(t, fresh.ExpiresWithin(5*time.Minute))

	nearExpiry := &Credentials{ExpiresAt: now.Add(time.Minute).Unix()}
	assert.True(t, nearExpiry.ExpiresWithin(5*time.Minute))

	expired := &Credentials{ExpiresAt: now.Add(-time.Minute).Unix()}
	assert.True(t, expired.ExpiresWithin(5*time.Minute))
}

func TestCredentialsToken(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Unix()
	creds := &Credentials{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		Extra:        map[string]any{"hub_id": "h-1"},
	}

	tok := creds.Token()
	assert.Equal(t, "at-1", tok.AccessToken)
	assert.Equal(t, "rt-1", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, time.Unix(expiresAt, 0), tok.Expiry)
	assert.Equal(t, "h-1", tok.Extra("hub_id"))
}
