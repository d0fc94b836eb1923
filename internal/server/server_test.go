package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbridge/internal/credstore"
	"toolbridge/internal/oauth"
	"toolbridge/pkg/auth"
)

func newTestServer(t *testing.T) (*MCPServer, *credstore.MemoryStore) {
	t.Helper()

	store := credstore.NewMemoryStore()
	authenticator, err := oauth.New(oauth.Config{Store: store})
	require.NoError(t, err)

	return NewMCPServer(authenticator, store, "test"), store
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return tc.Text
}

func TestHandleGetAccessToken(t *testing.T) {
	s, store := newTestServer(t)
	store.SetOAuthConfig("linear", &credstore.OAuthConfig{ClientID: "c", ClientSecret: "s"})
	require.NoError(t, store.SaveCredentials("linear", "alice", &credstore.Credentials{
		AccessToken: "lin-at",
	}))

	result, err := s.handleGetAccessToken(context.Background(), toolRequest(map[string]any{
		"service": "linear",
		"user":    "alice",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "lin-at", resultText(t, result))
}

func TestHandleGetAccessToken_FullRecord(t *testing.T) {
	s, store := newTestServer(t)
	store.SetOAuthConfig("attio", &credstore.OAuthConfig{ClientID: "c", ClientSecret: "s"})
	require.NoError(t, store.SaveCredentials("attio", "alice", &credstore.Credentials{
		AccessToken: "at-1",
		Extra:       map[string]any{"workspace_id": "ws-1"},
	}))

	result, err := s.handleGetAccessToken(context.Background(), toolRequest(map[string]any{
		"service": "attio",
		"user":    "alice",
		"full":    true,
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var record credstore.Credentials
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &record))
	assert.Equal(t, "at-1", record.AccessToken)
	assert.Equal(t, "ws-1", record.Extra["workspace_id"])
}

func TestHandleGetAccessToken_UnknownService(t *testing.T) {
	s, _ := newTestServer(t)

	result, err := s.handleGetAccessToken(context.Background(), toolRequest(map[string]any{
		"service": "salesforce",
		"user":    "alice",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetAccessToken_NotAuthenticated(t *testing.T) {
	s, store := newTestServer(t)
	store.SetOAuthConfig("linear", &credstore.OAuthConfig{ClientID: "c", ClientSecret: "s"})

	result, err := s.handleGetAccessToken(context.Background(), toolRequest(map[string]any{
		"service": "linear",
		"user":    "alice",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleAuthStatus(t *testing.T) {
	s, store := newTestServer(t)
	store.SetOAuthConfig("linear", &credstore.OAuthConfig{ClientID: "c", ClientSecret: "s"})
	require.NoError(t, store.SaveCredentials("linear", "alice", &credstore.Credentials{
		AccessToken: "lin-at",
	}))

	result, err := s.handleAuthStatus(context.Background(), toolRequest(map[string]any{
		"user": "alice",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var statuses []auth.ServiceStatus
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &statuses))

	byName := make(map[string]auth.ServiceStatus, len(statuses))
	for _, st := range statuses {
		byName[st.Service] = st
	}
	assert.True(t, byName["linear"].Authenticated)
	assert.False(t, byName["linear"].Expired)
	assert.False(t, byName["slack"].Configured)
}
