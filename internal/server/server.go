// Package server exposes the credential subsystem over the MCP stdio
// transport so MCP-capable clients can query auth state and obtain
// access tokens without shelling out to the CLI.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"toolbridge/internal/credstore"
	"toolbridge/internal/oauth"
	"toolbridge/internal/providers"
	"toolbridge/pkg/auth"
)

// MCPServer wraps the authenticator and exposes it as MCP tools.
//
// Exposed tools:
//   - auth_status: credential state for every known service
//   - get_access_token: a ready-to-use access token for one service,
//     refreshed first if it is about to expire
type MCPServer struct {
	authenticator *oauth.Authenticator
	store         credstore.Store
	mcpServer     *server.MCPServer
}

// NewMCPServer creates an MCP server over the given authenticator and
// store.
func NewMCPServer(authenticator *oauth.Authenticator, store credstore.Store, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"toolbridge",
		version,
		server.WithToolCapabilities(false),
	)

	s := &MCPServer{
		authenticator: authenticator,
		store:         store,
		mcpServer:     mcpServer,
	}
	s.registerTools()
	return s
}

// Start serves MCP over stdio. It blocks until the client closes the
// connection or ctx is cancelled.
func (s *MCPServer) Start(ctx context.Context) error {
	return server.ServeStdio(s.mcpServer, server.WithStdioContextFunc(
		func(context.Context) context.Context { return ctx },
	))
}

func (s *MCPServer) registerTools() {
	statusTool := mcp.NewTool("auth_status",
		mcp.WithDescription("Show the credential state for every supported service"),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identifier the credentials are stored under"),
		),
	)
	s.mcpServer.AddTool(statusTool, s.handleAuthStatus)

	tokenTool := mcp.NewTool("get_access_token",
		mcp.WithDescription("Get a valid access token for a service, refreshing it if needed"),
		mcp.WithString("service",
			mcp.Required(),
			mcp.Description("Service name, e.g. linear or hubspot"),
		),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User identifier the credentials are stored under"),
		),
		mcp.WithBoolean("full",
			mcp.Description("Return the full credential record as JSON instead of just the token"),
		),
	)
	s.mcpServer.AddTool(tokenTool, s.handleGetAccessToken)
}

func (s *MCPServer) handleAuthStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := request.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user argument is required"), nil
	}

	statuses := auth.Collect(s.store, user, providers.Names())
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *MCPServer) handleGetAccessToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	service, err := request.RequireString("service")
	if err != nil {
		return mcp.NewToolResultError("service argument is required"), nil
	}
	user, err := request.RequireString("user")
	if err != nil {
		return mcp.NewToolResultError("user argument is required"), nil
	}

	entry, err := providers.Lookup(service)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Connectors that need provider-specific fields alongside the token
	// (workspace IDs, Jira cloud IDs, Slack team info) ask for the full
	// record.
	if request.GetBool("full", false) {
		creds, err := s.authenticator.Credentials(ctx, entry.Provider, user)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get credentials: %v", err)), nil
		}
		data, err := json.MarshalIndent(creds, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to format credentials: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	token, err := s.authenticator.AccessToken(ctx, entry.Provider, user)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get access token: %v", err)), nil
	}
	return mcp.NewToolResultText(token), nil
}
