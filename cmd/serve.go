package cmd

import (
	"github.com/spf13/cobra"

	"toolbridge/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve credential tools over MCP stdio",
	Long: `Serve the credential subsystem as an MCP server on stdio.

The server exposes the auth_status and get_access_token tools so
MCP-capable clients can query credential state and obtain access
tokens programmatically.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	authenticator, store, err := buildAuthenticator()
	if err != nil {
		return err
	}

	s := server.NewMCPServer(authenticator, store, GetVersion())
	return s.Start(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
