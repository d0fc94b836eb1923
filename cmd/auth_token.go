package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbridge/internal/providers"
)

// authTokenCmd represents the auth token command.
var authTokenCmd = &cobra.Command{
	Use:   "token <service>",
	Short: "Print a valid access token for a service",
	Long: `Print a currently valid access token for a service.

If the stored token is expired or about to expire and a refresh token
is available, it is refreshed first. This command never opens a
browser; run 'toolbridge auth login' when no credentials are stored.

Examples:
  toolbridge auth token linear            # Print a Linear access token
  toolbridge auth token jira --user alice # Token stored under another user`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: providers.Names(),
	RunE:      runAuthToken,
}

func runAuthToken(cmd *cobra.Command, args []string) error {
	service := args[0]

	entry, err := providers.Lookup(service)
	if err != nil {
		return err
	}

	authenticator, _, err := buildAuthenticator()
	if err != nil {
		return err
	}

	token, err := authenticator.AccessToken(cmd.Context(), entry.Provider, authUser)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
