package cmd

import (
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"toolbridge/internal/providers"
)

// Login-specific flags
var loginScopes []string

// authLoginCmd represents the auth login command.
var authLoginCmd = &cobra.Command{
	Use:   "login <service>",
	Short: "Authenticate to a connector service",
	Long: `Authenticate to a connector service using OAuth.

This command opens the provider's authorization page in your browser,
captures the redirect on a local listener, exchanges the authorization
code for tokens, and stores them for later use.

Examples:
  toolbridge auth login linear                   # Login with default scopes
  toolbridge auth login slack --scope chat:write # Login with specific scopes
  toolbridge auth login hubspot --user alice     # Store under a different user`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: providers.Names(),
	RunE:      runAuthLogin,
}

func init() {
	authLoginCmd.Flags().StringSliceVar(&loginScopes, "scope", nil, "OAuth scopes to request (default: the service's standard scopes)")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	service := args[0]

	entry, err := providers.Lookup(service)
	if err != nil {
		return err
	}

	scopes := loginScopes
	if len(scopes) == 0 {
		scopes = entry.DefaultScopes
	}

	authenticator, _, err := buildAuthenticator()
	if err != nil {
		return err
	}

	var s *spinner.Spinner
	if !authQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Waiting for authorization in your browser..."
		s.Start()
	}

	creds, err := authenticator.Authenticate(cmd.Context(), entry.Provider, authUser, scopes)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	authPrint("%s Authenticated to %s\n", text.FgGreen.Sprint("✓"), service)
	if creds.HasExpiry() {
		authPrint("  Token expires: %s\n", time.Unix(creds.ExpiresAt, 0).Format(time.RFC1123))
	} else {
		authPrintln("  Token does not expire")
	}
	if creds.Scope != "" {
		authPrint("  Scopes: %s\n", creds.Scope)
	} else if len(scopes) > 0 {
		authPrint("  Scopes: %s\n", strings.Join(scopes, " "))
	}
	return nil
}
