package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbridge/internal/config"
	"toolbridge/internal/credstore"
	"toolbridge/internal/oauth"
)

var (
	authUser  string
	authQuiet bool
)

// authCmd represents the auth command group.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage OAuth credentials for connector services",
	Long: `Manage OAuth credentials for connector services.

The auth command group provides subcommands to run the browser-based
login flow, inspect stored credentials, and print ready-to-use access
tokens.

Examples:
  toolbridge auth login linear          # Run the OAuth flow for Linear
  toolbridge auth status                # Show credential state for all services
  toolbridge auth token hubspot         # Print a valid HubSpot access token`,
}

// authPrint prints output only if the --quiet flag is not set.
func authPrint(format string, args ...interface{}) {
	if !authQuiet {
		fmt.Printf(format, args...)
	}
}

// authPrintln prints a line only if the --quiet flag is not set.
func authPrintln(a ...interface{}) {
	if !authQuiet {
		fmt.Println(a...)
	}
}

// buildAuthenticator wires the configuration, credential store, and
// authenticator used by every auth subcommand.
func buildAuthenticator() (*oauth.Authenticator, credstore.Store, error) {
	cfg, err := config.Load(rootAuthDir)
	if err != nil {
		return nil, nil, err
	}

	store, err := credstore.NewLocalStore(cfg.AuthDir)
	if err != nil {
		return nil, nil, err
	}

	authenticator, err := oauth.New(oauth.Config{
		Store:        store,
		CallbackPort: cfg.CallbackPort,
		Environment:  cfg.Environment,
	})
	if err != nil {
		return nil, nil, err
	}
	return authenticator, store, nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authTokenCmd)

	authCmd.PersistentFlags().StringVar(&authUser, "user", "local", "User identifier credentials are stored under")
	authCmd.PersistentFlags().BoolVarP(&authQuiet, "quiet", "q", false, "Suppress non-essential output")
}
