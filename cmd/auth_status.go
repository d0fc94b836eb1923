package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"toolbridge/internal/providers"
	"toolbridge/pkg/auth"
)

// authStatusCmd represents the auth status command.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential status for all services",
	Long: `Show the stored credential state for every supported service.

This command displays which services have an OAuth client configured,
which have stored credentials, and when access tokens expire.

Examples:
  toolbridge auth status                # Show all services
  toolbridge auth status --user alice   # Show status for a different user`,
	RunE: runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	_, store, err := buildAuthenticator()
	if err != nil {
		return err
	}

	statuses := auth.Collect(store, authUser, providers.Names())

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Service", "Configured", "Status", "Expires"})
	for _, status := range statuses {
		t.AppendRow(table.Row{
			status.Service,
			formatConfigured(status.Configured),
			formatCredentialState(status),
			formatExpiry(status),
		})
	}
	t.Render()
	return nil
}

func formatConfigured(configured bool) string {
	if configured {
		return text.FgGreen.Sprint("yes")
	}
	return text.FgHiBlack.Sprint("no")
}

func formatCredentialState(status auth.ServiceStatus) string {
	switch {
	case status.Error != "":
		return text.FgRed.Sprint("error")
	case !status.Authenticated:
		return text.FgYellow.Sprint("not authenticated")
	case status.Expired && !status.Refreshable:
		return text.FgRed.Sprint("expired")
	case status.Expired:
		return text.FgYellow.Sprint("expired (refreshable)")
	default:
		return text.FgGreen.Sprint("authenticated")
	}
}

func formatExpiry(status auth.ServiceStatus) string {
	if !status.Authenticated || status.ExpiresAt == 0 {
		return ""
	}
	expiresAt := time.Unix(status.ExpiresAt, 0)
	if remaining := time.Until(expiresAt); remaining > 0 {
		return "in " + remaining.Round(time.Minute).String()
	}
	return expiresAt.Format(time.RFC1123)
}
