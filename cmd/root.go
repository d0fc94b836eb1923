package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"toolbridge/internal/oauth"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

var (
	rootAuthDir string
	rootDebug   bool
)

// rootCmd represents the base command for the toolbridge application.
var rootCmd = &cobra.Command{
	Use:   "toolbridge",
	Short: "Manage OAuth credentials for SaaS connector servers",
	Long: `toolbridge manages the OAuth credential lifecycle for SaaS connector
servers: browser-based login flows, token storage, and automatic
refresh of expiring access tokens.`,
	// SilenceUsage prevents Cobra from printing the usage message on
	// errors the application already reports.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if rootDebug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// SetVersion sets the version for the root command. Called from the
// main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "toolbridge version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error
// type. This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var authRequired *oauth.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var flowFailed *oauth.FlowError
	if errors.As(err, &flowFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootAuthDir, "auth-dir", "", "Directory for OAuth configs and credentials (default ~/.config/toolbridge)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
}
