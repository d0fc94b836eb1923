package credstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultAuthDir is the default directory for OAuth client configs and
// credential records, relative to the user home directory.
const DefaultAuthDir = ".config/toolbridge"

// LocalStore reads and writes credentials as JSON files on disk.
// Used for local development and self-hosted installations.
//
// SECURITY: This store handles sensitive OAuth credentials. Files are
// created with 0600 permissions and directories with 0700, token values
// are never logged, and every write/overwrite emits an audit log line.
//
// Layout:
//
//	<authDir>/oauth_configs/<service>/oauth.json
//	<authDir>/credentials/<service>/<user>.json
type LocalStore struct {
	authDir string
}

// NewLocalStore creates a file-backed store rooted at authDir.
// An empty authDir defaults to ~/.config/toolbridge.
func NewLocalStore(authDir string) (*LocalStore, error) {
	if authDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		authDir = filepath.Join(homeDir, DefaultAuthDir)
	}

	for _, dir := range []string{
		filepath.Join(authDir, "oauth_configs"),
		filepath.Join(authDir, "credentials"),
	} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create auth directory: %w", err)
		}
	}

	return &LocalStore{authDir: authDir}, nil
}

// GetOAuthConfig loads <authDir>/oauth_configs/<service>/oauth.json.
func (s *LocalStore) GetOAuthConfig(service string) (*OAuthConfig, error) {
	path := filepath.Join(s.authDir, "oauth_configs", service, "oauth.json")

	// #nosec G304 -- path is built from an internal service name, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("OAuth config for %s: %w (expected at %s)", service, ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read OAuth config for %s: %w", service, err)
	}

	var cfg OAuthConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse OAuth config for %s: %w", service, err)
	}
	return &cfg, nil
}

// GetCredentials loads the stored record for (service, user).
func (s *LocalStore) GetCredentials(service, user string) (*Credentials, error) {
	path := s.credentialsPath(service, user)

	// #nosec G304 -- path is built from internal identifiers, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials for %s/%s: %w", service, user, err)
	}
	return &creds, nil
}

// SaveCredentials writes the record with owner-only permissions.
// SECURITY: Token values are never logged, only service and user.
func (s *LocalStore) SaveCredentials(service, user string, creds *Credentials) error {
	dir := filepath.Join(s.authDir, "credentials", service)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.credentialsPath(service, user), data, 0600); err != nil {
		slog.Warn("SECURITY_AUDIT: credential write failed",
			"event", "credentials_store_failed",
			"service", service,
			"user", user,
			"error", err.Error(),
		)
		return fmt.Errorf("failed to persist credentials: %w", err)
	}

	slog.Info("SECURITY_AUDIT: credentials stored",
		"event", "credentials_stored",
		"service", service,
		"user", user,
		"has_refresh_token", creds.RefreshToken != "",
		"expires_at", creds.ExpiresAt,
	)
	return nil
}

func (s *LocalStore) credentialsPath(service, user string) string {
	return filepath.Join(s.authDir, "credentials", service, user+".json")
}

// AuthDir returns the root directory the store operates on.
func (s *LocalStore) AuthDir() string {
	return s.authDir
}
