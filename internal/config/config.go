// Package config loads the toolbridge configuration. Settings come
// from config.yaml in the auth directory, with environment variables
// taking precedence so deployments can override a checked-in file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/toolbridge"
	configFileName = "config.yaml"
)

// Environment variable overrides.
const (
	EnvEnvironment  = "ENVIRONMENT"
	EnvAuthDir      = "TOOLBRIDGE_AUTH_DIR"
	EnvCallbackPort = "TOOLBRIDGE_CALLBACK_PORT"
)

// Config holds the runtime settings for the credential subsystem.
type Config struct {
	// Environment gates interactive behavior. Refresh and browser
	// flows only run when this is "local".
	Environment string `yaml:"environment"`

	// AuthDir is the root directory for OAuth client configs and
	// stored credentials.
	AuthDir string `yaml:"authDir"`

	// CallbackPort is the local port the redirect listener binds.
	CallbackPort int `yaml:"callbackPort"`
}

// DefaultAuthDir returns ~/.config/toolbridge.
func DefaultAuthDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, userConfigDir), nil
}

func defaults() (Config, error) {
	authDir, err := DefaultAuthDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Environment:  "local",
		AuthDir:      authDir,
		CallbackPort: 8080,
	}, nil
}

// Load reads config.yaml from authDir (or the default directory when
// authDir is empty) and applies environment overrides. A missing file
// is not an error; defaults are used.
func Load(authDir string) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return Config{}, err
	}
	if authDir != "" {
		cfg.AuthDir = authDir
	}
	if dir := os.Getenv(EnvAuthDir); dir != "" {
		cfg.AuthDir = dir
	}

	path := filepath.Join(cfg.AuthDir, configFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("No config.yaml found, using defaults", "path", path)
	case err != nil:
		return Config{}, fmt.Errorf("could not read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("invalid config in %s: %w", path, err)
		}
		slog.Debug("Loaded configuration", "path", path)
	}

	applyEnvOverrides(&cfg)

	if cfg.CallbackPort <= 0 || cfg.CallbackPort > 65535 {
		return Config{}, fmt.Errorf("invalid callback port %d", cfg.CallbackPort)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if env := os.Getenv(EnvEnvironment); env != "" {
		cfg.Environment = env
	}
	if port := os.Getenv(EnvCallbackPort); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			slog.Warn("Ignoring invalid callback port override", "value", port)
		} else {
			cfg.CallbackPort = n
		}
	}
}
