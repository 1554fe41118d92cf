// Package paths provides a single source of truth for procsim file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. PROCSIM_CONFIG and PROCSIM_LOG_FILE name a file directly
//  2. PROCSIM_DIR sets the base directory (derives config and log paths)
//  3. Default behavior (~/.procsim, ~/.config/procsim) when no env vars are set
package paths

import (
	"os"
	"path/filepath"
)

// Environment variable names for path overrides.
const (
	// EnvBaseDir is the base directory override (e.g., /tmp/procsim-test).
	EnvBaseDir = "PROCSIM_DIR"

	// EnvConfigPath overrides the config file path directly.
	EnvConfigPath = "PROCSIM_CONFIG"

	// EnvLogPath overrides the log file path directly.
	EnvLogPath = "PROCSIM_LOG_FILE"
)

// BaseDir returns the procsim base directory (~/.procsim by default).
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvBaseDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".procsim"), nil
}

// ConfigDir returns the config directory (~/.config/procsim by default).
// When PROCSIM_DIR is set, returns PROCSIM_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvBaseDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "procsim"), nil
}

// ConfigPath returns the path to the config file.
// Precedence: PROCSIM_CONFIG > ConfigDir()/config.toml
func ConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the log file path.
// Precedence: PROCSIM_LOG_FILE > BaseDir()/procsim.log
func LogPath() (string, error) {
	if path := os.Getenv(EnvLogPath); path != "" {
		return path, nil
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "procsim.log"), nil
}
