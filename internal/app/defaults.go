package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseURLEnv overrides the configured base URL when the import command gets none.
const BaseURLEnv = "MANUALES_BASE_URL"

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - MANUALS_CONFIG_PATH: config file location (default: ~/.config/manuals.toml)
//   - MANUALS_HOME: base directory for manuals data (default: ~/.local/share/manuals)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking MANUALS_CONFIG_PATH first,
// then falling back to the default ~/.config/manuals.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("MANUALS_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "manuals.toml"), nil
}

// getBaseDir returns the base directory for manuals data, checking MANUALS_HOME first,
// then falling back to the XDG default ~/.local/share/manuals.
func getBaseDir() (string, error) {
	if path := os.Getenv("MANUALS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "manuals"), nil
}

// resolveBaseURL picks the lesson URL prefix: the explicit argument, then
// MANUALES_BASE_URL, then the configured value. Empty is allowed.
func resolveBaseURL(arg, configured string) string {
	if arg != "" {
		return arg
	}
	if env := os.Getenv(BaseURLEnv); env != "" {
		return env
	}
	return configured
}
