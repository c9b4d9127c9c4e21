package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
//   - Linux: ~/.config/ldesign-changelog/config.yml
//   - macOS: ~/Library/Application Support/ldesign-changelog/config.yml
//   - Windows: %APPDATA%\ldesign-changelog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ldesign-changelog", "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ldesign-changelog"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .changelog/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".changelog", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".changelog"
}

// LegacyProjectConfigPath returns the path to the legacy JSON config used
// by earlier releases: .changelogrc.json in the current directory.
func LegacyProjectConfigPath() string {
	return ".changelogrc.json"
}
