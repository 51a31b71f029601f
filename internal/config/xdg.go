// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "bunbuntype"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultWordListPath returns the default vocabulary file path.
func DefaultWordListPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "wordlist.txt")
}

// DefaultHistoryPath returns the default path for the result history log.
func DefaultHistoryPath() string {
	return filepath.Join(XDGDataHome(), appDir, "history.jsonl")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}
