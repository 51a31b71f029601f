// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
}

// TestConfig maps typing-test settings. Nil fields were not set in the file.
type TestConfig struct {
	Duration *string `toml:"duration"`
	WordList *string `toml:"wordlist"`
	History  *string `toml:"history"`
	Preview  *int    `toml:"preview"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if _, err := cfg.Test.ParsedDuration(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// ParsedDuration returns the configured test duration, or nil when unset.
func (c TestConfig) ParsedDuration() (*time.Duration, error) {
	if c.Duration == nil {
		return nil, nil
	}
	d, err := time.ParseDuration(*c.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid test.duration %q: %w", *c.Duration, err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("test.duration must be > 0")
	}
	return &d, nil
}
