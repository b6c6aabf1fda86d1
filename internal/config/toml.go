// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the project-local config file looked up by default.
const DefaultFileName = "wordsgen.toml"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Generate GenerateConfig `toml:"generate"`
	History  HistoryConfig  `toml:"history"`
}

// GenerateConfig maps generation settings. Nil fields were not set.
type GenerateConfig struct {
	Input  *string `toml:"input"`
	Output *string `toml:"output"`
	Count  *int    `toml:"count"`
	Name   *string `toml:"name"`
	Strict *bool   `toml:"strict"`
}

// HistoryConfig maps run history settings.
type HistoryConfig struct {
	Enabled *bool   `toml:"enabled"`
	DB      *string `toml:"db"`
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
		return FileConfig{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}
