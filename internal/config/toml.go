// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Mono     MonoConfig     `toml:"mono"`
	Vigenere VigenereConfig `toml:"vigenere"`
	Data     DataConfig     `toml:"data"`
	History  HistoryConfig  `toml:"history"`
}

// MonoConfig maps monoalphabetic search settings.
type MonoConfig struct {
	Restarts *int   `toml:"restarts"`
	Stall    *int   `toml:"stall"`
	Seed     *int64 `toml:"seed"`
}

// VigenereConfig maps Vigenère search settings.
type VigenereConfig struct {
	Parallel *bool `toml:"parallel"`
}

// DataConfig maps frequency file locations.
type DataConfig struct {
	Monograms *string `toml:"monograms"`
	Ngrams    *string `toml:"ngrams"`
	Bigrams   *string `toml:"bigrams"`
}

// HistoryConfig controls recording of break runs.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
