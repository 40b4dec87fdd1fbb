// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "subcrack"

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

// DefaultDataDir returns the directory holding frequency files.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), appName, "data")
}

// DefaultMonogramPath returns the default monogram frequency file.
func DefaultMonogramPath() string {
	return filepath.Join(DefaultDataDir(), "english_monograms.txt")
}

// DefaultNgramPath returns the default quadgram frequency file.
func DefaultNgramPath() string {
	return filepath.Join(DefaultDataDir(), "english_quadgrams.txt")
}

// DefaultBigramPath returns the default bigram frequency file.
func DefaultBigramPath() string {
	return filepath.Join(DefaultDataDir(), "english_bigrams.txt")
}

// DefaultCorpusCacheDir returns the cache directory for downloaded corpora.
func DefaultCorpusCacheDir() string {
	return filepath.Join(XDGDataHome(), appName, "corpus")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
