// Package config reads the optional revgraph configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds CLI settings. Every field has a working default so the
// file is optional.
type Config struct {
	GitBin string `toml:"git_bin"` // git binary for the CLI source
	Limit  int    `toml:"limit"`   // default maximum rows shown by log
	Glyphs string `toml:"glyphs"`  // "ascii" or "unicode" graph glyphs
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		GitBin: "git",
		Limit:  0, // unlimited
		Glyphs: "ascii",
	}
}

// DefaultPath returns the conventional config location, or "" when no
// user config directory exists.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "revgraph", "config.toml")
}

// Load reads the TOML file at path on top of the defaults. A missing
// file (or empty path) returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.GitBin == "" {
		cfg.GitBin = "git"
	}
	if cfg.Glyphs == "" {
		cfg.Glyphs = "ascii"
	}
	return cfg, nil
}
