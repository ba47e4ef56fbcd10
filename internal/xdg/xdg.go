// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package xdg provides XDG Base Directory paths for Inkpost.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "inkpost"

// ConfigDir returns the XDG config directory for inkpost.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DefaultConfigFile returns the path of the default config file, or ""
// when none exists. Used when no --config flag is given.
func DefaultConfigFile() string {
	path := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
