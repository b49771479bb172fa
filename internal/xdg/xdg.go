// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package xdg resolves XDG Base Directory paths for usercenter.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "usercenter"

// configFileName is looked up under ConfigDir when no --config flag is given.
const configFileName = "config.yaml"

// ConfigDir returns the XDG config directory for usercenter.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// DefaultConfigFile returns the config file path used when none is given.
// The file is not required to exist.
func DefaultConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func homeDir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", oops.Code("XDG_NO_HOME").Wrapf(err, "resolve home directory")
	}
	return home, nil
}
