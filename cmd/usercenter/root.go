// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/usercenter/usercenter/internal/config"
	"github.com/usercenter/usercenter/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the usercenter CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usercenter",
		Short: "usercenter - account registration and login service",
		Long: `usercenter manages user accounts: registration, login sessions,
and admin search and delete over an HTTP JSON API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/usercenter/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("usercenter " + versionString())
		},
	}
}

// loadConfig resolves the config file and layers it with the environment and
// the command's flags. An explicit --config must exist; the XDG default may not.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, required := configFile, true
	if path == "" {
		required = false
		defaultPath, err := xdg.DefaultConfigFile()
		if err == nil {
			path = defaultPath
		}
	}
	return config.Load(path, required, cmd.Flags())
}
