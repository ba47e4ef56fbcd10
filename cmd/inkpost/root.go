// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Inkpost CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inkpost",
		Short: "Inkpost - a content publishing server",
		Long: `Inkpost serves the publishing API: accounts, cookie-based
sessions, posts and comments, backed by PostgreSQL.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.PersistentPreRun = func(*cobra.Command, []string) {
		if configFile == "" {
			configFile = xdg.DefaultConfigFile()
		}
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
