// Package cmd provides the CLI commands for the Beisman Maps server.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beismanmaps/server/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "beisman-maps",
	Short: "Beisman Maps - records management server",
	Long: `Beisman Maps is a records management server for a collection of
physical maps and the entities referenced on them.

It serves a JSON API for browsing, searching, and maintaining map and
entity records, guarded by a single admin account with in-memory sessions.

Quick start:
  1. Create a config file: beisman-maps.yaml
  2. Initialize the database: beisman-maps initdb
  3. Run: beisman-maps start

Configuration:
  Config is loaded from beisman-maps.yaml in the current directory,
  $HOME/.beisman-maps/, or /etc/beisman-maps/.

  Environment variables can override config values with the BEISMAN_MAPS_ prefix.
  Example: BEISMAN_MAPS_SERVER_HTTP_ADDR=:9090

Commands:
  start       Start the server
  initdb      Create the database schema
  config      Manage configuration (config init)
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./beisman-maps.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
