// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-tracker CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-tracker/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds optional scrape credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the citation-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-tracker",
	Short: "Track citation metrics for an author profile over time",
	Long: `citation-tracker scrapes a public author profile page, appends a dated
snapshot of citation metrics to a local SQLite database, and renders trend
charts from the accumulated history.

Run fetch on a schedule (cron or similar); plot-total, plot-publications,
and export read whatever history has accumulated. The program never
schedules, queues, or retries on its own: if the upstream throttles a
fetch, the fix is a lower invocation frequency.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-tracker.yaml or ~/.config/citation-tracker/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite history database file (default: citations.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-tracker"))
		}
	}

	viper.SetEnvPrefix("CITATION_TRACKER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the history database location: --db flag first, then
// config, then the default next to the working directory.
func dbPath() string {
	if p, _ := rootCmd.PersistentFlags().GetString("db"); p != "" {
		return p
	}
	if p := viper.GetString("store.path"); p != "" {
		return p
	}
	return "citations.db"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
