// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-tracker/internal/history"
	"github.com/pdiddy/citation-tracker/internal/scholar"
	"github.com/pdiddy/citation-tracker/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the author profile and record a dated snapshot",
	Long: `Fetch scrapes the author's public profile page, including every
publication page, and appends one dated snapshot to the history database.
Re-running fetch on the same calendar date replaces that date's snapshot.

A throttled or blocked request fails the command with nothing recorded;
the expected mitigation is fetching less often.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	authorID, _ := cmd.Flags().GetString("author-id")
	if strings.TrimSpace(authorID) == "" {
		return fmt.Errorf("--author-id is required and must not be blank")
	}

	client := scholar.NewClient(scrapeConfig())
	snap, err := client.FetchAuthor(context.Background(), authorID)
	if err != nil {
		return err
	}

	store, err := history.NewStore(types.StoreConfig{Path: dbPath()})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RecordSnapshot(context.Background(), snap); err != nil {
		return err
	}

	summary := struct {
		Author           string `json:"author"`
		FetchDate        string `json:"fetch_date"`
		TotalCitations   int    `json:"total_citations"`
		HIndex           int    `json:"h_index"`
		I10Index         int    `json:"i10_index"`
		PublicationCount int    `json:"publication_count"`
	}{
		Author:           snap.AuthorName,
		FetchDate:        snap.FetchDate,
		TotalCitations:   snap.TotalCitations,
		HIndex:           snap.HIndex,
		I10Index:         snap.I10Index,
		PublicationCount: len(snap.Publications),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// scrapeConfig assembles fetch settings from config, secrets, and defaults.
func scrapeConfig() types.ScrapeConfig {
	timeout := viper.GetDuration("scrape.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	userAgent := viper.GetString("scrape.user_agent")
	if userAgent == "" {
		userAgent = loadedSecrets["scholar-user-agent"]
	}
	if userAgent == "" {
		userAgent = "citation-tracker/" + version
	}

	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		PageSize:  viper.GetInt("scrape.page_size"),
		PageDelay: viper.GetDuration("scrape.page_delay"),
		Cookie:    loadedSecrets["scholar-cookie"],
	}
}

func init() {
	fetchCmd.Flags().String("author-id", "", "profile author ID (required)")
	fetchCmd.MarkFlagRequired("author-id")

	rootCmd.AddCommand(fetchCmd)
}
