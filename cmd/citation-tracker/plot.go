// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-tracker/internal/chart"
	"github.com/pdiddy/citation-tracker/internal/history"
	"github.com/pdiddy/citation-tracker/pkg/types"
)

var plotTotalCmd = &cobra.Command{
	Use:   "plot-total",
	Short: "Plot total citations over time",
	Long: `Plot-total reads every recorded profile snapshot for the author and
renders total citations against fetch date as a line chart.`,
	RunE: runPlotTotal,
}

var plotPublicationsCmd = &cobra.Command{
	Use:   "plot-publications",
	Short: "Plot per-publication citation trends",
	Long: `Plot-publications renders one line per publication over the recorded
history. Publications are ranked by their maximum recorded citation count
and only the top N are drawn.`,
	RunE: runPlotPublications,
}

func runPlotTotal(cmd *cobra.Command, args []string) error {
	authorID, err := requiredAuthorID(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	store, err := history.NewStore(types.StoreConfig{Path: dbPath()})
	if err != nil {
		return err
	}
	defer store.Close()

	points, err := store.TotalHistory(context.Background(), authorID)
	if err != nil {
		return plotErr(err)
	}

	if err := chart.TotalCitations(points, output); err != nil {
		return err
	}
	fmt.Printf("Saved %s (%d snapshots)\n", output, len(points))
	return nil
}

func runPlotPublications(cmd *cobra.Command, args []string) error {
	authorID, err := requiredAuthorID(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	top, _ := cmd.Flags().GetInt("top")
	if !cmd.Flags().Changed("top") {
		top = chartConfig().TopN
	}
	if top <= 0 {
		return fmt.Errorf("--top must be positive, got %d", top)
	}

	store, err := history.NewStore(types.StoreConfig{Path: dbPath()})
	if err != nil {
		return err
	}
	defer store.Close()

	series, err := store.PublicationHistory(context.Background(), authorID, top)
	if err != nil {
		return plotErr(err)
	}

	if err := chart.PublicationTrends(series, output); err != nil {
		return err
	}
	fmt.Printf("Saved %s (%d publications over %d snapshots)\n",
		output, len(series.Counts), len(series.Timeline))
	return nil
}

// chartConfig assembles plot settings from config and defaults.
func chartConfig() types.ChartConfig {
	topN := viper.GetInt("chart.top_n")
	if topN <= 0 {
		topN = 10
	}
	return types.ChartConfig{TopN: topN}
}

func requiredAuthorID(cmd *cobra.Command) (string, error) {
	authorID, _ := cmd.Flags().GetString("author-id")
	if strings.TrimSpace(authorID) == "" {
		return "", fmt.Errorf("--author-id is required and must not be blank")
	}
	return authorID, nil
}

// plotErr rewords the empty-history case with the obvious next step.
func plotErr(err error) error {
	if errors.Is(err, history.ErrNoHistory) {
		return fmt.Errorf("%w: run fetch first", err)
	}
	return err
}

func init() {
	plotTotalCmd.Flags().String("author-id", "", "profile author ID (required)")
	plotTotalCmd.Flags().String("output", "total_citations.png", "output image file")
	plotTotalCmd.MarkFlagRequired("author-id")

	plotPublicationsCmd.Flags().String("author-id", "", "profile author ID (required)")
	plotPublicationsCmd.Flags().Int("top", 10, "number of publications to plot, ranked by max citations")
	plotPublicationsCmd.Flags().String("output", "publication_citations.png", "output image file")
	plotPublicationsCmd.MarkFlagRequired("author-id")

	rootCmd.AddCommand(plotTotalCmd)
	rootCmd.AddCommand(plotPublicationsCmd)
}
