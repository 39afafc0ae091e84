// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-tracker/internal/history"
	"github.com/pdiddy/citation-tracker/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the recorded history to YAML or JSON",
	Long: `Export writes the author's full snapshot history (profile indicators and
per-publication counts, grouped by fetch date) to a file for offline
analysis.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	authorID, err := requiredAuthorID(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := history.NewStore(types.StoreConfig{Path: dbPath()})
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		if output == "" {
			output = "citation_history.yaml"
		}
		if err := store.ExportYAML(context.Background(), authorID, output); err != nil {
			return plotErr(err)
		}
	case "json":
		if output == "" {
			output = "citation_history.json"
		}
		if err := store.ExportJSON(context.Background(), authorID, output); err != nil {
			return plotErr(err)
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", output)
	return nil
}

func init() {
	exportCmd.Flags().String("author-id", "", "profile author ID (required)")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("output", "", "output file (default: citation_history.<format>)")
	exportCmd.MarkFlagRequired("author-id")

	rootCmd.AddCommand(exportCmd)
}
