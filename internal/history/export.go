// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportSnapshot pairs one dated profile observation with that date's
// publication rows.
type ExportSnapshot struct {
	FetchDate      string `json:"fetch_date" yaml:"fetch_date"`
	CapturedAt     string `json:"captured_at,omitempty" yaml:"captured_at,omitempty"`
	AuthorName     string `json:"author_name" yaml:"author_name"`
	TotalCitations int    `json:"total_citations" yaml:"total_citations"`
	HIndex         int    `json:"h_index" yaml:"h_index"`
	I10Index       int    `json:"i10_index" yaml:"i10_index"`

	Publications []ExportPublication `json:"publications" yaml:"publications"`
}

// ExportPublication is one publication's count within an export snapshot.
type ExportPublication struct {
	Title     string `json:"title" yaml:"title"`
	Citations int    `json:"citations" yaml:"citations"`
}

// Export is the full recorded history for one author.
type Export struct {
	AuthorID  string           `json:"author_id" yaml:"author_id"`
	Snapshots []ExportSnapshot `json:"snapshots" yaml:"snapshots"`
}

// ExportYAML writes the author's full history to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, authorID, path string) error {
	export, err := s.exportHistory(ctx, authorID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(export)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the author's full history to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, authorID, path string) error {
	export, err := s.exportHistory(ctx, authorID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportHistory(ctx context.Context, authorID string) (Export, error) {
	profiles, err := s.TotalHistory(ctx, authorID)
	if err != nil {
		return Export{}, err
	}

	export := Export{
		AuthorID:  authorID,
		Snapshots: make([]ExportSnapshot, len(profiles)),
	}
	for i, p := range profiles {
		fetchDate := p.FetchDate.Format(dateLayout)
		pubs, err := s.PublicationRows(ctx, authorID, fetchDate)
		if err != nil {
			return Export{}, err
		}

		snap := ExportSnapshot{
			FetchDate:      fetchDate,
			AuthorName:     p.AuthorName,
			TotalCitations: p.TotalCitations,
			HIndex:         p.HIndex,
			I10Index:       p.I10Index,
			Publications:   make([]ExportPublication, len(pubs)),
		}
		if !p.CapturedAt.IsZero() {
			snap.CapturedAt = p.CapturedAt.Format(time.RFC3339)
		}
		for j, pub := range pubs {
			snap.Publications[j] = ExportPublication{Title: pub.Title, Citations: pub.Citations}
		}
		export.Snapshots[i] = snap
	}

	return export, nil
}
