// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-tracker/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{
		Path: filepath.Join(t.TempDir(), "citations.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot(fetchDate string) types.AuthorSnapshot {
	return types.AuthorSnapshot{
		AuthorID:       "ABC123",
		AuthorName:     "Ada Lovelace",
		FetchDate:      fetchDate,
		CapturedAt:     time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
		TotalCitations: 120,
		HIndex:         5,
		I10Index:       3,
		Publications: []types.PublicationCount{
			{Title: "Paper A", Citations: 50},
			{Title: "Paper B", Citations: 70},
		},
	}
}

func record(t *testing.T, store *Store, snap types.AuthorSnapshot) {
	t.Helper()
	if err := store.RecordSnapshot(context.Background(), snap); err != nil {
		t.Fatal(err)
	}
}

// --- RecordSnapshot ---

func TestRecordSnapshotRowCounts(t *testing.T) {
	store := testStore(t)
	record(t, store, sampleSnapshot("2026-08-29"))

	profiles, err := store.TotalHistory(context.Background(), "ABC123")
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profile rows, want 1", len(profiles))
	}
	p := profiles[0]
	if p.TotalCitations != 120 || p.HIndex != 5 || p.I10Index != 3 {
		t.Errorf("profile row = (%d, %d, %d), want (120, 5, 3)",
			p.TotalCitations, p.HIndex, p.I10Index)
	}
	if got := p.FetchDate.Format(dateLayout); got != "2026-08-29" {
		t.Errorf("fetch date = %s, want 2026-08-29", got)
	}

	pubs, err := store.PublicationRows(context.Background(), "ABC123", "2026-08-29")
	if err != nil {
		t.Fatal(err)
	}
	if len(pubs) != 2 {
		t.Fatalf("got %d publication rows, want 2", len(pubs))
	}
	// Ordered by citation count descending.
	if pubs[0].Title != "Paper B" || pubs[0].Citations != 70 {
		t.Errorf("first row = %+v, want Paper B / 70", pubs[0])
	}
	if pubs[1].Title != "Paper A" || pubs[1].Citations != 50 {
		t.Errorf("second row = %+v, want Paper A / 50", pubs[1])
	}
}

// Same-date policy: the second recording replaces the first entirely.
func TestRecordSnapshotSameDayReplaces(t *testing.T) {
	store := testStore(t)
	record(t, store, sampleSnapshot("2026-08-29"))

	second := sampleSnapshot("2026-08-29")
	second.TotalCitations = 130
	second.Publications = []types.PublicationCount{{Title: "Paper A", Citations: 55}}
	record(t, store, second)

	profiles, err := store.TotalHistory(context.Background(), "ABC123")
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profile rows, want 1", len(profiles))
	}
	if profiles[0].TotalCitations != 130 {
		t.Errorf("total citations = %d, want 130 (second fetch)", profiles[0].TotalCitations)
	}

	pubs, err := store.PublicationRows(context.Background(), "ABC123", "2026-08-29")
	if err != nil {
		t.Fatal(err)
	}
	if len(pubs) != 1 || pubs[0].Title != "Paper A" || pubs[0].Citations != 55 {
		t.Errorf("publication rows = %+v, want only Paper A / 55", pubs)
	}
}

func TestRecordSnapshotValidation(t *testing.T) {
	store := testStore(t)

	noID := sampleSnapshot("2026-08-29")
	noID.AuthorID = ""
	if err := store.RecordSnapshot(context.Background(), noID); err == nil {
		t.Error("RecordSnapshot without author ID should error")
	}

	badDate := sampleSnapshot("29/08/2026")
	if err := store.RecordSnapshot(context.Background(), badDate); err == nil {
		t.Error("RecordSnapshot with malformed date should error")
	}
}

func TestRecordSnapshotIsolatesAuthors(t *testing.T) {
	store := testStore(t)
	record(t, store, sampleSnapshot("2026-08-29"))

	other := sampleSnapshot("2026-08-29")
	other.AuthorID = "XYZ789"
	other.TotalCitations = 7
	record(t, store, other)

	profiles, err := store.TotalHistory(context.Background(), "XYZ789")
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 || profiles[0].TotalCitations != 7 {
		t.Errorf("profiles for XYZ789 = %+v, want one row with total 7", profiles)
	}
}

// --- TotalHistory ---

func TestTotalHistoryOrderedRoundTrip(t *testing.T) {
	store := testStore(t)

	// Recorded out of order; read back ascending.
	d2 := sampleSnapshot("2026-08-30")
	d2.TotalCitations = 125
	record(t, store, d2)
	record(t, store, sampleSnapshot("2026-08-29"))

	profiles, err := store.TotalHistory(context.Background(), "ABC123")
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d rows, want 2", len(profiles))
	}
	if !profiles[0].FetchDate.Before(profiles[1].FetchDate) {
		t.Errorf("dates not ascending: %v, %v", profiles[0].FetchDate, profiles[1].FetchDate)
	}
	if profiles[0].TotalCitations != 120 || profiles[1].TotalCitations != 125 {
		t.Errorf("totals = (%d, %d), want (120, 125)",
			profiles[0].TotalCitations, profiles[1].TotalCitations)
	}
}

func TestTotalHistoryEmpty(t *testing.T) {
	store := testStore(t)
	_, err := store.TotalHistory(context.Background(), "ABC123")
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("TotalHistory() error = %v, want ErrNoHistory", err)
	}
}

// --- PublicationHistory ---

func TestPublicationHistoryTopN(t *testing.T) {
	store := testStore(t)

	snap := sampleSnapshot("2026-08-29")
	snap.Publications = []types.PublicationCount{
		{Title: "Paper A", Citations: 50},
		{Title: "Paper B", Citations: 70},
		{Title: "Paper C", Citations: 10},
		{Title: "Paper D", Citations: 90},
	}
	record(t, store, snap)

	series, err := store.PublicationHistory(context.Background(), "ABC123", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(series.Counts) != 3 {
		t.Fatalf("got %d series, want 3", len(series.Counts))
	}
	for _, title := range []string{"Paper D", "Paper B", "Paper A"} {
		if _, ok := series.Counts[title]; !ok {
			t.Errorf("top-3 series missing %q", title)
		}
	}
	if _, ok := series.Counts["Paper C"]; ok {
		t.Error("Paper C should be cut by the top-3 ranking")
	}
}

// A title absent on one date carries 0 for that timeline entry; a
// two-point series reads back in date order.
func TestPublicationHistoryAlignment(t *testing.T) {
	store := testStore(t)

	d1 := sampleSnapshot("2026-08-29")
	d1.Publications = []types.PublicationCount{{Title: "Paper A", Citations: 50}}
	record(t, store, d1)

	d2 := sampleSnapshot("2026-08-30")
	d2.Publications = []types.PublicationCount{
		{Title: "Paper A", Citations: 55},
		{Title: "Paper B", Citations: 70},
	}
	record(t, store, d2)

	series, err := store.PublicationHistory(context.Background(), "ABC123", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(series.Timeline) != 2 {
		t.Fatalf("timeline length = %d, want 2", len(series.Timeline))
	}
	if got := series.Counts["Paper A"]; len(got) != 2 || got[0] != 50 || got[1] != 55 {
		t.Errorf("Paper A series = %v, want [50 55]", got)
	}
	if got := series.Counts["Paper B"]; len(got) != 2 || got[0] != 0 || got[1] != 70 {
		t.Errorf("Paper B series = %v, want [0 70]", got)
	}
}

func TestPublicationHistoryEmpty(t *testing.T) {
	store := testStore(t)
	_, err := store.PublicationHistory(context.Background(), "ABC123", 10)
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("PublicationHistory() error = %v, want ErrNoHistory", err)
	}
}

func TestPublicationHistoryRejectsNonPositiveTop(t *testing.T) {
	store := testStore(t)
	record(t, store, sampleSnapshot("2026-08-29"))

	for _, top := range []int{0, -1} {
		if _, err := store.PublicationHistory(context.Background(), "ABC123", top); err == nil {
			t.Errorf("top=%d should error", top)
		}
	}
}

// --- export ---

func TestExportYAML(t *testing.T) {
	store := testStore(t)
	record(t, store, sampleSnapshot("2026-08-29"))

	path := filepath.Join(t.TempDir(), "history.yaml")
	if err := store.ExportYAML(context.Background(), "ABC123", path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export Export
	if err := yaml.Unmarshal(data, &export); err != nil {
		t.Fatal(err)
	}
	if export.AuthorID != "ABC123" || len(export.Snapshots) != 1 {
		t.Fatalf("export = %+v, want one ABC123 snapshot", export)
	}
	snap := export.Snapshots[0]
	if snap.FetchDate != "2026-08-29" || snap.TotalCitations != 120 || len(snap.Publications) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestExportJSON(t *testing.T) {
	store := testStore(t)
	record(t, store, sampleSnapshot("2026-08-29"))

	path := filepath.Join(t.TempDir(), "history.json")
	if err := store.ExportJSON(context.Background(), "ABC123", path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatal(err)
	}
	if len(export.Snapshots) != 1 || export.Snapshots[0].AuthorName != "Ada Lovelace" {
		t.Errorf("export = %+v", export)
	}
}

func TestExportEmpty(t *testing.T) {
	store := testStore(t)
	path := filepath.Join(t.TempDir(), "history.yaml")
	err := store.ExportYAML(context.Background(), "ABC123", path)
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("ExportYAML() error = %v, want ErrNoHistory", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("export file should not be written for empty history")
	}
}
