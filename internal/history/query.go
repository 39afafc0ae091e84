// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/citation-tracker/pkg/types"
)

// ErrNoHistory reports that the store holds no snapshots for the requested
// author. Plot and export commands surface it and exit non-zero without
// producing output.
var ErrNoHistory = errors.New("no snapshots recorded")

// TotalHistory returns every profile snapshot for the author, ordered by
// fetch date ascending.
func (s *Store) TotalHistory(ctx context.Context, authorID string) ([]types.ProfileSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author_id, fetch_date, author_name, captured_at,
			total_citations, h_index, i10_index
		 FROM profile_snapshots
		 WHERE author_id = ?
		 ORDER BY fetch_date`, authorID)
	if err != nil {
		return nil, fmt.Errorf("querying profile snapshots: %w", err)
	}
	defer rows.Close()

	var out []types.ProfileSnapshot
	for rows.Next() {
		var (
			p                     types.ProfileSnapshot
			fetchDate, capturedAt string
		)
		if err := rows.Scan(&p.AuthorID, &fetchDate, &p.AuthorName, &capturedAt,
			&p.TotalCitations, &p.HIndex, &p.I10Index); err != nil {
			return nil, fmt.Errorf("scanning profile snapshot: %w", err)
		}
		if p.FetchDate, err = time.Parse(dateLayout, fetchDate); err != nil {
			return nil, fmt.Errorf("stored fetch date %q: %w", fetchDate, err)
		}
		// Capture timestamps predate the date key in older rows; a parse
		// failure leaves the zero time rather than rejecting the row.
		p.CapturedAt, _ = time.Parse(time.RFC3339, capturedAt)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading profile snapshots: %w", err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("author %s: %w", authorID, ErrNoHistory)
	}
	return out, nil
}

// PublicationSeries holds per-title citation counts aligned on a shared
// timeline. Every Counts slice has one entry per Timeline date; dates on
// which a title was not listed carry 0.
type PublicationSeries struct {
	Timeline []time.Time
	Counts   map[string][]int
}

// PublicationHistory builds aligned series for the author's top publications.
// Titles are ranked by their maximum recorded citation count, descending,
// ties broken by title, and at most top titles are returned.
func (s *Store) PublicationHistory(ctx context.Context, authorID string, top int) (PublicationSeries, error) {
	if top <= 0 {
		return PublicationSeries{}, fmt.Errorf("top must be positive, got %d", top)
	}

	dates, err := s.fetchDates(ctx, authorID)
	if err != nil {
		return PublicationSeries{}, err
	}
	if len(dates) == 0 {
		return PublicationSeries{}, fmt.Errorf("author %s: %w", authorID, ErrNoHistory)
	}

	titles, err := s.topTitles(ctx, authorID, top)
	if err != nil {
		return PublicationSeries{}, err
	}

	series := PublicationSeries{
		Timeline: make([]time.Time, len(dates)),
		Counts:   make(map[string][]int, len(titles)),
	}
	dateIndex := make(map[string]int, len(dates))
	for i, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return PublicationSeries{}, fmt.Errorf("stored fetch date %q: %w", d, err)
		}
		series.Timeline[i] = t
		dateIndex[d] = i
	}
	for _, title := range titles {
		series.Counts[title] = make([]int, len(dates))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fetch_date, title, citation_count
		 FROM publication_snapshots
		 WHERE author_id = ?`, authorID)
	if err != nil {
		return PublicationSeries{}, fmt.Errorf("querying publication snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date, title string
			count       int
		)
		if err := rows.Scan(&date, &title, &count); err != nil {
			return PublicationSeries{}, fmt.Errorf("scanning publication snapshot: %w", err)
		}
		counts, tracked := series.Counts[title]
		if !tracked {
			continue
		}
		counts[dateIndex[date]] = count
	}
	if err := rows.Err(); err != nil {
		return PublicationSeries{}, fmt.Errorf("reading publication snapshots: %w", err)
	}

	return series, nil
}

func (s *Store) fetchDates(ctx context.Context, authorID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT fetch_date FROM publication_snapshots
		 WHERE author_id = ? ORDER BY fetch_date`, authorID)
	if err != nil {
		return nil, fmt.Errorf("querying fetch dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning fetch date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) topTitles(ctx context.Context, authorID string, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM publication_snapshots
		 WHERE author_id = ?
		 GROUP BY title
		 ORDER BY MAX(citation_count) DESC, title
		 LIMIT ?`, authorID, n)
	if err != nil {
		return nil, fmt.Errorf("ranking titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// PublicationRows returns every publication snapshot for one fetch date,
// ordered by citation count descending then title. Used by export.
func (s *Store) PublicationRows(ctx context.Context, authorID, fetchDate string) ([]types.PublicationCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, citation_count FROM publication_snapshots
		 WHERE author_id = ? AND fetch_date = ?
		 ORDER BY citation_count DESC, title`, authorID, fetchDate)
	if err != nil {
		return nil, fmt.Errorf("querying publication rows: %w", err)
	}
	defer rows.Close()

	var pubs []types.PublicationCount
	for rows.Next() {
		var p types.PublicationCount
		if err := rows.Scan(&p.Title, &p.Citations); err != nil {
			return nil, fmt.Errorf("scanning publication row: %w", err)
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}
