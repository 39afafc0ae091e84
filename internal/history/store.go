// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists dated citation snapshots in SQLite and serves
// the trend queries behind the plot and export commands. Rows are only
// ever written by RecordSnapshot; everything else is read-only.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-tracker/pkg/types"
)

const dateLayout = "2006-01-02"

// Store manages the citation history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "citations.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profile_snapshots (
			author_id TEXT NOT NULL,
			fetch_date TEXT NOT NULL,
			author_name TEXT,
			captured_at TEXT NOT NULL,
			total_citations INTEGER NOT NULL,
			h_index INTEGER NOT NULL,
			i10_index INTEGER NOT NULL,
			PRIMARY KEY (author_id, fetch_date)
		)`,
		`CREATE TABLE IF NOT EXISTS publication_snapshots (
			author_id TEXT NOT NULL,
			fetch_date TEXT NOT NULL,
			title TEXT NOT NULL,
			citation_count INTEGER NOT NULL,
			PRIMARY KEY (author_id, fetch_date, title)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publication_snapshots_title
			ON publication_snapshots(author_id, title)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordSnapshot writes one profile row and one publication row per listed
// publication, keyed by the snapshot's fetch date, inside a single
// transaction. Recording the same date again replaces that date's rows
// wholesale so a re-fetch never leaves titles from the earlier run behind;
// other dates are never touched.
func (s *Store) RecordSnapshot(ctx context.Context, snap types.AuthorSnapshot) error {
	if snap.AuthorID == "" {
		return fmt.Errorf("snapshot has no author ID")
	}
	if _, err := time.Parse(dateLayout, snap.FetchDate); err != nil {
		return fmt.Errorf("snapshot fetch date %q: %w", snap.FetchDate, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profile_snapshots
			(author_id, fetch_date, author_name, captured_at, total_citations, h_index, i10_index)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(author_id, fetch_date) DO UPDATE SET
			author_name=excluded.author_name, captured_at=excluded.captured_at,
			total_citations=excluded.total_citations, h_index=excluded.h_index,
			i10_index=excluded.i10_index`,
		snap.AuthorID, snap.FetchDate, snap.AuthorName,
		snap.CapturedAt.UTC().Format(time.RFC3339),
		snap.TotalCitations, snap.HIndex, snap.I10Index,
	)
	if err != nil {
		return fmt.Errorf("upserting profile snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM publication_snapshots WHERE author_id = ? AND fetch_date = ?`,
		snap.AuthorID, snap.FetchDate,
	); err != nil {
		return fmt.Errorf("clearing same-date publication rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO publication_snapshots
			(author_id, fetch_date, title, citation_count)
		 VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing publication insert: %w", err)
	}
	defer stmt.Close()

	for _, pub := range snap.Publications {
		if _, err := stmt.ExecContext(ctx, snap.AuthorID, snap.FetchDate, pub.Title, pub.Citations); err != nil {
			return fmt.Errorf("inserting publication %q: %w", pub.Title, err)
		}
	}

	return tx.Commit()
}
