// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared across the
// citation-tracker stages: fetch, record, plot, and export.
package types

import "time"

// PublicationCount is one publication's citation count as listed on the
// profile page at fetch time.
type PublicationCount struct {
	Title     string `json:"title" yaml:"title"`
	Citations int    `json:"citations" yaml:"citations"`
}

// AuthorSnapshot is the result of one profile fetch: the author's current
// citation indicators plus every publication listed on the profile, in
// page order.
type AuthorSnapshot struct {
	AuthorID   string `json:"author_id" yaml:"author_id"`
	AuthorName string `json:"author_name" yaml:"author_name"`

	// FetchDate is the UTC calendar date of the fetch (YYYY-MM-DD). It is
	// the history key: one snapshot per author per date.
	FetchDate string `json:"fetch_date" yaml:"fetch_date"`

	// CapturedAt is the exact fetch timestamp, kept for provenance.
	CapturedAt time.Time `json:"captured_at" yaml:"captured_at"`

	TotalCitations int `json:"total_citations" yaml:"total_citations"`
	HIndex         int `json:"h_index" yaml:"h_index"`
	I10Index       int `json:"i10_index" yaml:"i10_index"`

	Publications []PublicationCount `json:"publications" yaml:"publications"`
}

// ProfileSnapshot is one stored per-date observation of the profile-level
// indicators, as read back from the history store.
type ProfileSnapshot struct {
	AuthorID       string    `json:"author_id" yaml:"author_id"`
	AuthorName     string    `json:"author_name" yaml:"author_name"`
	FetchDate      time.Time `json:"fetch_date" yaml:"fetch_date"`
	CapturedAt     time.Time `json:"captured_at" yaml:"captured_at"`
	TotalCitations int       `json:"total_citations" yaml:"total_citations"`
	HIndex         int       `json:"h_index" yaml:"h_index"`
	I10Index       int       `json:"i10_index" yaml:"i10_index"`
}

// PublicationSnapshot is one stored (publication, date) observation.
// Publication identity is the exact title text: a title whose formatting
// changes between fetches starts a new series.
type PublicationSnapshot struct {
	AuthorID      string    `json:"author_id" yaml:"author_id"`
	FetchDate     time.Time `json:"fetch_date" yaml:"fetch_date"`
	Title         string    `json:"title" yaml:"title"`
	CitationCount int       `json:"citation_count" yaml:"citation_count"`
}
