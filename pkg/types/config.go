// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-tracker/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScrapeConfig holds settings for the profile fetch stage.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of publications requested per profile page
	// (default and upstream maximum 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the pause between consecutive publication pages.
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// Cookie is an optional session cookie sent with each request, loaded
	// from .secrets/scholar-cookie.
	Cookie string `json:"-" yaml:"-"`
}

// StoreConfig holds settings for the history store.
type StoreConfig struct {
	// Path is the SQLite database file (default "citations.db").
	Path string `json:"path" yaml:"path"`
}

// ChartConfig holds settings for the plot stage.
type ChartConfig struct {
	// TopN is the number of publications included in the per-publication
	// chart, ranked by maximum recorded citation count (default 10).
	TopN int `json:"top_n" yaml:"top_n"`
}
