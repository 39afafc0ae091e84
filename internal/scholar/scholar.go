// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar scrapes public author profile pages into citation
// snapshots. The profile page layout is an external dependency that may
// change without notice; parse failures surface as errors, never panics.
package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/citation-tracker/internal/httputil"
	"github.com/pdiddy/citation-tracker/pkg/types"
)

// profileBase is the profile endpoint. Declared as a var so tests can
// substitute an httptest server.
var profileBase = "https://scholar.google.com"

// maxPageSize is the largest publication page the upstream serves.
const maxPageSize = 100

// Client fetches author profiles over HTTP.
type Client struct {
	HTTP *http.Client
	cfg  types.ScrapeConfig
}

// NewClient builds a Client from cfg, applying a 30 s default timeout.
func NewClient(cfg types.ScrapeConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTP: &http.Client{Timeout: timeout},
		cfg:  cfg,
	}
}

// FetchAuthor retrieves the author's current citation indicators and every
// publication listed on the profile, following the publication table's
// pagination. The returned snapshot is stamped with the UTC fetch date.
//
// Network failures, non-200 responses, and throttling (see
// httputil.ErrBlocked) are returned as errors with nothing fetched kept;
// there are no retries.
func (c *Client) FetchAuthor(ctx context.Context, authorID string) (types.AuthorSnapshot, error) {
	if strings.TrimSpace(authorID) == "" {
		return types.AuthorSnapshot{}, fmt.Errorf("author ID is empty")
	}

	pageSize := c.cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	now := time.Now().UTC()
	snap := types.AuthorSnapshot{
		AuthorID:   authorID,
		CapturedAt: now,
		FetchDate:  now.Format("2006-01-02"),
	}

	for start := 0; ; start += pageSize {
		doc, err := c.fetchPage(ctx, authorID, start, pageSize)
		if err != nil {
			return types.AuthorSnapshot{}, err
		}

		if start == 0 {
			if err := parseProfileHeader(doc, &snap); err != nil {
				return types.AuthorSnapshot{}, err
			}
		}

		pubs, more := parsePublicationRows(doc)
		snap.Publications = append(snap.Publications, pubs...)
		if !more || len(pubs) < pageSize {
			break
		}

		if c.cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return types.AuthorSnapshot{}, ctx.Err()
			case <-time.After(c.cfg.PageDelay):
			}
		}
	}

	return snap, nil
}

func (c *Client) fetchPage(ctx context.Context, authorID string, start, pageSize int) (*goquery.Document, error) {
	params := url.Values{
		"user":     {authorID},
		"hl":       {"en"},
		"cstart":   {strconv.Itoa(start)},
		"pagesize": {strconv.Itoa(pageSize)},
	}
	reqURL := profileBase + "/citations?" + params.Encode()

	header := http.Header{}
	if c.cfg.UserAgent != "" {
		header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.Cookie != "" {
		header.Set("Cookie", c.cfg.Cookie)
	}

	doc, err := httputil.FetchDocument(ctx, c.HTTP, reqURL, header)
	if err != nil {
		return nil, fmt.Errorf("profile %s at offset %d: %w", authorID, start, err)
	}
	return doc, nil
}

// parseProfileHeader fills the author name and citation indicators from
// the profile sidebar. The indicator table lists Citations, h-index, and
// i10-index with "All" and "Since <year>" columns; only "All" is kept.
// A page without the sidebar means the author ID does not resolve to a
// profile.
func parseProfileHeader(doc *goquery.Document, snap *types.AuthorSnapshot) error {
	name := strings.TrimSpace(doc.Find("#gsc_prf_in").First().Text())
	rows := doc.Find("#gsc_rsb_st tbody tr")
	if name == "" || rows.Length() == 0 {
		return fmt.Errorf("profile %s: page has no profile content (unknown author ID or changed page layout)", snap.AuthorID)
	}
	snap.AuthorName = name

	rows.Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("td").First().Text()))
		all := atoiLoose(row.Find("td.gsc_rsb_std").First().Text())
		switch {
		case strings.HasPrefix(label, "citations"):
			snap.TotalCitations = all
		case strings.HasPrefix(label, "h-index"):
			snap.HIndex = all
		case strings.HasPrefix(label, "i10-index"):
			snap.I10Index = all
		}
	})
	return nil
}

// parsePublicationRows extracts (title, citations) pairs from one page of
// the publication table, in page order. more is false when the page
// carries the explicit end-of-list marker cell instead of rows.
func parsePublicationRows(doc *goquery.Document) (pubs []types.PublicationCount, more bool) {
	if doc.Find("#gsc_a_b td.gsc_a_e").Length() > 0 {
		return nil, false
	}

	doc.Find("#gsc_a_b tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find("a.gsc_a_at").First().Text())
		if title == "" {
			return
		}
		pubs = append(pubs, types.PublicationCount{
			Title:     title,
			Citations: atoiLoose(row.Find("a.gsc_a_ac").First().Text()),
		})
	})
	return pubs, len(pubs) > 0
}

// atoiLoose parses an integer the way the profile page renders counts:
// blanks mean zero, thousands separators and trailing asterisks are
// dropped ("1,024", "", "12*").
func atoiLoose(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "*")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
