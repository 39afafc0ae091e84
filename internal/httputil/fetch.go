// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrBlocked reports that the upstream refused to serve the page: an
// HTTP 429 or an anti-bot interstitial in place of profile content. There
// is no retry; the mitigation is a lower fetch frequency, which belongs to
// the operator's schedule, not this program.
var ErrBlocked = errors.New("upstream blocked the request")

// FetchDocument executes a GET request and parses the response body as
// HTML. HTTP 429 and captcha interstitials are classified as ErrBlocked so
// callers can distinguish throttling from a broken page; any other
// non-200 status is a plain error.
func FetchDocument(ctx context.Context, client *http.Client, url string, header http.Header) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("HTTP 429 for %s: %w", url, ErrBlocked)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}

	if isInterstitial(doc) {
		return nil, fmt.Errorf("captcha interstitial for %s: %w", url, ErrBlocked)
	}
	return doc, nil
}

// isInterstitial reports whether the document is an anti-bot page rather
// than requested content.
func isInterstitial(doc *goquery.Document) bool {
	if doc.Find("#gs_captcha_f, form#captcha-form").Length() > 0 {
		return true
	}
	// The throttle page titles itself "Sorry..." regardless of locale.
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	return strings.HasPrefix(title, "sorry")
}
