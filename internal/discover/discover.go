// Package discover scans a known results index page for links that
// plausibly point at race results for a given year. Best-effort by
// design: it feeds the ingestion queue, it does not guarantee coverage.
package discover

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"raceseries/internal/client"
)

// Discoverer finds candidate source URLs on the configured index page.
type Discoverer struct {
	fetcher  *client.Fetcher
	indexURL string
}

// NewDiscoverer creates a discoverer rooted at indexURL.
func NewDiscoverer(fetcher *client.Fetcher, indexURL string) *Discoverer {
	return &Discoverer{fetcher: fetcher, indexURL: indexURL}
}

// Discover returns the distinct absolute URLs of links that look like
// race results for the year.
func (d *Discoverer) Discover(ctx context.Context, year int) ([]string, error) {
	if d.indexURL == "" {
		return nil, fmt.Errorf("no results index URL configured")
	}

	doc, err := d.fetcher.FetchPage(ctx, d.indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results index: %w", err)
	}

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results index: %w", err)
	}

	base, err := url.Parse(d.indexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid index URL: %w", err)
	}

	seen := make(map[string]bool)
	var urls []string
	page.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !looksLikeResults(href, link.Text(), year) {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		abs := resolved.String()
		if !seen[abs] {
			seen[abs] = true
			urls = append(urls, abs)
		}
	})

	log.Info().
		Str("index", d.indexURL).
		Int("year", year).
		Int("found", len(urls)).
		Msg("Discovered candidate result pages")

	return urls, nil
}

// looksLikeResults is the link heuristic: the href or anchor text must
// mention results and carry the target year.
func looksLikeResults(href, text string, year int) bool {
	combined := strings.ToLower(href + " " + text)
	if !strings.Contains(combined, "result") {
		return false
	}
	return strings.Contains(combined, strconv.Itoa(year))
}
