// Package client fetches source result pages. The source server is not
// ours: fetches carry a bounded timeout, retry with exponential backoff on
// retryable statuses, and a fixed politeness delay between consecutive
// requests. Any content type is accepted; the extractor sorts it out.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"raceseries/internal/cache"
	"raceseries/internal/metrics"
)

// Fetcher retrieves source documents over HTTP.
type Fetcher struct {
	httpClient *http.Client
	pages      *cache.PageCache
	delay      time.Duration
	maxRetries int
	retryDelay time.Duration

	mu        sync.Mutex
	lastFetch time.Time
}

// NewFetcher creates a fetcher. pages may be nil to run without a cache.
func NewFetcher(timeout, politenessDelay time.Duration, pages *cache.PageCache) *Fetcher {
	return &Fetcher{
		pages:      pages,
		delay:      politenessDelay,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchPage retrieves a document, consulting the page cache first.
func (f *Fetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	if body := f.pages.Get(ctx, url); body != nil {
		log.Debug().Str("url", url).Msg("Serving page from cache")
		return body, nil
	}

	body, err := f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	f.pages.Set(ctx, url, body)
	return body, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.FetchDuration.Observe(time.Since(start).Seconds()) }()

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := f.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying fetch after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := f.politeWait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "raceseries/1.0")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("fetch failed: %w", err)
			metrics.PagesFetchedTotal.WithLabelValues("error").Inc()
			if attempt < f.maxRetries {
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < f.maxRetries {
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			metrics.PagesFetchedTotal.WithLabelValues("ok").Inc()
			log.Debug().
				Str("url", url).
				Int("size", len(body)).
				Msg("Page fetched")
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("source returned retryable status %d", resp.StatusCode)
			metrics.PagesFetchedTotal.WithLabelValues("retry").Inc()
			if attempt < f.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Msg("Retryable fetch error")
				continue
			}
			return nil, lastErr

		default:
			metrics.PagesFetchedTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("source returned status %d for %s", resp.StatusCode, url)
		}
	}

	return nil, lastErr
}

// politeWait enforces the fixed delay between consecutive fetches.
func (f *Fetcher) politeWait(ctx context.Context) error {
	if f.delay <= 0 {
		return nil
	}

	f.mu.Lock()
	wait := f.delay - time.Since(f.lastFetch)
	f.lastFetch = time.Now().Add(wait)
	f.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
