// Package scraper loads research paper pages and extracts their title,
// text and figures.
package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/breeew/stellar-api/pkg/types"
)

type Scraper struct {
	fetcher *Fetcher
	cache   *Cache
}

func New(fetcher *Fetcher) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		cache:   NewCache(),
	}
}

// Scrape fetches and parses link, serving repeated links from the cache.
// Concurrent callers of one link share the fetch, so it runs detached from
// any single caller's cancellation and is bounded by the fetcher timeouts.
func (s *Scraper) Scrape(ctx context.Context, link string) (types.ScrapeResult, error) {
	fctx := context.WithoutCancel(ctx)
	res, hit, err := s.cache.GetOrCompute(link, func() (types.ScrapeResult, error) {
		html, err := s.fetcher.Fetch(fctx, link)
		if err != nil {
			return types.ScrapeResult{}, err
		}
		res, err := Parse(link, html)
		if err != nil {
			return res, fmt.Errorf("parse %s: %w", link, err)
		}
		return res, nil
	})
	if err != nil {
		return res, err
	}

	slog.Debug("scraped", slog.String("link", link), slog.Bool("cache_hit", hit),
		slog.Int("images", len(res.ImageLinks)), slog.String("component", "scraper"))
	return res, nil
}

func (s *Scraper) Cache() *Cache {
	return s.cache
}
