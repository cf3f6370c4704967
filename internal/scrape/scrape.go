// Package scrape produces article candidates from the configured source
// sites, via listing-page scraping or RSS feeds.
package scrape

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/kalebv467-cell/auto-posting/internal/config"
	"github.com/kalebv467-cell/auto-posting/internal/news"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxPerSource   = 10
	politenessWait = 2 * time.Second
)

// Result holds the results of a scrape run.
type Result struct {
	Candidates []news.Candidate
	LinksFound int
	Skipped    int
}

// Scraper collects candidates from all configured sources.
type Scraper struct {
	sources []config.Source
	client  *http.Client
	delay   time.Duration
	rng     *rand.Rand
}

// New creates a scraper over the given sources.
func New(sources []config.Source) *Scraper {
	return &Scraper{
		sources: sources,
		client: &http.Client{
			Timeout: 15 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		delay: politenessWait,
	}
}

// ScrapeAll collects candidates from every source. Source failures are
// logged and skipped; a partial batch is a normal outcome.
func (s *Scraper) ScrapeAll(ctx context.Context) *Result {
	r := &Result{}
	for _, src := range s.sources {
		var (
			candidates []news.Candidate
			found      int
			err        error
		)
		if src.Feed != "" {
			candidates, found, err = s.scrapeFeed(ctx, src)
		} else {
			candidates, found, err = s.scrapeListing(ctx, src)
		}
		if err != nil {
			log.Printf("error scraping %s (%s): %v", src.Name, src.Category, err)
			continue
		}
		r.Candidates = append(r.Candidates, candidates...)
		r.LinksFound += found
		r.Skipped += found - len(candidates)
	}
	log.Printf("total articles scraped: %d", len(r.Candidates))
	return r
}

func (s *Scraper) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

// shuffle randomizes processing order so repeated runs do not keep hitting
// the same few listing entries.
func (s *Scraper) shuffle(links []articleLink) {
	for i := len(links) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		links[i], links[j] = links[j], links[i]
	}
}

func (s *Scraper) wait(ctx context.Context) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
}
