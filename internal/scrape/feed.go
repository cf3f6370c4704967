package scrape

import (
	"context"
	"log"

	"github.com/mmcdole/gofeed"

	"github.com/kalebv467-cell/auto-posting/internal/config"
	"github.com/kalebv467-cell/auto-posting/internal/news"
)

// scrapeFeed collects candidates from a source's RSS/Atom feed. Feed items
// give the permalink and title; the body still comes from the article page
// so the word count reflects the real text.
func (s *Scraper) scrapeFeed(ctx context.Context, src config.Source) ([]news.Candidate, int, error) {
	log.Printf("scraping %s feed for %s...", src.Name, src.Category)

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	feed, err := parser.ParseURLWithContext(src.Feed, ctx)
	if err != nil {
		return nil, 0, err
	}

	var links []articleLink
	for _, item := range feed.Items {
		if item.Link == "" || len(item.Title) <= 10 {
			continue
		}
		links = append(links, articleLink{URL: item.Link, Title: item.Title})
	}

	log.Printf("  found %d feed entries on %s", len(links), src.Name)

	s.shuffle(links)
	if len(links) > maxPerSource {
		links = links[:maxPerSource]
	}

	var candidates []news.Candidate
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}

		content, err := s.extractContent(ctx, link.URL)
		if err != nil || content == "" {
			log.Printf("  skipped %s (extraction failed)", link.URL)
			s.wait(ctx)
			continue
		}

		candidates = append(candidates, news.Candidate{
			URL:       link.URL,
			Title:     link.Title,
			Content:   content,
			Category:  src.Category,
			WordCount: news.CountWords(content),
			Source:    src.Name,
		})
		s.wait(ctx)
	}
	return candidates, len(links), nil
}
