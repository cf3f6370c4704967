// Package extlink finds outbound source links for a rewritten article:
// links carried over from the original article, plus additional
// authoritative sources suggested by the language model.
package extlink

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kalebv467-cell/auto-posting/internal/llm"
)

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxLinks     = 3
	minAnchorLen = 5
)

// Source is an outbound link to embed in an article.
type Source struct {
	URL         string
	Description string
}

// Finder collects external sources for an article. Domains in excluded
// are never linked, no matter where they came from.
type Finder struct {
	client   *http.Client
	provider llm.Provider
	excluded []string
}

func New(provider llm.Provider, excluded []string) *Finder {
	return &Finder{
		client:   &http.Client{Timeout: 15 * time.Second},
		provider: provider,
		excluded: excluded,
	}
}

// FromOriginal extracts external links from the original article's body.
// Failures are logged and return no links; the article can still be
// published without them.
func (f *Finder) FromOriginal(ctx context.Context, articleURL string) []Source {
	doc, err := f.fetchDocument(ctx, articleURL)
	if err != nil {
		log.Printf("extlink: fetching original article: %v", err)
		return nil
	}

	var sources []Source
	doc.Find("article a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "http") {
			return
		}
		if f.isExcluded(href) {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if len(text) <= minAnchorLen {
			return
		}
		sources = append(sources, Source{URL: href, Description: text})
	})

	if len(sources) > maxLinks {
		sources = sources[:maxLinks]
	}
	return sources
}

// Additional asks the model for authoritative sources to top the list up
// to maxLinks. Suggested URLs are checked with a HEAD request before
// being accepted.
func (f *Finder) Additional(ctx context.Context, title, content string, have int) ([]Source, error) {
	needed := maxLinks - have
	if needed < 1 {
		needed = 1
	}

	resp, err := f.provider.Generate(ctx, sourcePrompt(title, content, needed), 1000)
	if err != nil {
		return nil, fmt.Errorf("requesting sources: %w", err)
	}

	var valid []Source
	for _, s := range parseSources(resp) {
		if f.isExcluded(s.URL) {
			log.Printf("extlink: dropping excluded suggestion %s", s.URL)
			continue
		}
		if !f.reachable(ctx, s.URL) {
			log.Printf("extlink: dropping unreachable suggestion %s", s.URL)
			continue
		}
		valid = append(valid, s)
	}
	return valid, nil
}

// Embed asks the model to weave the sources into the article body as
// anchor tags. On any failure the original content is returned
// unchanged.
func (f *Finder) Embed(ctx context.Context, content string, sources []Source) string {
	if len(sources) == 0 {
		return content
	}

	resp, err := f.provider.Generate(ctx, embedPrompt(content, sources), 4000)
	if err != nil {
		log.Printf("extlink: embedding links: %v", err)
		return content
	}

	linked := strings.TrimSpace(resp)
	if linked == "" {
		return content
	}
	for _, s := range sources {
		if !strings.Contains(linked, s.URL) {
			log.Printf("extlink: model omitted %s", s.URL)
		}
	}
	return linked
}

func (f *Finder) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func (f *Finder) isExcluded(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, domain := range f.excluded {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

func (f *Finder) reachable(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound:
		return true
	}
	return false
}
