package scrape

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kalebv467-cell/auto-posting/internal/config"
	"github.com/kalebv467-cell/auto-posting/internal/news"
)

// articleLink is a candidate permalink found on a listing page.
type articleLink struct {
	URL   string
	Title string
}

// Path segments that mark navigation rather than articles.
var skipSegments = []string{
	"category/", "tag/", "author/", "page/", "about/", "bills/",
	"contact/", "privacy/", "terms/", "feed/", "wp-", "?", "#",
}

var skipExtensions = []string{".jpg", ".png", ".pdf", ".zip", ".css", ".js"}

// scrapeListing fetches one listing page and extracts candidates from the
// article links on it.
func (s *Scraper) scrapeListing(ctx context.Context, src config.Source) ([]news.Candidate, int, error) {
	log.Printf("scraping %s from %s...", src.Category, src.Name)

	doc, err := s.fetchDocument(ctx, src.URL)
	if err != nil {
		return nil, 0, err
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing source url: %w", err)
	}

	var links []articleLink
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())

		if !strings.HasPrefix(href, "http") {
			if !strings.HasPrefix(href, "/") {
				return
			}
			href = base.Scheme + "://" + base.Host + href
		}

		if !IsArticleURL(base, href) || len(text) <= 10 {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, articleLink{URL: href, Title: text})
	})

	log.Printf("  found %d article links on %s", len(links), src.Name)

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

		wc := news.CountWords(content)
		candidates = append(candidates, news.Candidate{
			URL:       link.URL,
			Title:     link.Title,
			Content:   content,
			Category:  src.Category,
			WordCount: wc,
			Source:    src.Name,
		})
		log.Printf("  added article: %s (%d words)", truncate(link.Title, 50), wc)
		s.wait(ctx)
	}
	return candidates, len(links), nil
}

// IsArticleURL reports whether href looks like an article permalink on the
// listing's site rather than navigation. Article paths are long, carry
// several hyphen-separated words, and avoid the known navigation segments.
func IsArticleURL(base *url.URL, href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if !strings.EqualFold(strings.TrimPrefix(u.Host, "www."), strings.TrimPrefix(base.Host, "www.")) {
		return false
	}

	path := strings.TrimPrefix(u.Path, "/")
	for _, seg := range skipSegments {
		if strings.Contains(path, seg) {
			return false
		}
	}
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	clean := strings.Trim(path, "/")
	if len(clean) < 10 {
		return false
	}
	// Permalinks read like slugs: many-hyphen-separated-words.
	if strings.Count(lastSegment(clean), "-") < 3 {
		return false
	}
	return true
}

func lastSegment(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return parts[len(parts)-1]
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
