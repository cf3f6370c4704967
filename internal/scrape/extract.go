package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Paragraphs containing these fragments are boilerplate, not article body.
var skipPhrases = []string{
	"published", "marijuana moment", "subscribe",
	"remove ads", "hours ago", "minutes ago",
}

const minParagraphLen = 20

// extractContent fetches an article page and returns its body as plain
// text. The primary path collects substantial paragraphs from the page's
// article element; when that yields nothing, readability plus an
// HTML-to-markdown pass is the fallback.
func (s *Scraper) extractContent(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", articleURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", articleURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", articleURL, err)
	}

	if text := extractParagraphs(body); text != "" {
		return text, nil
	}
	return extractReadable(body, articleURL)
}

// extractParagraphs pulls substantial paragraphs out of the page's article
// element, filtering boilerplate.
func extractParagraphs(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return ""
	}

	article := doc.Find("article").First()
	if article.Length() == 0 {
		return ""
	}

	var paragraphs []string
	article.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= minParagraphLen {
			return
		}
		lower := strings.ToLower(text)
		for _, phrase := range skipPhrases {
			if strings.Contains(lower, phrase) {
				return
			}
		}
		paragraphs = append(paragraphs, text)
	})

	return strings.Join(paragraphs, " ")
}

var mdConverter = md.NewConverter("", true, nil)

// extractReadable runs readability over the whole page and flattens the
// resulting HTML fragment to markdown-ish plain text.
func extractReadable(html []byte, articleURL string) (string, error) {
	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(html)), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability on %s: %w", articleURL, err)
	}

	if article.Content == "" {
		return strings.TrimSpace(article.TextContent), nil
	}

	text, err := mdConverter.ConvertString(article.Content)
	if err != nil {
		return strings.TrimSpace(article.TextContent), nil
	}
	return strings.TrimSpace(text), nil
}
