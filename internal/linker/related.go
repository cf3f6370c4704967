package linker

import (
	"regexp"
	"strings"
)

// CatalogArticle is a published article consulted for related-link matching.
type CatalogArticle struct {
	Title string
	URL   string
}

// Windows of these words are too generic to anchor a link.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "of": true,
	"in": true, "to": true, "a": true, "an": true,
}

// RelatedFromCatalog finds published articles worth linking from content by
// sliding 2-4 word windows of each catalog title across the text. The first
// matching window per article wins; the article whose title matches the one
// being written is skipped. Results follow catalog order, so output is
// deterministic.
func RelatedFromCatalog(content, currentTitle string, catalog []CatalogArticle) []RelatedLink {
	var links []RelatedLink
	seen := make(map[string]bool)

	for _, art := range catalog {
		if strings.EqualFold(art.Title, currentTitle) {
			continue
		}
		phrase, ok := firstMatchingWindow(content, art.Title)
		if !ok {
			continue
		}
		key := strings.ToLower(phrase)
		if seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, RelatedLink{Phrase: phrase, URL: art.URL})
	}
	return links
}

// firstMatchingWindow returns the first 2-4 word window of title that
// occurs whole-word in content and carries no stop words.
func firstMatchingWindow(content, title string) (string, bool) {
	words := strings.Fields(title)
	for i := range words {
		max := i + 4
		if max > len(words) {
			max = len(words)
		}
		for j := i + 2; j <= max; j++ {
			phrase := strings.Join(words[i:j], " ")
			if windowHasStopWord(words[i:j]) {
				continue
			}
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
			if err != nil {
				continue
			}
			if re.MatchString(content) {
				return phrase, true
			}
		}
	}
	return "", false
}

func windowHasStopWord(words []string) bool {
	for _, w := range words {
		if stopWords[strings.ToLower(strings.Trim(w, ".,:;!?\"'"))] {
			return true
		}
	}
	return false
}
