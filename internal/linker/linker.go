// Package linker inserts internal hyperlinks into article content: a fixed
// dictionary of phrase-to-URL rules plus links to related published
// articles, each applied at most once per pass with overlap suppression.
package linker

import (
	"fmt"
	"log"
	"regexp"
	"strings"
)

// Rule maps a target URL to the phrases that should link to it. Rules are
// consulted in declaration order, so more specific rules should come first.
type Rule struct {
	TargetURL string   `yaml:"url"`
	Phrases   []string `yaml:"phrases"`
}

// RelatedLink is a phrase-to-URL pair derived from the published-article
// catalog at link time.
type RelatedLink struct {
	Phrase string
	URL    string
}

// Apply rewrites content, wrapping the first whole-word occurrence of each
// linkable phrase in an anchor tag. Static rules take priority over related
// links. Within one pass each target URL is linked at most once, and each
// phrase family (a phrase together with any phrase that contains it or that
// it contains, case-insensitively) is linked at most once. Output is
// deterministic for fixed inputs.
func Apply(content string, rules []Rule, related []RelatedLink) string {
	candidates := make([]RelatedLink, 0, len(related))
	for _, r := range rules {
		for _, p := range r.Phrases {
			candidates = append(candidates, RelatedLink{Phrase: p, URL: r.TargetURL})
		}
	}
	candidates = append(candidates, related...)

	var usedPhrases []string
	usedTargets := make(map[string]bool)
	linked := 0

	for _, c := range candidates {
		if c.Phrase == "" || c.URL == "" {
			continue
		}
		if inUsedFamily(c.Phrase, usedPhrases) {
			continue
		}
		if usedTargets[c.URL] {
			continue
		}

		replaced, ok := linkFirstOccurrence(content, c.Phrase, c.URL)
		if !ok {
			continue
		}
		content = replaced
		usedPhrases = append(usedPhrases, c.Phrase)
		usedTargets[c.URL] = true
		linked++
		log.Printf("linked %q -> %s", c.Phrase, c.URL)
	}

	if linked > 0 {
		log.Printf("added %d internal links", linked)
	}
	return content
}

// inUsedFamily reports whether phrase belongs to the family of any already
// used phrase: it is a case-insensitive substring of one, or contains one.
// This is what keeps "sativa" unlinked after "sativa strains" has been.
func inUsedFamily(phrase string, used []string) bool {
	lower := strings.ToLower(phrase)
	for _, u := range used {
		ul := strings.ToLower(u)
		if strings.Contains(ul, lower) || strings.Contains(lower, ul) {
			return true
		}
	}
	return false
}

// linkFirstOccurrence wraps the first whole-word, case-insensitive match of
// phrase in an anchor tag, preserving the matched text's original casing.
func linkFirstOccurrence(content, phrase, url string) (string, bool) {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	if err != nil {
		return content, false
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return content, false
	}
	matched := content[loc[0]:loc[1]]
	anchor := fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, matched)
	return content[:loc[0]] + anchor + content[loc[1]:], true
}
