package extlink

import (
	"fmt"
	"strings"
)

func sourcePrompt(title, content string, needed int) string {
	if len(content) > 1500 {
		content = content[:1500]
	}
	return fmt.Sprintf(`You are a fact-checker and researcher. Based on this cannabis news article, find %d reliable external sources that would add credibility and context to the article.

ARTICLE TITLE: %s
ARTICLE CONTENT: %s...

REQUIREMENTS:
1. Find %d reliable, authoritative sources
2. Sources should be government websites (.gov), research institutions (.edu), reputable news organizations, or industry authorities
3. Sources should be directly relevant to the topic discussed
4. Provide the exact URL and a brief description of why it's relevant
5. NEVER suggest the article's own publisher or social media links

FORMAT YOUR RESPONSE EXACTLY AS:
SOURCE 1: [URL] | [Brief description of relevance]
SOURCE 2: [URL] | [Brief description of relevance]
SOURCE 3: [URL] | [Brief description of relevance]

Only provide as many sources as needed (%d). Focus on quality over quantity.`, needed, title, content, needed, needed)
}

func embedPrompt(content string, sources []Source) string {
	var lines []string
	for i, s := range sources {
		lines = append(lines, fmt.Sprintf("LINK %d: %s - %s", i+1, s.URL, s.Description))
	}
	return fmt.Sprintf(`You are an editor adding external source links to a cannabis news article. Add these external links naturally into the content where they are most relevant and credible.

ARTICLE CONTENT:
%s

EXTERNAL LINKS TO ADD:
%s

REQUIREMENTS:
1. Add each link naturally where it supports or adds credibility to a statement
2. Use appropriate anchor text that describes what the link is about
3. Add links as: <a href="URL" target="_blank" rel="noopener">anchor text</a>
4. Don't change the existing content structure, just add the links
5. Place links where they add the most value to readers
6. Make sure the anchor text flows naturally with the sentence

Return the complete article content with the external links added naturally.`, content, strings.Join(lines, "\n"))
}

// parseSources pulls "SOURCE n: URL | description" lines out of a model
// response. Lines that don't match the format are ignored.
func parseSources(resp string) []Source {
	var sources []Source
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "SOURCE") {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		_, urlPart, ok := strings.Cut(parts[0], ":")
		if !ok {
			continue
		}
		url := strings.Trim(strings.TrimSpace(urlPart), "[]")
		if !strings.HasPrefix(url, "http") {
			continue
		}
		sources = append(sources, Source{
			URL:         url,
			Description: strings.TrimSpace(parts[1]),
		})
	}
	return sources
}
