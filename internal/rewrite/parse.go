package rewrite

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
)

// parsed carries the line-parsed response plus the model's own tag, which
// becomes the secondary tag in the final array.
type parsed struct {
	Rewritten
	secondaryTag string
}

// parseResponse splits the model output on the TITLE:/CATEGORY:/TAG:/
// CONTENT: markers. Everything after the CONTENT: line belongs to the
// content. Returns ok=false when title or content is missing.
func parseResponse(resp string) (parsed, bool) {
	var p parsed
	var content strings.Builder
	contentStarted := false

	for _, line := range strings.Split(resp, "\n") {
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			p.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "CATEGORY:"):
			p.Category = strings.TrimSpace(strings.TrimPrefix(line, "CATEGORY:"))
		case strings.HasPrefix(line, "TAG:"):
			p.secondaryTag = strings.TrimSpace(strings.TrimPrefix(line, "TAG:"))
		case strings.HasPrefix(line, "CONTENT:"):
			content.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "CONTENT:")))
			contentStarted = true
		case contentStarted && strings.TrimSpace(line) != "":
			if content.Len() > 0 {
				content.WriteString("\n")
			}
			content.WriteString(line)
		}
	}

	p.Content = strings.TrimSpace(content.String())
	if p.Title == "" || p.Content == "" {
		return p, false
	}
	return p, true
}

// normalizeHTML passes HTML content through unchanged. When the model
// answers in markdown instead (it happens despite the prompt), the content
// is rendered to HTML so the published post still gets its h2/h3/p
// structure.
func normalizeHTML(content string) string {
	if strings.Contains(content, "<p>") || strings.Contains(content, "<h2>") || strings.Contains(content, "<h3>") {
		return content
	}
	if !looksLikeMarkdown(content) {
		return content
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return strings.TrimSpace(buf.String())
}

func looksLikeMarkdown(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") || strings.HasPrefix(trimmed, "### ") {
			return true
		}
	}
	return false
}
