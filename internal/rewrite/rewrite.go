// Package rewrite turns a scraped article into an original piece via the
// language model, parsing the model's structured response.
package rewrite

import (
	"context"
	"fmt"
	"log"

	"github.com/kalebv467-cell/auto-posting/internal/llm"
	"github.com/kalebv467-cell/auto-posting/internal/news"
)

// Rewritten is the finalized article produced by the model.
type Rewritten struct {
	Title    string
	Content  string // HTML fragment: h2/h3/p only
	Category string
	Tags     []string
}

// tagForCategory maps article categories to their secondary CMS tag.
var tagForCategory = map[string]string{
	news.CategoryBusiness: "Cannabis-business",
	news.CategoryCulture:  "culture",
	news.CategoryPolitics: "politics",
	news.CategoryCanadian: "canadian-cannabis",
}

// Rewriter drives the LLM rewriting step.
type Rewriter struct {
	provider  llm.Provider
	maxTokens int
}

// New creates a rewriter. maxTokens <= 0 defaults to 3000.
func New(provider llm.Provider, maxTokens int) *Rewriter {
	if maxTokens <= 0 {
		maxTokens = 3000
	}
	return &Rewriter{provider: provider, maxTokens: maxTokens}
}

// Rewrite sends the candidate to the model and parses the response.
// primaryTag is the lineage tag (e.g. "US Cannabis News") placed first in
// the tags array; the model's own tag follows as the secondary.
func (r *Rewriter) Rewrite(ctx context.Context, c *news.Candidate, primaryTag string) (*Rewritten, error) {
	log.Printf("rewriting article: %s", truncate(c.Title, 50))

	resp, err := r.provider.Generate(ctx, buildPrompt(c), r.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("rewrite call: %w", err)
	}

	parsed, ok := parseResponse(resp)
	if !ok {
		// Missing title or content is a degraded model response, not a
		// crash; the caller treats a nil result as "nothing to publish".
		log.Printf("model response missing title or content, discarding")
		return nil, nil
	}

	parsed.Content = normalizeHTML(parsed.Content)

	secondary := parsed.secondaryTag
	if secondary == "" {
		secondary = secondaryTag(c.Category)
	}
	parsed.Rewritten.Tags = []string{primaryTag, secondary}
	if parsed.Category == "" {
		parsed.Category = c.Category
	}
	return &parsed.Rewritten, nil
}

// secondaryTag returns the CMS tag for a category, defaulting like the
// lineage always has.
func secondaryTag(category string) string {
	if tag, ok := tagForCategory[category]; ok {
		return tag
	}
	return "cannabis-news"
}

func buildPrompt(c *news.Candidate) string {
	content := c.Content
	if len(content) > 2000 {
		content = content[:2000] + "..."
	}

	return fmt.Sprintf(`You are a cannabis industry journalist. Rewrite this cannabis news article following these exact specifications:

ORIGINAL ARTICLE:
Title: %s
Content: %s
Category: %s
Original Word Count: %d

REQUIREMENTS:
1. Create an original, engaging title based on the original but reworded
2. Target word count: %d to %d words
3. Write in a fresh, engaging way - keep key facts but change structure, wording, and approach
4. Make it informative yet accessible for cannabis industry readers
5. Use proper heading structure with H2 and H3 tags ONLY (NO H1 tags - the CMS will handle the main title)
6. This will be tagged as: %s
7. Focus on the %s aspect of cannabis news

FORMAT YOUR RESPONSE EXACTLY AS:
TITLE: [Your new title here]
CATEGORY: %s
TAG: %s
CONTENT: [Your rewritten article with H2, H3 headings and HTML formatting - NO H1 tags]

Write the content with proper HTML formatting including <h2>, <h3> tags for headings and <p> tags for paragraphs. DO NOT include any <h1> tags.`,
		c.Title, content, c.Category, c.WordCount,
		c.WordCount-300, c.WordCount+300,
		secondaryTag(c.Category), c.Category, c.Category, secondaryTag(c.Category))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
