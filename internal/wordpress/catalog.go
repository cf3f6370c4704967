package wordpress

import (
	"context"
	"log"

	"github.com/kalebv467-cell/auto-posting/internal/linker"
)

type publishedPost struct {
	Link  string `json:"link"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
}

// RecentArticles fetches recently published news and lifestyle posts
// for use as internal-link targets. A post type that fails to load is
// logged and skipped; linking without a full catalog is fine.
func (c *Client) RecentArticles(ctx context.Context) []linker.CatalogArticle {
	var catalog []linker.CatalogArticle
	for _, postType := range []string{PostTypeNews, PostTypeLifestyle} {
		var posts []publishedPost
		if err := c.get(ctx, "/"+postType+"?per_page=50", &posts); err != nil {
			log.Printf("wordpress: fetching %s catalog: %v", postType, err)
			continue
		}
		for _, p := range posts {
			catalog = append(catalog, linker.CatalogArticle{
				Title: p.Title.Rendered,
				URL:   p.Link,
			})
		}
	}
	return catalog
}
