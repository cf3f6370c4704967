package wordpress

import (
	"context"
	"log"
	"net/url"
)

type term struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// resolveTerms maps term names to IDs against the given taxonomy
// endpoint (categories or tags), creating terms that don't exist yet.
// Names that fail both lookup and creation are skipped.
func (c *Client) resolveTerms(ctx context.Context, taxonomy string, names []string) []int64 {
	var ids []int64
	for _, name := range names {
		id, err := c.resolveTerm(ctx, taxonomy, name)
		if err != nil {
			log.Printf("wordpress: skipping %s %q: %v", taxonomy, name, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (c *Client) resolveTerm(ctx context.Context, taxonomy, name string) (int64, error) {
	var terms []term
	if err := c.get(ctx, "/"+taxonomy+"?search="+url.QueryEscape(name), &terms); err != nil {
		return 0, err
	}
	if len(terms) > 0 {
		return terms[0].ID, nil
	}

	var created term
	if err := c.post(ctx, "/"+taxonomy, map[string]string{"name": name}, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}
