// Package freshness rejects stale candidates using dates extracted from
// their text and URLs.
package freshness

import (
	"log"
	"time"

	"github.com/kalebv467-cell/auto-posting/internal/dates"
	"github.com/kalebv467-cell/auto-posting/internal/news"
)

// Filter rejects candidates whose extracted date falls before Cutoff.
// Candidates with no extractable date are assumed recent and pass.
type Filter struct {
	Cutoff time.Time
}

// New returns a filter with the given cutoff date.
func New(cutoff time.Time) *Filter {
	return &Filter{Cutoff: cutoff}
}

// TooOld reports whether c predates the cutoff. The title+content text is
// checked first; the URL date patterns are an independent second check, so
// an undated body with a dated permalink still gets filtered.
func (f *Filter) TooOld(c *news.Candidate) bool {
	if d, ok := dates.Extract(c.Title + " " + c.Content); ok {
		if d.Before(f.Cutoff) {
			log.Printf("skipping old article from %s: %s", d.Format("2006-01-02"), truncate(c.Title, 50))
			return true
		}
		return false
	}

	if d, ok := dates.FromURL(c.URL); ok && d.Before(f.Cutoff) {
		log.Printf("skipping old article from %s (url date): %s", d.Format("2006-01-02"), truncate(c.Title, 50))
		return true
	}

	// No date found anywhere: assume recent.
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
