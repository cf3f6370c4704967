// Package news holds the shared article model passed between the scraper,
// selector, rewriter, and publisher.
package news

import "strings"

// Categories assigned to scraped articles. Sources declare which category
// their listing page feeds; "canadian" is its own lineage with its own
// posting slot.
const (
	CategoryPolitics = "politics"
	CategoryBusiness = "business"
	CategoryCulture  = "culture"
	CategoryCanadian = "canadian"
)

// Candidate is a scraped article that has not yet been accepted or rejected
// for publication. Candidates are ephemeral: only the selected one leaves a
// trace, in the usage ledger.
type Candidate struct {
	URL       string
	Title     string
	Content   string // plain text
	Category  string
	WordCount int
	Source    string // origin site id, e.g. "marijuanamoment"
}

// CountWords returns the number of whitespace-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
