// Package urls canonicalizes article URLs so the same story scraped through
// slightly different links maps to one ledger key.
package urls

import "strings"

// Normalize returns the canonical form of url used as the ledger identity
// key: lowercased, trimmed, "https://www." collapsed to "https://", a single
// trailing slash removed, and any query string stripped. Normalize is
// idempotent.
func Normalize(url string) string {
	url = strings.ToLower(strings.TrimSpace(url))
	if strings.HasPrefix(url, "https://www.") {
		url = "https://" + strings.TrimPrefix(url, "https://www.")
	}
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimSuffix(url, "/")
	return url
}
