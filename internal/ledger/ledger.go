// Package ledger is the durable record of every article URL ever selected
// for publication. It is the at-most-once guarantee: independent scheduled
// runs share no memory, so the ledger's uniqueness constraint is the only
// cross-process coordination.
package ledger

import (
	"context"
	"time"
)

// Record is one ever-selected article. Records are never deleted; only
// PostID is ever mutated, once, when the publisher reports back.
type Record struct {
	NormalizedURL string
	Title         string
	Category      string
	UsedAt        time.Time
	PostID        *int64
}

// Stats aggregates the ledger for the status command.
type Stats struct {
	Total      int
	ByCategory map[string]int
}

// Ledger tracks which article URLs have been used. Implementations must
// persist every MarkUsed durably before returning, and must treat a
// concurrent duplicate insert as a harmless no-op. Reads fail open: an
// unreachable store reports "unused" rather than blocking a run. Writes
// fail loud: a mark that cannot be persisted aborts the run.
type Ledger interface {
	// IsUsed reports whether url (after normalization) has been selected
	// before. Storage errors are logged and reported as unused.
	IsUsed(ctx context.Context, url string) bool

	// MarkUsed records url as used with the current timestamp. Marking an
	// already-used URL is a no-op, never an error.
	MarkUsed(ctx context.Context, url, title, category string) error

	// RecordPostID attaches the published post id to an existing record.
	// Unknown URLs are a no-op.
	RecordPostID(ctx context.Context, url string, postID int64) error

	// Stats returns the total count and per-category histogram.
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}
