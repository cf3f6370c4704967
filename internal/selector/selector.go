// Package selector picks one publishable article from a batch of scraped
// candidates, filtering out used, stale, and too-short ones.
package selector

import (
	"context"
	"log"
	"math/rand"

	"github.com/kalebv467-cell/auto-posting/internal/freshness"
	"github.com/kalebv467-cell/auto-posting/internal/ledger"
	"github.com/kalebv467-cell/auto-posting/internal/news"
)

// DefaultMinWords is the minimum viable article length. Sources may raise
// it via their min_words config.
const DefaultMinWords = 200

// Selector filters and picks candidates. An empty pick is a normal outcome
// ("nothing to publish this cycle"), not an error.
type Selector struct {
	ledger   ledger.Ledger
	filter   *freshness.Filter
	minWords int
	rng      *rand.Rand
}

// New creates a selector. minWords <= 0 falls back to DefaultMinWords; a
// nil rng uses the shared source.
func New(l ledger.Ledger, f *freshness.Filter, minWords int, rng *rand.Rand) *Selector {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return &Selector{ledger: l, filter: f, minWords: minWords, rng: rng}
}

// Select applies the filters in order (used, stale, short) and returns one
// survivor chosen uniformly at random, or nil if none survive.
//
// The caller must MarkUsed the returned candidate's URL immediately, before
// any rewriting or publishing, so a crash mid-rewrite can never make the
// same article eligible again on the next run.
func (s *Selector) Select(ctx context.Context, candidates []news.Candidate) *news.Candidate {
	var survivors []news.Candidate
	for _, c := range candidates {
		if s.ledger.IsUsed(ctx, c.URL) {
			log.Printf("skipping already used article: %s", truncate(c.Title, 50))
			continue
		}
		if s.filter.TooOld(&c) {
			continue
		}
		if c.WordCount < s.minWords {
			log.Printf("skipping short article (%d words): %s", c.WordCount, truncate(c.Title, 50))
			continue
		}
		survivors = append(survivors, c)
	}

	if len(survivors) == 0 {
		log.Printf("no eligible articles among %d candidates", len(candidates))
		return nil
	}

	chosen := survivors[s.intn(len(survivors))]
	log.Printf("chose article: %s (%d words)", truncate(chosen.Title, 50), chosen.WordCount)
	return &chosen
}

func (s *Selector) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}

func truncate(str string, n int) string {
	if len(str) <= n {
		return str
	}
	return str[:n] + "..."
}
