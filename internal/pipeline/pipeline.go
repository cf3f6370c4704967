// Package pipeline orchestrates one publishing cycle: scrape the
// configured sources, pick one unused fresh article, rewrite it, add
// internal and external links, attach a featured image and publish it
// to the CMS.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/kalebv467-cell/auto-posting/internal/config"
	"github.com/kalebv467-cell/auto-posting/internal/extlink"
	"github.com/kalebv467-cell/auto-posting/internal/freshness"
	"github.com/kalebv467-cell/auto-posting/internal/images"
	"github.com/kalebv467-cell/auto-posting/internal/ledger"
	"github.com/kalebv467-cell/auto-posting/internal/linker"
	"github.com/kalebv467-cell/auto-posting/internal/llm"
	"github.com/kalebv467-cell/auto-posting/internal/news"
	"github.com/kalebv467-cell/auto-posting/internal/rewrite"
	"github.com/kalebv467-cell/auto-posting/internal/scrape"
	"github.com/kalebv467-cell/auto-posting/internal/selector"
	"github.com/kalebv467-cell/auto-posting/internal/wordpress"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps   []StepResult
	PostURL string
}

// Published reports whether the run ended with a live post.
func (r *Result) Published() bool {
	return r.PostURL != ""
}

type scraper interface {
	ScrapeAll(ctx context.Context) *scrape.Result
}

type rewriter interface {
	Rewrite(ctx context.Context, c *news.Candidate, primaryTag string) (*rewrite.Rewritten, error)
}

type sourceFinder interface {
	FromOriginal(ctx context.Context, articleURL string) []extlink.Source
	Additional(ctx context.Context, title, content string, have int) ([]extlink.Source, error)
	Embed(ctx context.Context, content string, sources []extlink.Source) string
}

type publisher interface {
	CreatePost(ctx context.Context, req wordpress.PostRequest) (*wordpress.Post, error)
	UploadMedia(ctx context.Context, path, title string) (int64, error)
	RecentArticles(ctx context.Context) []linker.CatalogArticle
}

// Pipeline runs the scrape-to-publish cycle.
type Pipeline struct {
	cfg      *config.Config
	ledger   ledger.Ledger
	scraper  scraper
	rewriter rewriter
	finder   sourceFinder
	wp       publisher
	picker   *images.Picker
	rng      *rand.Rand
}

// New wires a pipeline from config. The Anthropic key and CMS password
// come from the environment variables the config names.
func New(cfg *config.Config, l ledger.Ledger) *Pipeline {
	provider := llm.NewAnthropicProvider(cfg.AnthropicKey(), cfg.Anthropic.Model)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Pipeline{
		cfg:      cfg,
		ledger:   l,
		scraper:  scrape.New(cfg.Sources),
		rewriter: rewrite.New(provider, cfg.Anthropic.MaxTokens),
		finder:   extlink.New(provider, cfg.Linking.ExcludedDomains),
		wp:       wordpress.New(cfg.WordPress.URL, cfg.WordPress.Username, cfg.WordPressPassword()),
		picker:   images.New(cfg.Images.Dir, rng),
		rng:      rng,
	}
}

// Run executes one full publishing cycle. A cycle that finds nothing to
// publish is a normal outcome, reported in the step summaries.
func (p *Pipeline) Run(ctx context.Context) *Result {
	r := &Result{}

	// Step 1: Scrape
	log.Println("Step 1/5: Scraping sources...")
	scraped := p.scraper.ScrapeAll(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Scrape",
		Summary: fmt.Sprintf("Found %d candidates (%d links, %d skipped)", len(scraped.Candidates), scraped.LinksFound, scraped.Skipped),
	})
	if len(scraped.Candidates) == 0 {
		return r
	}

	// Step 2: Select and mark used
	log.Println("Step 2/5: Selecting an article...")
	chosen, step := p.runSelect(ctx, scraped.Candidates)
	r.Steps = append(r.Steps, step)
	if chosen == nil || step.Err != nil {
		return r
	}

	// Step 3: Rewrite
	log.Println("Step 3/5: Rewriting...")
	rewritten, step := p.runRewrite(ctx, chosen)
	r.Steps = append(r.Steps, step)
	if rewritten == nil || step.Err != nil {
		return r
	}

	// Step 4: Link
	log.Println("Step 4/5: Adding links...")
	r.Steps = append(r.Steps, p.runLink(ctx, chosen, rewritten))

	// Step 5: Publish
	log.Println("Step 5/5: Publishing...")
	step, postURL := p.runPublish(ctx, chosen, rewritten)
	r.Steps = append(r.Steps, step)
	r.PostURL = postURL
	return r
}

// DryRun scrapes and selects but neither marks the ledger nor calls the
// model or the CMS.
func (p *Pipeline) DryRun(ctx context.Context) *Result {
	r := &Result{}

	scraped := p.scraper.ScrapeAll(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Scrape",
		Summary: fmt.Sprintf("[dry-run] Found %d candidates (%d links, %d skipped)", len(scraped.Candidates), scraped.LinksFound, scraped.Skipped),
	})

	chosen := p.selectCandidate(ctx, scraped.Candidates)
	if chosen == nil {
		r.Steps = append(r.Steps, StepResult{
			Name:    "Select",
			Summary: "[dry-run] No eligible article this cycle",
		})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Select",
		Summary: fmt.Sprintf("[dry-run] Would publish %q (%s, %d words) without marking it used", chosen.Title, chosen.Category, chosen.WordCount),
	})
	return r
}

func (p *Pipeline) runSelect(ctx context.Context, candidates []news.Candidate) (*news.Candidate, StepResult) {
	chosen := p.selectCandidate(ctx, candidates)
	if chosen == nil {
		return nil, StepResult{
			Name:    "Select",
			Summary: fmt.Sprintf("No eligible article among %d candidates", len(candidates)),
		}
	}

	// The mark happens before any rewriting so a crash later in the run
	// can never offer this article again.
	if err := p.ledger.MarkUsed(ctx, chosen.URL, chosen.Title, chosen.Category); err != nil {
		return nil, StepResult{Name: "Select", Err: fmt.Errorf("marking article used: %w", err)}
	}
	return chosen, StepResult{
		Name:    "Select",
		Summary: fmt.Sprintf("Chose %q (%s, %d words)", chosen.Title, chosen.Category, chosen.WordCount),
	}
}

// selectCandidate applies per-source word minimums and the shared
// used/stale filters, then picks one survivor at random.
func (p *Pipeline) selectCandidate(ctx context.Context, candidates []news.Candidate) *news.Candidate {
	cutoff, err := p.cfg.FreshnessCutoff(time.Now())
	if err != nil {
		log.Printf("invalid freshness cutoff, using default window: %v", err)
		cutoff = time.Now().AddDate(0, 0, -14)
	}

	minFor := make(map[string]int)
	for _, src := range p.cfg.Sources {
		minFor[src.Name] = src.MinWords
	}
	var eligible []news.Candidate
	for _, c := range candidates {
		if min := minFor[c.Source]; min > 0 && c.WordCount < min {
			log.Printf("skipping short article for %s (%d words): %s", c.Source, c.WordCount, c.Title)
			continue
		}
		eligible = append(eligible, c)
	}

	sel := selector.New(p.ledger, freshness.New(cutoff), 0, p.rng)
	return sel.Select(ctx, eligible)
}

func (p *Pipeline) runRewrite(ctx context.Context, chosen *news.Candidate) (*rewrite.Rewritten, StepResult) {
	rewritten, err := p.rewriter.Rewrite(ctx, chosen, p.primaryTag(chosen))
	if err != nil {
		return nil, StepResult{Name: "Rewrite", Err: err}
	}
	if rewritten == nil {
		// The article stays marked used; a response the parser cannot
		// read is not worth retrying with the same model.
		return nil, StepResult{
			Name:    "Rewrite",
			Summary: "Model response unusable, skipping this article",
		}
	}
	return rewritten, StepResult{
		Name:    "Rewrite",
		Summary: fmt.Sprintf("Rewrote as %q (%s)", rewritten.Title, rewritten.Category),
	}
}

func (p *Pipeline) runLink(ctx context.Context, chosen *news.Candidate, rewritten *rewrite.Rewritten) StepResult {
	catalog := p.wp.RecentArticles(ctx)
	related := linker.RelatedFromCatalog(rewritten.Content, rewritten.Title, catalog)
	rewritten.Content = linker.Apply(rewritten.Content, p.cfg.Linking.Rules, related)

	sources := p.finder.FromOriginal(ctx, chosen.URL)
	if len(sources) < p.cfg.Linking.MaxExternalLinks {
		more, err := p.finder.Additional(ctx, rewritten.Title, rewritten.Content, len(sources))
		if err != nil {
			log.Printf("finding additional sources: %v", err)
		} else {
			sources = append(sources, more...)
		}
	}
	if len(sources) > p.cfg.Linking.MaxExternalLinks {
		sources = sources[:p.cfg.Linking.MaxExternalLinks]
	}
	rewritten.Content = p.finder.Embed(ctx, rewritten.Content, sources)

	return StepResult{
		Name:    "Link",
		Summary: fmt.Sprintf("Linked %d catalog articles, %d external sources", len(related), len(sources)),
	}
}

func (p *Pipeline) runPublish(ctx context.Context, chosen *news.Candidate, rewritten *rewrite.Rewritten) (StepResult, string) {
	mediaID := p.picker.FeaturedImage(ctx, p.wp, chosen.Category, rewritten.Title)

	post, err := p.wp.CreatePost(ctx, wordpress.PostRequest{
		PostType:        p.cfg.WordPress.PostType,
		Title:           rewritten.Title,
		Content:         rewritten.Content,
		Categories:      []string{p.cfg.WordPress.Category},
		Tags:            rewritten.Tags,
		Author:          p.author(chosen),
		FeaturedMediaID: mediaID,
	})
	if err != nil {
		return StepResult{Name: "Publish", Err: err}, ""
	}

	if err := p.ledger.RecordPostID(ctx, chosen.URL, post.ID); err != nil {
		log.Printf("recording post ID: %v", err)
	}
	return StepResult{
		Name:    "Publish",
		Summary: fmt.Sprintf("Published post %d: %s", post.ID, post.Link),
	}, post.Link
}

func (p *Pipeline) primaryTag(c *news.Candidate) string {
	if src := p.source(c); src != nil && src.PrimaryTag != "" {
		return src.PrimaryTag
	}
	return "US Cannabis News"
}

func (p *Pipeline) author(c *news.Candidate) string {
	if src := p.source(c); src != nil {
		return src.Author
	}
	return ""
}

func (p *Pipeline) source(c *news.Candidate) *config.Source {
	for i := range p.cfg.Sources {
		if p.cfg.Sources[i].Name == c.Source {
			return &p.cfg.Sources[i]
		}
	}
	return nil
}
