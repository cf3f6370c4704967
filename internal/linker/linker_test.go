package linker

import (
	"strings"
	"testing"
)

func TestApplyLinksFirstOccurrence(t *testing.T) {
	rules := []Rule{{TargetURL: "https://site.com/news/", Phrases: []string{"cannabis news"}}}
	content := "Today in cannabis news: more cannabis news from Ottawa."

	got := Apply(content, rules, nil)
	want := `Today in <a href="https://site.com/news/" target="_blank">cannabis news</a>: more cannabis news from Ottawa.`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyPreservesCasing(t *testing.T) {
	rules := []Rule{{TargetURL: "https://site.com/sativa/", Phrases: []string{"sativa"}}}
	got := Apply("Sativa lovers rejoice.", rules, nil)
	if !strings.Contains(got, ">Sativa</a>") {
		t.Errorf("expected original casing preserved, got %q", got)
	}
}

func TestApplyPhraseFamilySuppression(t *testing.T) {
	rules := []Rule{
		{TargetURL: "https://site.com/a/", Phrases: []string{"sativa strains"}},
		{TargetURL: "https://site.com/b/", Phrases: []string{"sativa"}},
	}
	got := Apply("Sativa strains are popular this year.", rules, nil)

	if !strings.Contains(got, `href="https://site.com/a/"`) {
		t.Error("expected earlier, more specific rule to link")
	}
	if strings.Contains(got, `href="https://site.com/b/"`) {
		t.Error("family member of a used phrase must not link")
	}
	if strings.Count(got, "<a ") != 1 {
		t.Errorf("expected exactly one anchor, got %d in %q", strings.Count(got, "<a "), got)
	}
}

func TestApplyTargetUsedOnce(t *testing.T) {
	rules := []Rule{
		{TargetURL: "https://site.com/dosing/", Phrases: []string{"dosing", "cannabis dosage"}},
	}
	got := Apply("Proper dosing matters; see our cannabis dosage chart.", rules, nil)
	if strings.Count(got, `href="https://site.com/dosing/"`) != 1 {
		t.Errorf("expected one link per target per pass, got %q", got)
	}
}

func TestApplyWholeWordOnly(t *testing.T) {
	rules := []Rule{{TargetURL: "https://site.com/thc/", Phrases: []string{"thc"}}}
	got := Apply("Synthetic cannabinoids differ from natural ones.", rules, nil)
	if strings.Contains(got, "<a ") {
		t.Errorf("no whole-word match should mean no links, got %q", got)
	}
}

func TestApplyStaticBeatsRelated(t *testing.T) {
	rules := []Rule{{TargetURL: "https://site.com/indica/", Phrases: []string{"indica"}}}
	related := []RelatedLink{{Phrase: "indica", URL: "https://site.com/other/"}}

	got := Apply("An indica classic.", rules, related)
	if !strings.Contains(got, `href="https://site.com/indica/"`) {
		t.Error("static rule should win the phrase family")
	}
	if strings.Contains(got, "https://site.com/other/") {
		t.Error("related link must not double-link the family")
	}
}

func TestApplyDeterministic(t *testing.T) {
	rules := []Rule{
		{TargetURL: "https://site.com/a/", Phrases: []string{"sativa", "sativa effects"}},
		{TargetURL: "https://site.com/b/", Phrases: []string{"indica"}},
	}
	related := []RelatedLink{{Phrase: "blue dream", URL: "https://site.com/bd/"}}
	content := "Comparing sativa and indica highs, plus a blue dream review."

	first := Apply(content, rules, related)
	second := Apply(content, rules, related)
	if first != second {
		t.Errorf("output not deterministic:\n%q\n%q", first, second)
	}
}

func TestApplyEmptyInputs(t *testing.T) {
	content := "Plain content with no links."
	if got := Apply(content, nil, nil); got != content {
		t.Errorf("empty rules must return content unchanged, got %q", got)
	}
}

func TestApplyNoMatches(t *testing.T) {
	rules := []Rule{{TargetURL: "https://site.com/x/", Phrases: []string{"terpenes"}}}
	content := "Nothing relevant here."
	if got := Apply(content, rules, nil); got != content {
		t.Errorf("expected content unchanged, got %q", got)
	}
}

func TestRelatedFromCatalog(t *testing.T) {
	catalog := []CatalogArticle{
		{Title: "Blue Dream Strain Review: Effects and THC", URL: "https://site.com/blue-dream/"},
		{Title: "Ontario Retail Report", URL: "https://site.com/ontario/"},
	}
	content := "Fans of Blue Dream Strain keep asking about potency."

	links := RelatedFromCatalog(content, "Weekly News Roundup", catalog)
	if len(links) != 1 {
		t.Fatalf("expected 1 related link, got %d", len(links))
	}
	if links[0].URL != "https://site.com/blue-dream/" {
		t.Errorf("unexpected URL %s", links[0].URL)
	}
	if !strings.EqualFold(links[0].Phrase, "Blue Dream Strain") {
		t.Errorf("unexpected phrase %q", links[0].Phrase)
	}
}

func TestRelatedSkipsSelf(t *testing.T) {
	catalog := []CatalogArticle{
		{Title: "Weekly News Roundup", URL: "https://site.com/self/"},
	}
	links := RelatedFromCatalog("Read the Weekly News Roundup here.", "weekly news roundup", catalog)
	if len(links) != 0 {
		t.Error("article must not link to itself")
	}
}

func TestRelatedSkipsStopWordWindows(t *testing.T) {
	catalog := []CatalogArticle{
		{Title: "The Best of Cannabis", URL: "https://site.com/best/"},
	}
	// Every 2+ word window of this title carries a stop word except
	// "Best of"... which also has one. Nothing should match.
	links := RelatedFromCatalog("The best of cannabis is debatable.", "Other", catalog)
	if len(links) != 0 {
		t.Errorf("expected no links through stop-word windows, got %v", links)
	}
}
