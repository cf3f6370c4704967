package extlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mockProvider struct {
	response string
	err      error
}

func (m *mockProvider) Generate(_ context.Context, _ string, _ int) (string, error) {
	return m.response, m.err
}

func (m *mockProvider) IsConfigured() bool { return true }

const originalHTML = `<html><body>
<article>
<p>Lawmakers cited <a href="https://www.congress.gov/bill/118th-congress/senate-bill/1323">the SAFER Banking Act</a> on Thursday.</p>
<p>See also <a href="https://twitter.com/share?u=x">this tweet</a> and <a href="/about">about us</a>.</p>
<p>A <a href="https://example.org/x">tiny</a> link with short text.</p>
<p>Research from <a href="https://www.nih.gov/cannabis-study">the National Institutes of Health</a> agrees.</p>
</article>
</body></html>`

func TestFromOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(originalHTML))
	}))
	t.Cleanup(server.Close)

	f := New(&mockProvider{}, []string{"twitter.com", "facebook.com"})
	got := f.FromOriginal(context.Background(), server.URL)

	want := []Source{
		{URL: "https://www.congress.gov/bill/118th-congress/senate-bill/1323", Description: "the SAFER Banking Act"},
		{URL: "https://www.nih.gov/cannabis-study", Description: "the National Institutes of Health"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOriginalFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	f := New(&mockProvider{}, nil)
	if got := f.FromOriginal(context.Background(), server.URL); got != nil {
		t.Errorf("expected no sources on fetch error, got %v", got)
	}
}

func TestParseSources(t *testing.T) {
	resp := `Here are the sources you asked for:
SOURCE 1: https://www.fda.gov/cannabis | FDA's cannabis regulation overview
SOURCE 2: [https://www.congress.gov/bill] | Text of the bill
SOURCE 3: not-a-url | broken
garbage line
SOURCE 4 missing separator`

	got := parseSources(resp)
	want := []Source{
		{URL: "https://www.fda.gov/cannabis", Description: "FDA's cannabis regulation overview"},
		{URL: "https://www.congress.gov/bill", Description: "Text of the bill"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parsed sources mismatch (-want +got):\n%s", diff)
	}
}

func TestAdditionalValidatesSuggestions(t *testing.T) {
	reachable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD validation, got %s", r.Method)
		}
	}))
	t.Cleanup(reachable.Close)
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(dead.Close)

	provider := &mockProvider{response: "SOURCE 1: " + reachable.URL + " | works\n" +
		"SOURCE 2: " + dead.URL + " | gone\n" +
		"SOURCE 3: https://facebook.com/page | social"}
	f := New(provider, []string{"facebook.com"})

	got, err := f.Additional(context.Background(), "Title", "Content", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Source{{URL: reachable.URL, Description: "works"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("validated sources mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbed(t *testing.T) {
	linked := `<p>See <a href="https://www.fda.gov/cannabis" target="_blank" rel="noopener">the FDA</a>.</p>`
	f := New(&mockProvider{response: linked}, nil)

	got := f.Embed(context.Background(), "<p>See the FDA.</p>", []Source{{URL: "https://www.fda.gov/cannabis", Description: "FDA"}})
	if got != linked {
		t.Errorf("unexpected embed result %q", got)
	}
}

func TestEmbedFallsBackOnError(t *testing.T) {
	content := "<p>Original.</p>"
	f := New(&mockProvider{err: context.DeadlineExceeded}, nil)

	if got := f.Embed(context.Background(), content, []Source{{URL: "https://x.gov"}}); got != content {
		t.Errorf("expected original content on error, got %q", got)
	}
	if got := f.Embed(context.Background(), content, nil); got != content {
		t.Errorf("expected original content with no sources, got %q", got)
	}
}
