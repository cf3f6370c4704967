package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kalebv467-cell/auto-posting/internal/linker"
)

// newTestClient points a Client at an httptest server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "editor", "secret")
}

func TestCreatePost(t *testing.T) {
	var gotPayload postPayload
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]term{{ID: 7, Name: "US Politics"}})
	})
	mux.HandleFunc("/wp-json/wp/v2/tags", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if strings.Contains(r.URL.RawQuery, "politics") {
				json.NewEncoder(w).Encode([]term{{ID: 21, Name: "politics"}})
				return
			}
			json.NewEncoder(w).Encode([]term{})
		case http.MethodPost:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "US Cannabis News" {
				t.Errorf("unexpected tag created: %q", body["name"])
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(term{ID: 33, Name: body["name"]})
		}
	})
	mux.HandleFunc("/wp-json/wp/v2/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]user{{ID: 4, Name: "Rohan"}})
	})
	mux.HandleFunc("/wp-json/wp/v2/news", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "secret" {
			t.Error("missing basic auth on post creation")
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Post{ID: 101, Link: "https://example.com/news/x/", Status: "publish"})
	})

	c := newTestClient(t, mux)
	post, err := c.CreatePost(context.Background(), PostRequest{
		PostType:        PostTypeNews,
		Title:           "Senate Advances Banking Bill",
		Content:         "<p>Body.</p>",
		Categories:      []string{"US Politics"},
		Tags:            []string{"US Cannabis News", "politics"},
		Author:          "rohan",
		FeaturedMediaID: 55,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID != 101 {
		t.Errorf("unexpected post ID %d", post.ID)
	}

	want := postPayload{
		Title:         "Senate Advances Banking Bill",
		Content:       "<p>Body.</p>",
		Status:        "publish",
		Categories:    []int64{7},
		Tags:          []int64{33, 21},
		Author:        4,
		FeaturedMedia: 55,
	}
	if diff := cmp.Diff(want, gotPayload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePostServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	if _, err := c.CreatePost(context.Background(), PostRequest{PostType: PostTypeNews, Title: "x"}); err == nil {
		t.Error("expected error on forbidden response")
	}
}

func TestAuthorIDCaching(t *testing.T) {
	var lookups int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookups++
		json.NewEncoder(w).Encode([]user{{ID: 9, Name: "Kaleb"}})
	}))

	for i := 0; i < 3; i++ {
		id, err := c.AuthorID(context.Background(), "kaleb")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != 9 {
			t.Errorf("unexpected author ID %d", id)
		}
	}
	if lookups != 1 {
		t.Errorf("expected 1 lookup, got %d", lookups)
	}
}

func TestAuthorIDNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]user{{ID: 1, Name: "Someone Else"}})
	}))

	if _, err := c.AuthorID(context.Background(), "kaleb"); err == nil {
		t.Error("expected error for unknown author")
	}
}

func TestUploadMedia(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "politics-capitol.jpg")
	if err := os.WriteFile(path, []byte("fake-jpeg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("title"); got != "Politics Cannabis News" {
			t.Errorf("unexpected title %q", got)
		}
		if got := r.FormValue("alt_text"); got != "Politics Cannabis News" {
			t.Errorf("unexpected alt_text %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		file.Close()
		if header.Filename != "politics-capitol.jpg" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(media{ID: 77})
	}))

	id, err := c.UploadMedia(context.Background(), path, "Politics Cannabis News")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 77 {
		t.Errorf("unexpected media ID %d", id)
	}
}

func TestRecentArticles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/news", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"link":"https://example.com/news/a/","title":{"rendered":"Ohio Sales Hit Record"}}]`))
	})
	mux.HandleFunc("/wp-json/wp/v2/cannabis-lifestyle", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := newTestClient(t, mux)
	got := c.RecentArticles(context.Background())
	want := []linker.CatalogArticle{{Title: "Ohio Sales Hit Record", URL: "https://example.com/news/a/"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}
