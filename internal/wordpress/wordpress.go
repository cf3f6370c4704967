// Package wordpress is a minimal client for the WordPress REST API v2,
// covering what publishing needs: creating posts under custom post
// types, resolving categories, tags and authors to their IDs, and
// uploading featured images to the media library.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Post types the site exposes as REST endpoints.
const (
	PostTypeNews      = "news"
	PostTypeLifestyle = "cannabis-lifestyle"
)

// Client talks to a single WordPress site using basic auth.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client

	mu      sync.Mutex
	authors map[string]int64
}

func New(siteURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(siteURL, "/") + "/wp-json/wp/v2",
		username: username,
		password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
		authors:  make(map[string]int64),
	}
}

// PostRequest describes a post to create. Categories, tags and author
// are given by name and resolved (or created) on the fly.
type PostRequest struct {
	PostType        string
	Title           string
	Content         string
	Status          string
	Categories      []string
	Tags            []string
	Author          string
	FeaturedMediaID int64
}

// Post is the part of the created post we care about.
type Post struct {
	ID     int64  `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

type postPayload struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Status        string  `json:"status"`
	Categories    []int64 `json:"categories,omitempty"`
	Tags          []int64 `json:"tags,omitempty"`
	Author        int64   `json:"author,omitempty"`
	FeaturedMedia int64   `json:"featured_media,omitempty"`
}

// CreatePost publishes a post. Term and author lookups are best effort:
// a category, tag or author that cannot be resolved is skipped with a
// log line rather than failing the whole post.
func (c *Client) CreatePost(ctx context.Context, req PostRequest) (*Post, error) {
	payload := postPayload{
		Title:         req.Title,
		Content:       req.Content,
		Status:        req.Status,
		FeaturedMedia: req.FeaturedMediaID,
	}
	if payload.Status == "" {
		payload.Status = "publish"
	}
	if len(req.Categories) > 0 {
		payload.Categories = c.resolveTerms(ctx, "categories", req.Categories)
	}
	if len(req.Tags) > 0 {
		payload.Tags = c.resolveTerms(ctx, "tags", req.Tags)
	}
	if req.Author != "" {
		id, err := c.AuthorID(ctx, req.Author)
		if err != nil {
			log.Printf("wordpress: author %q not resolved, using default: %v", req.Author, err)
		} else {
			payload.Author = id
		}
	}

	endpoint := c.baseURL + "/" + postEndpoint(req.PostType)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding post: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(c.username, c.password)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("creating %s post: %w", req.PostType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("creating %s post: unexpected status %d", req.PostType, resp.StatusCode)
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("decoding created post: %w", err)
	}
	return &post, nil
}

func postEndpoint(postType string) string {
	switch postType {
	case PostTypeNews, PostTypeLifestyle:
		return postType
	}
	return "posts"
}

type user struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AuthorID resolves an author display name to a user ID. Results are
// cached for the lifetime of the client.
func (c *Client) AuthorID(ctx context.Context, name string) (int64, error) {
	c.mu.Lock()
	if id, ok := c.authors[name]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var users []user
	if err := c.get(ctx, "/users?search="+url.QueryEscape(name), &users); err != nil {
		return 0, fmt.Errorf("searching author %q: %w", name, err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, name) {
			c.mu.Lock()
			c.authors[name] = u.ID
			c.mu.Unlock()
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("author %q not found", name)
}

// Ping checks that a post type's endpoint is reachable with the
// configured credentials.
func (c *Client) Ping(ctx context.Context, postType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+postEndpoint(postType), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("endpoint %s returned status %d", postEndpoint(postType), resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
