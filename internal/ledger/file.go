package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kalebv467-cell/auto-posting/internal/urls"
)

// entry is one line of the append-only log. Kind "mark" creates a record,
// kind "post" attaches a published post id to an existing one. Replaying
// the log in order reconstructs the full ledger state.
type entry struct {
	Kind     string `json:"kind"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
	UsedAt   string `json:"used_at,omitempty"`
	PostID   int64  `json:"post_id,omitempty"`
}

// File is a Ledger backed by an append-only JSON-lines file. It replaces the
// pair of flat stores an earlier incarnation of this system kept (a JSON
// map and a plain-text URL blacklist) with a single log. Marks are appended
// and fsynced before MarkUsed returns.
type File struct {
	mu      sync.Mutex
	path    string
	records map[string]*Record
}

var _ Ledger = (*File)(nil)

// OpenFile opens (or creates) a file-backed ledger at path and replays the
// existing log into memory.
func OpenFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	f := &File{path: path, records: make(map[string]*Record)}
	if err := f.replay(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) replay() error {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening ledger log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e entry
		if err := json.Unmarshal(line, &e); err != nil {
			// A torn final line from a crash mid-append is not fatal.
			log.Printf("skipping malformed ledger line: %v", err)
			continue
		}
		switch e.Kind {
		case "mark":
			usedAt, _ := time.Parse(timeLayout, e.UsedAt)
			f.records[e.URL] = &Record{
				NormalizedURL: e.URL,
				Title:         e.Title,
				Category:      e.Category,
				UsedAt:        usedAt,
			}
		case "post":
			if rec, ok := f.records[e.URL]; ok {
				id := e.PostID
				rec.PostID = &id
			}
		}
	}
	return scanner.Err()
}

// Close is a no-op for the file backend; every write is already flushed.
func (f *File) Close() error {
	return nil
}

// IsUsed checks in-memory membership by normalized URL.
func (f *File) IsUsed(_ context.Context, url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[urls.Normalize(url)]
	return ok
}

// MarkUsed appends a mark entry and fsyncs it before returning. Marking an
// already-used URL is a no-op.
func (f *File) MarkUsed(_ context.Context, url, title, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := urls.Normalize(url)
	if _, ok := f.records[key]; ok {
		return nil
	}

	now := time.Now().UTC()
	e := entry{
		Kind:     "mark",
		URL:      key,
		Title:    title,
		Category: category,
		UsedAt:   now.Format(timeLayout),
	}
	if err := f.append(e); err != nil {
		return fmt.Errorf("marking %s used: %w", url, err)
	}

	f.records[key] = &Record{
		NormalizedURL: key,
		Title:         title,
		Category:      category,
		UsedAt:        now,
	}
	return nil
}

// RecordPostID appends a post entry for an existing record. Unknown URLs
// are a no-op.
func (f *File) RecordPostID(_ context.Context, url string, postID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := urls.Normalize(url)
	rec, ok := f.records[key]
	if !ok {
		log.Printf("ledger has no record for %s, skipping post id %d", url, postID)
		return nil
	}

	if err := f.append(entry{Kind: "post", URL: key, PostID: postID}); err != nil {
		return fmt.Errorf("recording post id for %s: %w", url, err)
	}
	rec.PostID = &postID
	return nil
}

// Stats aggregates the in-memory records.
func (f *File) Stats(_ context.Context) (*Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &Stats{ByCategory: make(map[string]int)}
	for _, r := range f.records {
		stats.Total++
		stats.ByCategory[r.Category]++
	}
	return stats, nil
}

func (f *File) append(e entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return err
	}
	return file.Sync()
}
