package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kalebv467-cell/auto-posting/internal/urls"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite is a Ledger backed by a SQLite database. The UNIQUE constraint on
// the normalized URL is what serializes two racing processes down to exactly
// one record.
type SQLite struct {
	conn *sql.DB
	path string
}

var _ Ledger = (*SQLite)(nil)

// OpenSQLite creates or opens the ledger database at the given path.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA synchronous=FULL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting synchronous mode: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &SQLite{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// IsUsed checks membership by normalized URL. Fails open on storage errors.
func (s *SQLite) IsUsed(ctx context.Context, url string) bool {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM used_articles WHERE url = ?", urls.Normalize(url),
	).Scan(&count)
	if err != nil {
		log.Printf("ledger read failed for %s, treating as unused: %v", url, err)
		return false
	}
	return count > 0
}

// MarkUsed inserts a usage record. INSERT OR IGNORE makes a duplicate mark,
// including one from a racing process, a no-op.
func (s *SQLite) MarkUsed(ctx context.Context, url, title, category string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO used_articles (url, title, category, used_at)
		 VALUES (?, ?, ?, ?)`,
		urls.Normalize(url), title, category, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("marking %s used: %w", url, err)
	}
	return nil
}

// RecordPostID updates the published post id on an existing record.
func (s *SQLite) RecordPostID(ctx context.Context, url string, postID int64) error {
	_, err := s.conn.ExecContext(ctx,
		"UPDATE used_articles SET post_id = ? WHERE url = ?",
		postID, urls.Normalize(url),
	)
	if err != nil {
		return fmt.Errorf("recording post id for %s: %w", url, err)
	}
	return nil
}

// Get returns the record for url, or nil if absent.
func (s *SQLite) Get(ctx context.Context, url string) (*Record, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT url, title, category, used_at, post_id FROM used_articles WHERE url = ?",
		urls.Normalize(url),
	)
	var r Record
	var usedAt string
	if err := row.Scan(&r.NormalizedURL, &r.Title, &r.Category, &usedAt, &r.PostID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r.UsedAt, _ = time.Parse(timeLayout, usedAt)
	return &r, nil
}

// Stats aggregates the ledger contents.
func (s *SQLite) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByCategory: make(map[string]int)}

	rows, err := s.conn.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM used_articles GROUP BY category",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
		stats.Total += count
	}
	return stats, rows.Err()
}
