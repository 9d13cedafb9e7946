// Package index maintains a small sqlite database of archived posts. It is
// an auxiliary record for reporting; duplicate suppression is done against
// the markdown files themselves, so a deleted or rebuilt index never causes
// re-saves to be missed or repeated.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/parser"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	post_url TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	media_type TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS saved_posts_url ON saved_posts(post_url) WHERE post_url != '';
CREATE INDEX IF NOT EXISTS saved_posts_author ON saved_posts(author);
`

// Index is an open archive index database.
type Index struct {
	db *sql.DB
}

// Open opens (creating if necessary) the index database at path.
// Use ":memory:" for an ephemeral index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// RecordPost registers a saved post. Posts whose URL is already recorded
// are ignored, so re-archiving is idempotent.
func (ix *Index) RecordPost(post parser.Post, path string) error {
	_, err := ix.db.Exec(
		`INSERT OR IGNORE INTO saved_posts (post_url, author, date, media_type, path) VALUES (?, ?, ?, ?, ?)`,
		post.PostURL, post.Author, post.Date, post.MediaType, path,
	)
	if err != nil {
		return fmt.Errorf("failed to record post: %w", err)
	}
	return nil
}

// Stats summarizes the archive.
type Stats struct {
	Posts      int
	Authors    int
	LatestDate string
}

// Stats reports totals across the whole index.
func (ix *Index) Stats() (Stats, error) {
	var s Stats
	row := ix.db.QueryRow(`SELECT COUNT(*),
		COUNT(DISTINCT author),
		COALESCE(MAX(date), '') FROM saved_posts`)
	if err := row.Scan(&s.Posts, &s.Authors, &s.LatestDate); err != nil {
		return Stats{}, fmt.Errorf("failed to read index stats: %w", err)
	}
	return s, nil
}

// Entry is one recorded post.
type Entry struct {
	PostURL   string
	Author    string
	Date      string
	MediaType string
	Path      string
}

// Recent returns up to limit entries, newest post date first.
func (ix *Index) Recent(limit int) ([]Entry, error) {
	rows, err := ix.db.Query(
		`SELECT post_url, author, date, media_type, path FROM saved_posts ORDER BY date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PostURL, &e.Author, &e.Date, &e.MediaType, &e.Path); err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
