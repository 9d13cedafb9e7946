package index

import (
	"testing"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/parser"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestRecordAndStats(t *testing.T) {
	ix := openTestIndex(t)

	posts := []parser.Post{
		{Author: "John Doe", Date: "2024-01-15", PostURL: "https://example.com/1"},
		{Author: "John Doe", Date: "2024-02-10", PostURL: "https://example.com/2"},
		{Author: "Jane Smith", Date: "2024-01-20", PostURL: "https://example.com/3"},
	}
	for i, p := range posts {
		if err := ix.RecordPost(p, "/archive/post.md"); err != nil {
			t.Fatalf("record %d failed: %v", i, err)
		}
	}

	stats, err := ix.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Posts != 3 || stats.Authors != 2 || stats.LatestDate != "2024-02-10" {
		t.Errorf("stats = %+v, want 3 posts, 2 authors, latest 2024-02-10", stats)
	}
}

func TestRecordPostIdempotentByURL(t *testing.T) {
	ix := openTestIndex(t)

	p := parser.Post{Author: "John Doe", Date: "2024-01-15", PostURL: "https://example.com/1"}
	for i := 0; i < 3; i++ {
		if err := ix.RecordPost(p, "/archive/a.md"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	stats, _ := ix.Stats()
	if stats.Posts != 1 {
		t.Errorf("got %d posts, want 1", stats.Posts)
	}
}

func TestRecordPostAllowsEmptyURLs(t *testing.T) {
	// Posts without a derivable permalink still get recorded.
	ix := openTestIndex(t)

	for i := 0; i < 2; i++ {
		if err := ix.RecordPost(parser.Post{Date: "2024-01-01"}, "/archive/b.md"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	stats, _ := ix.Stats()
	if stats.Posts != 2 {
		t.Errorf("got %d posts, want 2", stats.Posts)
	}
}

func TestRecent(t *testing.T) {
	ix := openTestIndex(t)

	for _, p := range []parser.Post{
		{Author: "A", Date: "2024-01-15", PostURL: "u1"},
		{Author: "B", Date: "2024-03-01", PostURL: "u2"},
		{Author: "C", Date: "2024-02-10", PostURL: "u3"},
	} {
		if err := ix.RecordPost(p, "/x.md"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	entries, err := ix.Recent(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Author != "B" || entries[1].Author != "C" {
		t.Errorf("order wrong: %q, %q", entries[0].Author, entries[1].Author)
	}
}

func TestStatsEmptyIndex(t *testing.T) {
	ix := openTestIndex(t)

	stats, err := ix.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Posts != 0 || stats.LatestDate != "" {
		t.Errorf("stats = %+v, want empty", stats)
	}
}
