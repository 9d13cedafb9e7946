// Package storage renders parsed posts to markdown files with YAML
// frontmatter and suppresses duplicates already present in the archive.
package storage

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/parser"
)

const (
	slugMaxLength = 50
	// Only the leading frontmatter region is read during the duplicate
	// scan; the source URL always lives there.
	duplicateScanBytes = 500
)

// ProgressFunc is invoked after each save attempt. path is empty when the
// post was skipped as a duplicate.
type ProgressFunc func(current, total int, path string)

// Filename builds the markdown filename for a post:
// <date>_<slug-of-first-content-line>.md.
func Filename(post parser.Post) string {
	date := post.Date
	if date == "" {
		date = "unknown-date"
	}
	return date + "_" + makeSlug(post.Content) + ".md"
}

func makeSlug(content string) string {
	if content == "" {
		return "post"
	}
	firstLine := strings.TrimSpace(strings.SplitN(content, "\n", 2)[0])
	if len(firstLine) > slugMaxLength {
		firstLine = firstLine[:slugMaxLength]
	}
	s := slug.Make(firstLine)
	if len(s) > slugMaxLength {
		s = strings.TrimRight(s[:slugMaxLength], "-")
	}
	if s == "" {
		return "post"
	}
	return s
}

// ToMarkdown renders a post as markdown with frontmatter, body, an optional
// media line and an engagement footer listing only non-zero counts.
func ToMarkdown(post parser.Post) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "author: %s\n", post.Author)
	fmt.Fprintf(&b, "date: %s\n", post.Date)
	fmt.Fprintf(&b, "source: %s\n", post.PostURL)
	if post.MediaType != "" {
		fmt.Fprintf(&b, "media_type: %s\n", post.MediaType)
	}
	b.WriteString("---\n\n")

	if post.Content != "" {
		b.WriteString(post.Content)
	} else {
		b.WriteString("*(No text content)*")
	}
	b.WriteString("\n\n")

	if post.MediaLink != "" {
		label := post.MediaType
		if label == "" {
			label = "Link"
		}
		fmt.Fprintf(&b, "**Media:** [%s](%s)\n\n", label, post.MediaLink)
	}

	var engagement []string
	if post.Reactions > 0 {
		engagement = append(engagement, fmt.Sprintf("Reactions: %d", post.Reactions))
	}
	if post.Comments > 0 {
		engagement = append(engagement, fmt.Sprintf("Comments: %d", post.Comments))
	}
	if post.Reposts > 0 {
		engagement = append(engagement, fmt.Sprintf("Reposts: %d", post.Reposts))
	}
	if len(engagement) > 0 {
		fmt.Fprintf(&b, "---\n*%s*\n", strings.Join(engagement, " | "))
	}

	return b.String()
}

// isDuplicate reports whether the post's source URL already appears in the
// frontmatter of any markdown file under outputDir. Linear in the number of
// existing files, which is fine for personal archives.
func isDuplicate(outputDir string, post parser.Post) bool {
	if post.PostURL == "" {
		return false
	}

	found := false
	filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		head := make([]byte, duplicateScanBytes)
		n, _ := io.ReadFull(f, head)
		f.Close()
		if strings.Contains(string(head[:n]), post.PostURL) {
			found = true
		}
		return nil
	})
	return found
}

// SavePost writes one post as markdown under outputDir. It returns the
// written path, or an empty path when the post was already archived.
// Filename collisions are resolved with a numeric suffix.
func SavePost(post parser.Post, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if isDuplicate(outputDir, post) {
		slog.Info("skipping duplicate post", "url", post.PostURL)
		return "", nil
	}

	path := filepath.Join(outputDir, Filename(post))
	base := strings.TrimSuffix(path, ".md")
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = fmt.Sprintf("%s_%d.md", base, counter)
	}

	if err := os.WriteFile(path, []byte(ToMarkdown(post)), 0644); err != nil {
		return "", fmt.Errorf("failed to write post file: %w", err)
	}

	slog.Info("saved post", "path", path)
	return path, nil
}

// SaveAll saves a sequence of posts, invoking progress after each attempt,
// and returns the paths actually written. Duplicates are skipped, not
// errors; the first I/O failure aborts the batch.
func SaveAll(posts []parser.Post, outputDir string, progress ProgressFunc) ([]string, error) {
	var saved []string
	total := len(posts)

	for i, post := range posts {
		path, err := SavePost(post, outputDir)
		if err != nil {
			return saved, err
		}
		if path != "" {
			saved = append(saved, path)
		}
		if progress != nil {
			progress(i+1, total, path)
		}
	}

	return saved, nil
}
