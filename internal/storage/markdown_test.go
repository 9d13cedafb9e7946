package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/parser"
)

func samplePost() parser.Post {
	return parser.Post{
		Author:    "John Doe",
		Date:      "2024-02-10",
		DateRaw:   "2d",
		Content:   "Hello World\nSecond line of the post.",
		PostURL:   "https://www.linkedin.com/feed/update/urn:li:activity:123/",
		Reactions: 10,
		Comments:  2,
		Reposts:   1,
	}
}

func TestSavePostCreatesFile(t *testing.T) {
	dir := t.TempDir()

	path, err := SavePost(samplePost(), dir)
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if path == "" {
		t.Fatal("SavePost returned empty path")
	}
	if filepath.Base(path) != "2024-02-10_hello-world.md" {
		t.Errorf("filename = %q, want %q", filepath.Base(path), "2024-02-10_hello-world.md")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestSavePostWritesFrontmatterAndFooter(t *testing.T) {
	dir := t.TempDir()

	path, err := SavePost(samplePost(), dir)
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"author: John Doe",
		"date: 2024-02-10",
		"source: https://www.linkedin.com/feed/update/urn:li:activity:123/",
		"Hello World\nSecond line of the post.",
		"*Reactions: 10 | Comments: 2 | Reposts: 1*",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("saved file missing %q\n---\n%s", want, content)
		}
	}
	if strings.Contains(content, "media_type:") {
		t.Error("media_type must be omitted when empty")
	}
}

func TestSavePostFooterOmitsZeroCounts(t *testing.T) {
	dir := t.TempDir()
	post := samplePost()
	post.Comments = 0

	path, _ := SavePost(post, dir)
	data, _ := os.ReadFile(path)

	if strings.Contains(string(data), "Comments:") {
		t.Error("zero comment count must be omitted from the footer")
	}
	if !strings.Contains(string(data), "*Reactions: 10 | Reposts: 1*") {
		t.Errorf("footer wrong:\n%s", data)
	}
}

func TestSavePostNoEngagementNoFooter(t *testing.T) {
	dir := t.TempDir()
	post := samplePost()
	post.Reactions, post.Comments, post.Reposts = 0, 0, 0

	path, _ := SavePost(post, dir)
	data, _ := os.ReadFile(path)

	if strings.Count(string(data), "---") != 2 {
		t.Errorf("expected only the frontmatter delimiters:\n%s", data)
	}
}

func TestSavePostEmptyContent(t *testing.T) {
	dir := t.TempDir()
	post := samplePost()
	post.Content = ""

	path, err := SavePost(post, dir)
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if filepath.Base(path) != "2024-02-10_post.md" {
		t.Errorf("filename = %q, want slug %q", filepath.Base(path), "post")
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "*(No text content)*") {
		t.Error("empty content must render the placeholder")
	}
}

func TestSavePostMediaLine(t *testing.T) {
	dir := t.TempDir()
	post := samplePost()
	post.MediaType = parser.MediaImage
	post.MediaLink = "https://example.com/x.jpg"

	path, _ := SavePost(post, dir)
	data, _ := os.ReadFile(path)

	if !strings.Contains(string(data), "media_type: Image") {
		t.Error("frontmatter missing media_type")
	}
	if !strings.Contains(string(data), "**Media:** [Image](https://example.com/x.jpg)") {
		t.Error("media line missing")
	}
}

func TestSavePostSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	post := samplePost()

	first, err := SavePost(post, dir)
	if err != nil || first == "" {
		t.Fatalf("first save failed: path=%q err=%v", first, err)
	}

	second, err := SavePost(post, dir)
	if err != nil {
		t.Fatalf("second save errored: %v", err)
	}
	if second != "" {
		t.Errorf("duplicate save produced %q, want skip", second)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("got %d files, want 1", len(entries))
	}
}

func TestSavePostFindsDuplicateInSubfolder(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "john-doe")
	if _, err := SavePost(samplePost(), sub); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The scan is recursive from the given root.
	path, err := SavePost(samplePost(), dir)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != "" {
		t.Errorf("duplicate in subfolder not detected, wrote %q", path)
	}
}

func TestSavePostResolvesFilenameCollision(t *testing.T) {
	dir := t.TempDir()
	post := samplePost()

	if _, err := SavePost(post, dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Same date and content but a different source URL: same base name,
	// must not be treated as a duplicate.
	other := post
	other.PostURL = "https://www.linkedin.com/feed/update/urn:li:activity:456/"
	path, err := SavePost(other, dir)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "2024-02-10_hello-world_1.md" {
		t.Errorf("collision filename = %q, want numeric suffix", filepath.Base(path))
	}
}

func TestSaveAllReportsProgress(t *testing.T) {
	dir := t.TempDir()
	posts := []parser.Post{samplePost(), samplePost()}
	posts[1].PostURL = posts[0].PostURL // second one is a duplicate

	var calls []string
	saved, err := SaveAll(posts, dir, func(current, total int, path string) {
		calls = append(calls, filepath.Base(path))
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	})
	if err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	if len(saved) != 1 {
		t.Errorf("saved %d files, want 1", len(saved))
	}
	if len(calls) != 2 {
		t.Fatalf("progress called %d times, want 2", len(calls))
	}
	if calls[0] == "." || calls[1] != "." {
		// filepath.Base("") == "."; the duplicate reports an empty path.
		t.Errorf("progress paths = %v", calls)
	}
}

func TestSlugTruncation(t *testing.T) {
	long := strings.Repeat("word ", 30)
	s := makeSlug(long)
	if len(s) > slugMaxLength {
		t.Errorf("slug length %d exceeds %d", len(s), slugMaxLength)
	}
	if strings.HasSuffix(s, "-") {
		t.Errorf("slug %q has trailing hyphen", s)
	}
}

func TestSlugSpecialCharacters(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"Ça c'est génial", "ca-c-est-genial"},
		{"!!!", "post"},
		{"", "post"},
	}
	for _, tt := range tests {
		if got := makeSlug(tt.input); got != tt.want {
			t.Errorf("makeSlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLatestPostDate(t *testing.T) {
	dir := t.TempDir()

	if _, ok := LatestPostDate(dir); ok {
		t.Error("empty folder must report no latest date")
	}

	for _, p := range []parser.Post{
		{Date: "2024-01-15", Content: "Old post", PostURL: "https://example.com/1"},
		{Date: "2024-02-10", Content: "Recent post", PostURL: "https://example.com/2"},
		{Date: "2024-01-20", Content: "Middle post", PostURL: "https://example.com/3"},
	} {
		if _, err := SavePost(p, dir); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// A stray file without a date prefix is ignored.
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("scratch"), 0644)

	latest, ok := LatestPostDate(dir)
	if !ok || latest != "2024-02-10" {
		t.Errorf("LatestPostDate = %q, %v; want 2024-02-10, true", latest, ok)
	}
}

// End-to-end: parse a realistic feed item and archive it.
func TestParseAndSaveScenario(t *testing.T) {
	html := `<div class="feed-shared-update-v2" data-urn="urn:li:activity:777">
	  <span class="update-components-actor__name"><span class="visually-hidden">John Doe</span></span>
	  <span class="update-components-actor__sub-description"><span class="visually-hidden">2d</span></span>
	  <div class="feed-shared-update-v2__description">Hello<br>World</div>
	  <div class="update-components-image"><a href="https://example.com/x.jpg">img</a></div>
	  <button aria-label="10 reactions">10</button>
	  <button aria-label="2 comments">2</button>
	  <button aria-label="1 repost">1</button>
	</div>`

	post := parser.ParsePost(html, "", "urn:li:activity:777")

	wantDate := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	if post.Author != "John Doe" || post.Date != wantDate || post.Content != "Hello\nWorld" {
		t.Fatalf("parsed post wrong: %+v", post)
	}
	if post.MediaType != parser.MediaImage || post.MediaLink != "https://example.com/x.jpg" {
		t.Fatalf("media wrong: %q %q", post.MediaType, post.MediaLink)
	}
	if post.Reactions != 10 || post.Comments != 2 || post.Reposts != 1 {
		t.Fatalf("engagement wrong: %d/%d/%d", post.Reactions, post.Comments, post.Reposts)
	}

	dir := t.TempDir()
	path, err := SavePost(post, dir)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != wantDate+"_hello-world.md" {
		t.Errorf("filename = %q, want %q", filepath.Base(path), wantDate+"_hello-world.md")
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	for _, want := range []string{"author: John Doe", "date: " + wantDate, "source: ", "*Reactions: 10 | Comments: 2 | Reposts: 1*"} {
		if !strings.Contains(content, want) {
			t.Errorf("saved markdown missing %q:\n%s", want, content)
		}
	}
}
