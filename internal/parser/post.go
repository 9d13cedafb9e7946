// Package parser converts raw LinkedIn feed markup into structured post
// records: relative-date normalization, engagement-count decoding, per-field
// best-effort HTML extraction, and selection filtering between the scan and
// scrape phases.
package parser

// PostPreview is the lightweight per-post result of the scan phase.
//
// Index is the post's position in the feed at the moment of the scan
// (newest first). It is a position, not a stable identifier, and is only
// meaningful against that same scan.
type PostPreview struct {
	Index     int    `json:"index"`
	DateText  string `json:"date_text"`
	Headline  string `json:"headline"`
	ElementID string `json:"element_id"`
}

// RawPost is one feed item's full serialized markup as returned by the
// scrape phase. Index is the item's position in the feed at extraction time
// (before the oldest-first reordering), so it can be matched against
// indices chosen during a scan.
type RawPost struct {
	HTML      string `json:"html"`
	DateText  string `json:"date_text"`
	ElementID string `json:"element_id"`
	Index     int    `json:"index"`
}

// Media type labels assigned by ParsePost.
const (
	MediaVideo        = "Video"
	MediaImage        = "Image"
	MediaArticle      = "Article"
	MediaYouTubeVideo = "YouTube Video"
	MediaSharedPost   = "Shared Post"
	MediaPoll         = "Poll"
)

// Post is a fully parsed post record. It is built once by ParsePost and
// never mutated afterwards.
type Post struct {
	Author    string
	Date      string // canonical YYYY-MM-DD
	DateRaw   string // original date text, e.g. "2w"
	Content   string // plain text, line breaks preserved
	PostURL   string // canonical permalink, empty if not derivable
	Reactions int
	Comments  int
	Reposts   int
	MediaType string // one of the Media* labels, or empty
	MediaLink string
	ElementID string // LinkedIn URN
}
