package scraper

import (
	"regexp"
	"strings"
)

const (
	loginURL   = "https://www.linkedin.com/login"
	feedURL    = "https://www.linkedin.com/feed/"
	ownProfile = "https://www.linkedin.com/in/me/"

	activitySuffix = "/recent-activity/all/"
)

var (
	profileSlugPattern = regexp.MustCompile(`/in/([^/?#]+)`)
	profileURLPattern  = regexp.MustCompile(`https://www\.linkedin\.com/in/[^/?#]+`)
)

// ProfileSlug extracts the profile handle from a profile reference: the
// path segment after "/in/" for URLs, or the reference itself when it is a
// bare username. Empty when nothing resembling a handle is found.
func ProfileSlug(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if m := profileSlugPattern.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	if !strings.Contains(ref, "linkedin.com") && !strings.Contains(ref, "/") {
		return ref
	}
	return ""
}

// NormalizeProfileURL turns a profile reference (bare username, full
// profile URL, or activity URL) into a canonical profile URL. References
// it cannot interpret are returned trimmed, unchanged.
func NormalizeProfileURL(ref string) string {
	if slug := ProfileSlug(ref); slug != "" {
		return "https://www.linkedin.com/in/" + slug + "/"
	}
	return strings.TrimSpace(ref)
}

// BuildActivityURL builds the canonical recent-activity URL for a profile
// reference. URLs that already point at the activity feed are kept as-is.
func BuildActivityURL(ref string) string {
	ref = strings.TrimRight(strings.TrimSpace(ref), "/")
	if strings.Contains(ref, "/recent-activity/") {
		return ref
	}
	if slug := ProfileSlug(ref); slug != "" {
		return "https://www.linkedin.com/in/" + slug + activitySuffix
	}
	return ref + activitySuffix
}
