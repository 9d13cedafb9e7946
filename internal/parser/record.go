package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	brTag       = regexp.MustCompile(`(?i)<br\s*/?>`)
	activityID  = regexp.MustCompile(`activity:(\d+)`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	trailingWS  = regexp.MustCompile(`[ \t]+\n`)
	postURLBase = "https://www.linkedin.com/feed/update/urn:li:activity:%s/"
)

// Media containers checked in order; the first match decides the label and
// the media link is the container's first anchor.
var mediaChecks = []struct {
	selector string
	label    string
}{
	{"div.update-components-video", MediaVideo},
	{"div.update-components-linkedin-video", MediaVideo},
	{"div.update-components-image", MediaImage},
	{"article.update-components-article", MediaArticle},
	{"div.feed-shared-external-video__meta", MediaYouTubeVideo},
	{"div[class*='feed-shared-mini-update-v2']", MediaSharedPost},
	{"div[class*='feed-shared-poll']", MediaPoll},
}

// Content containers tried in order; the first one yielding non-empty text
// wins.
var contentSelectors = []string{
	"div[class*='feed-shared-update-v2__description']",
	"div[class*='feed-shared-update-v2__commentary']",
	"span[class*='update-components-text']",
}

// ParsePost converts one post's raw markup into a Post record. dateText, if
// non-empty, overrides whatever date the markup contains (the scrape phase
// extracts it from the live document, where it is more reliable). elementID
// is the feed item's URN and is the only source of the permalink.
//
// Every field is extracted independently and best-effort: a missing or
// unrecognizable element yields that field's zero value, never an error.
func ParsePost(rawHTML, dateText, elementID string) Post {
	// Turn line-break tags into literal newlines before parsing so that
	// multi-paragraph posts survive text extraction.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(brTag.ReplaceAllString(rawHTML, "\n")))
	if err != nil {
		return Post{
			Date:      NormalizeDate(dateText),
			DateRaw:   dateText,
			PostURL:   permalinkFromURN(elementID),
			ElementID: elementID,
		}
	}

	if dateText == "" {
		dateText = hiddenOrFullText(doc.Find("span[class*='update-components-actor__sub-description']").First())
	}

	mediaType, mediaLink := extractMedia(doc)

	return Post{
		Author:    hiddenOrFullText(doc.Find("span[class*='update-components-actor__name']").First()),
		Date:      NormalizeDate(dateText),
		DateRaw:   dateText,
		Content:   extractContent(doc),
		PostURL:   permalinkFromURN(elementID),
		Reactions: extractEngagement(doc, "reaction"),
		Comments:  extractEngagement(doc, "comment"),
		Reposts:   extractEngagement(doc, "repost"),
		MediaType: mediaType,
		MediaLink: mediaLink,
		ElementID: elementID,
	}
}

// hiddenOrFullText prefers a visually-hidden accessible-text child, which
// LinkedIn keeps free of decoration, over the element's full text.
func hiddenOrFullText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if hidden := sel.Find("span.visually-hidden").First(); hidden.Length() > 0 {
		return strings.TrimSpace(hidden.Text())
	}
	return strings.TrimSpace(sel.Text())
}

func extractContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := cleanText(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

// cleanText trims per-line indentation left over from the markup and
// collapses runs of blank lines, keeping at most one.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = trailingWS.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func permalinkFromURN(elementID string) string {
	m := activityID.FindStringSubmatch(elementID)
	if m == nil {
		return ""
	}
	return fmt.Sprintf(postURLBase, m[1])
}

func extractMedia(doc *goquery.Document) (mediaType, mediaLink string) {
	for _, check := range mediaChecks {
		sel := doc.Find(check.selector).First()
		if sel.Length() == 0 {
			continue
		}
		link, _ := sel.Find("a[href]").First().Attr("href")
		return check.label, link
	}
	return "", ""
}

// extractEngagement finds buttons whose accessible label mentions the given
// keyword and decodes the last one carrying text. LinkedIn frequently
// renders the same counter twice; the last occurrence is the visible one.
func extractEngagement(doc *goquery.Document, keyword string) int {
	var texts []string
	doc.Find("button[aria-label]").Each(func(_ int, sel *goquery.Selection) {
		label, _ := sel.Attr("aria-label")
		if strings.Contains(strings.ToLower(label), keyword) {
			texts = append(texts, strings.TrimSpace(sel.Text()))
		}
	})
	for i := len(texts) - 1; i >= 0; i-- {
		if texts[i] != "" {
			return DecodeEngagement(texts[i])
		}
	}
	return 0
}
