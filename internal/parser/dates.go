package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Absolute formats tried when no relative pattern matches, in order.
var absoluteLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"01-02-2006",
}

type relativePattern struct {
	re   *regexp.Regexp
	calc func(now time.Time, n int) time.Time
}

// Relative patterns in match priority order. Months ("2mo") are checked
// before minutes ("2m") because the minute pattern is a prefix of the month
// pattern and Go's regexp has no lookahead to disambiguate them.
var relativePatterns = []relativePattern{
	{regexp.MustCompile(`^just\s*now`), func(now time.Time, _ int) time.Time { return now }},
	{regexp.MustCompile(`^(\d+)\s*s(?:ec|econds?)?`), func(now time.Time, _ int) time.Time { return now }},
	{regexp.MustCompile(`^(\d+)\s*mo(?:nths?)?`), func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -n*30) }},
	{regexp.MustCompile(`^(\d+)\s*m(?:in|inutes?)?`), func(now time.Time, _ int) time.Time { return now }},
	{regexp.MustCompile(`^(\d+)\s*h(?:r|ours?)?`), func(now time.Time, n int) time.Time { return now.Add(-time.Duration(n) * time.Hour) }},
	{regexp.MustCompile(`^(\d+)\s*d(?:ays?)?`), func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -n) }},
	{regexp.MustCompile(`^(\d+)\s*w(?:k|eeks?)?`), func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -n*7) }},
	{regexp.MustCompile(`^(\d+)\s*yr?(?:ears?)?`), func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -n*365) }},
}

// NormalizeDate converts LinkedIn date text to YYYY-MM-DD.
//
// It handles relative forms ("2h", "3d", "1w", "2mo", "1yr", "just now",
// "3 days"), with or without a trailing bullet separator, and a few absolute
// formats. Months count as 30 days and years as 365; LinkedIn only shows
// coarse relative ages, so calendar arithmetic would be false precision.
// Unparseable input resolves to today's date with a warning. Empty input
// resolves to today silently.
func NormalizeDate(text string) string {
	return normalizeDateAt(text, time.Now())
}

func normalizeDateAt(text string, now time.Time) string {
	if text == "" {
		return now.Format(dateLayout)
	}

	cleaned := text
	for _, sep := range []string{"•", "·"} {
		if i := strings.Index(cleaned, sep); i >= 0 {
			cleaned = cleaned[:i]
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	lowered := strings.ToLower(cleaned)

	for _, p := range relativePatterns {
		m := p.re.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		n := 0
		if len(m) > 1 {
			n, _ = strconv.Atoi(m[1])
		}
		return p.calc(now, n).Format(dateLayout)
	}

	// time.Parse is case-sensitive about month names, so absolute formats
	// are matched against the original-case text.
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(dateLayout)
		}
	}

	slog.Warn("could not parse date text, using today", "text", text)
	return now.Format(dateLayout)
}
