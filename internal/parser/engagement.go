package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var nonDigits = regexp.MustCompile(`[^\d]`)

// DecodeEngagement converts an abbreviated engagement count like "1.2K",
// "5M" or "1,234" to an integer. Fractional prefixes truncate toward zero
// ("1.2K" becomes 1200). Anything unparseable decodes to 0; this function
// never fails.
func DecodeEngagement(text string) int {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0
	}

	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "K"):
		return scaledCount(strings.ReplaceAll(upper, "K", ""), 1_000)
	case strings.Contains(upper, "M"):
		return scaledCount(strings.ReplaceAll(upper, "M", ""), 1_000_000)
	default:
		digits := nonDigits.ReplaceAllString(text, "")
		if digits == "" {
			return 0
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return n
	}
}

func scaledCount(prefix string, factor float64) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(prefix), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f * factor)
}
