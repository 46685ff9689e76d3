package token

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxSlugLength = 20
	fallbackSlug  = "bill"
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a venue name into a URL-friendly slug: lowercased, with
// punctuation stripped, whitespace/underscore/hyphen runs collapsed into a
// single hyphen, and the result trimmed and capped at 20 characters.
// Names that normalize to nothing fall back to "bill".
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
		s = strings.TrimRight(s, "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}

// NewShareSlug builds a readable, globally unique share token from a venue
// name, e.g. "joes-pizza-grill-x7k2".
func NewShareSlug(venue string) (string, error) {
	suffix, err := NewShort(SlugSuffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", Slugify(venue), suffix), nil
}
