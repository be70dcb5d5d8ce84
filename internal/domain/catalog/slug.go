package catalog

import (
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// GenerateSlug derives a URL slug from a product name. Letters of any script
// are kept, punctuation is dropped, and runs of spaces, underscores and
// dashes become a single dash.
func GenerateSlug(name string) string {
	slug := slugStrip.ReplaceAllString(strings.TrimSpace(name), "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = strings.ToLower(slug)

	runes := []rune(slug)
	if len(runes) > MaxSlugLength {
		slug = string(runes[:MaxSlugLength])
	}
	return slug
}
