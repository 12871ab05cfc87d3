package property

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9_-]+`)
	dashRun       = regexp.MustCompile(`-{2,}`)
)

// Slug derives the URL-friendly identifier of a title.
// "Modern 2BR Flat!!" becomes "modern-2br-flat".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
