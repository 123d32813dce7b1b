// internal/utils/slug.go
package utils

import (
	"regexp"
	"strings"
)

var (
	slugUnsafe      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators  = regexp.MustCompile(`[\s_]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Uzbek Latin letters and apostrophes that would otherwise be dropped.
var slugTransliteration = strings.NewReplacer(
	"o'", "o", "g'", "g", "o‘", "o", "g‘", "g", "ʻ", "", "’", "", "'", "",
)

// Slugify turns a display name into a URL slug: "Yumshoq Divan 3+1" -> "yumshoq-divan-31".
func Slugify(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = slugTransliteration.Replace(result)
	result = slugSeparators.ReplaceAllString(result, "-")
	result = slugUnsafe.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
