package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reScript = regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`)
	reStyle  = regexp.MustCompile(`(?i)<style[^>]*>[\s\S]*?</style>`)
	reBreak  = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)

	stripPolicy = bluemonday.StripTagsPolicy()
	bodyPolicy  = bluemonday.UGCPolicy()
)

// SanitizeHTML strips HTML tags, script/style content, and decodes entities
func SanitizeHTML(s string) string {
	// Decode first so escaped tags are recognized
	s = html.UnescapeString(s)
	s = reScript.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// PlainText converts an HTML message body to plain text, keeping paragraph breaks.
func PlainText(s string) string {
	s = reBreak.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = SanitizeHTML(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// SafeBody removes scripts, event handlers and other unsafe markup from an
// outgoing message body while keeping basic formatting.
func SafeBody(s string) string {
	return strings.TrimSpace(bodyPolicy.Sanitize(s))
}

// FoldAccents removes diacritics, e.g. "José Núñez" becomes "Jose Nunez".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeSearch lower-cases and accent-folds s for case-insensitive matching.
func NormalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(FoldAccents(s)))
}
