package content

import (
	"html"
	"regexp"
	"strings"
)

var (
	stylePattern      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

func looksLikeHTML(body string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html")
}

// StripHTML reduces an HTML payload to its visible text: style and script
// blocks go first, then remaining tags, then whitespace is collapsed.
func StripHTML(body string) string {
	text := stylePattern.ReplaceAllString(body, " ")
	text = scriptPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
