package entities

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// markdownEscaper escapes every character Telegram MarkdownV2 reserves.
// Entities are unescaped first so "&amp;" style payload text renders clean.
var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdown returns text safe to embed in MarkdownV2 messages.
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	return markdownEscaper.Replace(html.UnescapeString(text))
}

var newlineRun = regexp.MustCompile(`\n+`)

// ShrinkText trims the text and collapses every newline run to a single
// newline so rendered messages stay compact.
func ShrinkText(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	return newlineRun.ReplaceAllString(t, "\n")
}

// UserMarkdown renders a linked @mention pointing at the user's space page.
// Both name and id must be set, otherwise the mention is omitted.
func UserMarkdown(user, uid string) string {
	if user == "" || uid == "" || uid == "0" {
		return ""
	}
	return fmt.Sprintf("[@%s](https://space.bilibili.com/%s)", EscapeMarkdown(user), uid)
}

var mediaFilenamePattern = regexp.MustCompile(`/([^/]*\.\w{3,4})(?:$|\?)`)

// MediaFilename extracts the filename with its extension from a media URL,
// or "" when the URL has no recognizable filename component.
func MediaFilename(rawurl string) string {
	m := mediaFilenamePattern.FindStringSubmatch(rawurl)
	if m == nil {
		return ""
	}
	return m[1]
}
