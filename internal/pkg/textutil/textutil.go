// Package textutil holds the rune-safe text helpers shared by the extractor,
// the pipeline and the list endpoints.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to shortened previews.
const Ellipsis = "..."

// Truncate returns the first max characters of s. It never splits a
// multi-byte character and is idempotent.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// Preview shortens s to max characters and appends Ellipsis when anything
// was cut.
func Preview(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return Truncate(s, max) + Ellipsis
}

// Len counts characters, not bytes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// CollapseBlocks trims every line, splits lines on double spaces and joins
// the non-empty chunks with a single space. It turns the text of a rendered
// HTML page into one paragraph.
func CollapseBlocks(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		for _, chunk := range strings.Split(strings.TrimSpace(line), "  ") {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(chunk)
		}
	}
	return b.String()
}
