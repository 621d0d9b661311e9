package summarizer

import (
	"fmt"
	"strings"
)

// Format selects the shape of a summary.
type Format string

const (
	FormatBullets    Format = "bullets"
	FormatParagraphs Format = "paragraphs"
	FormatNotes      Format = "notes"
	FormatMindmap    Format = "mindmap"
	FormatKeywords   Format = "keywords"
	FormatSlides     Format = "slides"

	DefaultFormat = FormatBullets
)

// Formats lists every supported format.
var Formats = []Format{
	FormatBullets,
	FormatParagraphs,
	FormatNotes,
	FormatMindmap,
	FormatKeywords,
	FormatSlides,
}

// ParseFormat normalizes raw and maps empty or unknown values to bullets.
func ParseFormat(raw string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if f.Valid() {
		return f
	}
	return DefaultFormat
}

// Valid reports whether f is one of Formats.
func (f Format) Valid() bool {
	_, ok := cannedByFormat[f]
	return ok
}

func (f Format) String() string { return string(f) }

// BuildPrompt renders the instruction sent to a language model for text in
// format f. Unknown formats use the bullets template.
func BuildPrompt(text string, f Format) string {
	tmpl, ok := promptTemplates[f]
	if !ok {
		tmpl = promptTemplates[DefaultFormat]
	}
	return fmt.Sprintf(tmpl, text)
}

// Canned returns the fixed summary for f. Unknown formats get bullets.
func Canned(f Format) string {
	if text, ok := cannedByFormat[f]; ok {
		return text
	}
	return cannedByFormat[DefaultFormat]
}
