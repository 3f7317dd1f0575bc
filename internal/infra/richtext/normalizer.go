// Package richtext reduces the lightweight RTF encoding to plain text.
// Extraction is a bounded sequence of textual reductions, not a full RTF
// parser: formatting and embedded objects are discarded.
package richtext

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// ExtractionFailedPlaceholder replaces content whose extraction produced an
// unreadable result; normalization never aborts an export.
const ExtractionFailedPlaceholder = "Error processing RTF content"

const header = `{\rtf`

var (
	controlWords = regexp.MustCompile(`\\[a-z0-9]+`)
	braces       = regexp.MustCompile(`\{|\}`)
	hexEscapes   = regexp.MustCompile(`\\'[0-9a-f]{2}`)
	paragraphs   = regexp.MustCompile(`\\par`)
	starGroups   = regexp.MustCompile(`\\\*.*?;`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// IsRichText reports whether trimmed content begins with the RTF header
// marker.
func IsRichText(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), header)
}

// ExtractPlainText applies the fixed reduction sequence: control words,
// braces, hex escapes, paragraph breaks, starred groups, whitespace
// collapse, trim. Running it on its own output is a no-op.
func ExtractPlainText(richContent string) (text string) {
	if richContent == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("cause", r).Msg("RTF extraction failed")
			text = ExtractionFailedPlaceholder
		}
	}()

	text = controlWords.ReplaceAllString(richContent, " ")
	text = braces.ReplaceAllString(text, "")
	text = hexEscapes.ReplaceAllString(text, "")
	text = paragraphs.ReplaceAllString(text, "\n")
	text = starGroups.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Normalize returns the plain-text form of content plus the original rich
// content when one was detected. Already-plain input passes through
// untouched.
func Normalize(content string) (plain string, rich string) {
	if IsRichText(content) {
		return ExtractPlainText(content), content
	}
	return content, ""
}

// DisplayContent returns the reader-facing form of content: the plain
// extraction for rich input, the content itself otherwise.
func DisplayContent(content string) string {
	if IsRichText(content) {
		return ExtractPlainText(content)
	}
	return content
}
