package flow

import (
	"regexp"
	"strings"
)

// BreakRune stands in for a manual break marker inside converted text.
// It sits in the Unicode Private Use Area, so it never collides with real
// content and passes through Markdown conversion untouched.
const BreakRune = '\uE002'

// BreakPlaceholder is BreakRune as a string.
const BreakPlaceholder = string(BreakRune)

// breakComment matches the body of an HTML comment that spells a break marker,
// e.g. " pagebreak " or "page-break".
var breakComment = regexp.MustCompile(`(?i)^\s*page-?break\s*$`)

// IsBreakComment reports whether the text of an HTML comment node is a
// manual break marker.
func IsBreakComment(data string) bool {
	return breakComment.MatchString(data)
}

// HasBreak reports whether s contains a break placeholder.
func HasBreak(s string) bool {
	return strings.ContainsRune(s, BreakRune)
}

// StripBreaks removes break placeholders from s.
func StripBreaks(s string) string {
	return strings.ReplaceAll(s, BreakPlaceholder, "")
}

// lineBreakTags matches <br> variants left at the edges of a split paragraph.
var lineBreakTags = regexp.MustCompile(`(?i)^(\s*<br\s*/?>\s*)+|(\s*<br\s*/?>\s*)+$`)

// trimSegment trims whitespace and dangling line breaks from a paragraph piece.
func trimSegment(s string) string {
	return strings.TrimSpace(lineBreakTags.ReplaceAllString(strings.TrimSpace(s), ""))
}
