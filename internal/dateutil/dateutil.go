// Package dateutil resolves the card footer date.
//
// A footer date is either literal text, printed as is, or an "auto" value
// formatted from the current time:
//
//	auto               2026-10-19
//	auto:long          October 19, 2026
//	auto:[Week of] D MMM   Week of 19 Oct
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength bounds a format string.
const MaxFormatLength = 50

// autoKeyword selects the current date; autoPrefix introduces a format.
const (
	autoKeyword = "auto"
	autoPrefix  = autoKeyword + ":"
)

// Presets names common formats. Lookup is case-insensitive.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens pairs format tokens with Go reference-time components, longest
// first so "MMMM" is not read as two "MM".
var tokens = [...]struct{ tok, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Layout converts a token format such as "DD/MM/YYYY" into a time.Format
// layout. Text in brackets is copied verbatim; other characters that are not
// tokens are kept as they are.
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	case len(format) > MaxFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			lit, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(lit)
			rest = after
			continue
		}
		n := writeToken(&b, rest)
		if n == 0 {
			b.WriteByte(rest[0])
			n = 1
		}
		rest = rest[n:]
	}
	return b.String(), nil
}

// writeToken writes the layout of the token at the start of s and returns
// its length, or 0 when s does not start with a token.
func writeToken(b *strings.Builder, s string) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.tok) {
			b.WriteString(t.layout)
			return len(t.tok)
		}
	}
	return 0
}

// ResolveDate returns the footer date for value at time now. Values that do
// not start with "auto" (any case) are returned unchanged.
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, autoKeyword) {
		return value, nil
	}

	var format string
	switch {
	case lower == autoKeyword:
		format = Presets["iso"]
	case strings.HasPrefix(lower, autoPrefix):
		format = value[len(autoPrefix):]
		if format == "" {
			return "", fmt.Errorf("%w: nothing after %q", ErrInvalidDateFormat, autoPrefix)
		}
		if preset, ok := Presets[strings.ToLower(format)]; ok {
			format = preset
		}
	default:
		return "", fmt.Errorf("%w: %q, use %q or %q", ErrInvalidDateFormat, value, autoKeyword, autoPrefix+"FORMAT")
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}
