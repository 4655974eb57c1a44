package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/alnah/go-md2cards/internal/flow"
)

// Highlight placeholders live in the Unicode Private Use Area next to
// flow.BreakRune. Goldmark copies them through untouched, and
// ConvertMarkPlaceholders turns them into <mark> tags afterwards.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)

	// <!-- pagebreak -->, <!-- page-break -->, <!--PageBreak-->
	breakMarker = regexp.MustCompile(`(?i)<!--\s*page-?break\s*-->`)

	// A marker that never closes on its line.
	openBreakMarker = regexp.MustCompile(`(?i)<!--(\s*page-?break)`)

	// ``` or ~~~ fences, indented by at most three spaces.
	fenceLine = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")

	// "- item", "* item", "1. item", "2) item"
	listItemLine = regexp.MustCompile(`^ {0,3}([-+*]|\d{1,9}[.)])(\s|$)`)
)

// MarkdownPreprocessor prepares raw Markdown for conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CardPreprocessor normalizes Markdown and turns manual break markers into
// flow.BreakRune placeholders the block parser understands.
type CardPreprocessor struct{}

var _ MarkdownPreprocessor = (*CardPreprocessor)(nil)

// PreprocessMarkdown normalizes line endings, converts ==highlight== syntax
// and break markers, and compresses runs of blank lines. Fenced and indented
// code blocks and inline code spans are left alone. A marker alone on its
// line becomes a standalone break; one inside a line splits the surrounding
// paragraph. A marker that is never closed is escaped so it renders as text
// instead of opening an HTML comment.
func (p *CardPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertOutsideCode(content, convertLine)
	return compressBlankLines(content)
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertLine converts one prose line. A line holding nothing but markers
// becomes one standalone break per marker.
func convertLine(line string) string {
	if breakMarker.MatchString(line) && strings.TrimSpace(breakMarker.ReplaceAllString(line, "")) == "" {
		n := len(breakMarker.FindAllStringIndex(line, -1))
		return "\n" + strings.Repeat(flow.BreakPlaceholder+"\n\n", n)
	}
	return outsideCodeSpans(line, func(s string) string {
		return convertInlineBreaks(convertHighlights(s))
	})
}

func convertHighlights(s string) string {
	return highlightPattern.ReplaceAllString(s, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

func convertInlineBreaks(s string) string {
	s = breakMarker.ReplaceAllString(s, flow.BreakPlaceholder)
	return openBreakMarker.ReplaceAllString(s, `\<!--$1`)
}

// outsideCodeSpans applies fn to the parts of line that are not inside a
// backtick code span. A backtick run without a closing run of the same
// length is literal text.
func outsideCodeSpans(line string, fn func(string) string) string {
	if !strings.Contains(line, "`") {
		return fn(line)
	}

	var sb strings.Builder
	prose := 0
	for i := 0; i < len(line); {
		if line[i] != '`' {
			i++
			continue
		}
		n := backtickRun(line, i)
		end := closingRun(line, i+n, n)
		if end < 0 {
			i += n
			continue
		}
		sb.WriteString(fn(line[prose:i]))
		sb.WriteString(line[i:end])
		i, prose = end, end
	}
	sb.WriteString(fn(line[prose:]))
	return sb.String()
}

// backtickRun returns the length of the backtick run starting at i.
func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

// closingRun returns the end offset of the first run of exactly n backticks
// at or after i, or -1.
func closingRun(s string, i, n int) int {
	for i < len(s) {
		if s[i] != '`' {
			i++
			continue
		}
		m := backtickRun(s, i)
		if m == n {
			return i + m
		}
		i += m
	}
	return -1
}

// convertOutsideCode applies fn to every line that is not part of a fenced
// or indented code block. An indented line only opens a code block after a
// blank line and outside a list, where indentation means continuation.
func convertOutsideCode(content string, fn func(string) string) string {
	lines := strings.Split(content, "\n")
	var fence string
	prevBlank, indented, inList := true, false, false
	for i, line := range lines {
		if fence != "" {
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			prevBlank = true
			continue
		}
		if m := fenceLine.FindStringSubmatch(line); m != nil {
			fence, indented, prevBlank = m[1], false, false
			continue
		}
		if indentWidth(line) >= 4 && (indented || (prevBlank && !inList)) {
			indented, prevBlank = true, false
			continue
		}

		switch {
		case listItemLine.MatchString(line):
			inList = true
		case prevBlank && indentWidth(line) == 0:
			inList = false
		}
		indented, prevBlank = false, false
		lines[i] = fn(line)
	}
	return strings.Join(lines, "\n")
}

// closesFence reports whether line closes a block opened with fence.
func closesFence(line, fence string) bool {
	m := fenceLine.FindStringSubmatch(line)
	return m != nil && m[1][0] == fence[0] && len(m[1]) >= len(fence) &&
		strings.TrimSpace(line[len(m[0]):]) == ""
}

// indentWidth returns the column of the first non-blank character, with tabs
// stopping at multiples of four.
func indentWidth(line string) int {
	col := 0
	for _, r := range line {
		switch r {
		case ' ':
			col++
		case '\t':
			col += 4 - col%4
		default:
			return col
		}
	}
	return col
}

// ConvertMarkPlaceholders turns highlight placeholders into <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
