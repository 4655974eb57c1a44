package measure

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/alnah/go-md2cards/internal/flow"
)

// Heuristic constants, in pixels.
const (
	marginBottom = 20

	paragraphBase = 25
	paragraphLine = 28

	quoteBase   = 60
	quoteIndent = 100

	listItem = 35

	codeBase = 40
	codeLine = 24

	tableHeader = 45
	tableRow    = 40

	dividerHeight = 35
	imageDefault  = 300

	wideRune   = 16 // East Asian wide and fullwidth runes
	narrowRune = 9
)

// headingHeights holds the heading box heights for levels 1 to 6.
var headingHeights = [6]int{90, 70, 60, 50, 45, 40}

// HeuristicOracle estimates heights from character counts without any font
// data. It never fails for known kinds, which makes it the default fallback.
type HeuristicOracle struct{}

var _ Oracle = HeuristicOracle{}

// Measure implements Oracle.
func (HeuristicOracle) Measure(r Request, w int) (int, error) {
	switch r.Kind {
	case flow.KindHeading:
		return headingHeights[min(max(r.Level, 1), 6)-1] + marginBottom, nil
	case flow.KindParagraph:
		if isQuote(r) {
			return quoteBase + estimateLines(r.Text, w-quoteIndent)*paragraphLine + marginBottom, nil
		}
		return paragraphBase + estimateLines(r.Text, w)*paragraphLine + marginBottom, nil
	case flow.KindListGroup:
		h := listItem + (estimateLines(r.Text, w)-1)*paragraphLine
		if r.Last() {
			h += marginBottom
		}
		return h, nil
	case flow.KindCodeBlock:
		return codeBase + countLines(r.Text)*codeLine + marginBottom, nil
	case flow.KindTable:
		return estimateTable(r, w) + marginBottom, nil
	case flow.KindImage:
		if r.Intrinsic > 0 {
			return r.Intrinsic + marginBottom, nil
		}
		return imageDefault + marginBottom, nil
	case flow.KindDivider:
		return dividerHeight, nil
	case flow.KindManualBreak:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, int(r.Kind))
	}
}

// estimateLines returns the number of wrapped lines text takes at width w.
// Each forced line break starts a new line. A non-positive width disables
// wrapping.
func estimateLines(text string, w int) int {
	if text == "" {
		return 1
	}
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		lines++
		if w <= 0 {
			continue
		}
		lines += lineWidth(line) / w
	}
	return lines
}

// estimateTable adds one extra line per row for every time its longest cell
// wraps at an equal share of the width.
func estimateTable(r Request, w int) int {
	h := r.HeaderRows*tableHeader + r.Rows*tableRow
	if len(r.Cells) == 0 {
		return h
	}
	cellWidth := w / tableColumns(r.Cells)
	for _, row := range r.Cells {
		lines := 1
		for _, cell := range row {
			lines = max(lines, estimateLines(cell, cellWidth))
		}
		h += (lines - 1) * paragraphLine
	}
	return h
}

// lineWidth estimates the rendered width of a single line.
func lineWidth(s string) int {
	total := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += wideRune
		default:
			total += narrowRune
		}
	}
	return total
}

// isQuote reports whether a paragraph request is a block quote.
func isQuote(r Request) bool {
	return strings.HasPrefix(r.HTML, "<blockquote")
}

// countLines counts the lines of a code block, ignoring one trailing newline.
func countLines(code string) int {
	return strings.Count(strings.TrimSuffix(code, "\n"), "\n") + 1
}
