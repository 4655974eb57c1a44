package measure

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/alnah/go-md2cards/internal/flow"
)

// FontOracle measures text by wrapping it with the glyph advances of the Go
// fonts: Go Regular for body text, Go Bold for headings and Go Mono for code.
// Text containing a rune the fonts cannot draw fails with ErrMissingGlyph so
// the caller can fall back to an estimate.
//
// A FontOracle is safe for concurrent use.
type FontOracle struct {
	typo Typography

	regular *sfnt.Font
	bold    *sfnt.Font
	mono    *sfnt.Font

	mu       sync.Mutex
	buf      sfnt.Buffer
	advances map[advanceKey]float64
}

type advanceKey struct {
	f    *sfnt.Font
	size float64
	r    rune
}

var _ Oracle = (*FontOracle)(nil)

// NewFontOracle parses the embedded fonts.
func NewFontOracle(t Typography) (*FontOracle, error) {
	if t.BodySize <= 0 || t.LineHeight <= 0 {
		return nil, fmt.Errorf("%w: body size %.1f, line height %.2f", ErrInvalidFont, t.BodySize, t.LineHeight)
	}
	o := &FontOracle{typo: t, advances: make(map[advanceKey]float64)}

	var err error
	if o.regular, err = sfnt.Parse(goregular.TTF); err != nil {
		return nil, fmt.Errorf("%w: go regular: %v", ErrInvalidFont, err)
	}
	if o.bold, err = sfnt.Parse(gobold.TTF); err != nil {
		return nil, fmt.Errorf("%w: go bold: %v", ErrInvalidFont, err)
	}
	if o.mono, err = sfnt.Parse(gomono.TTF); err != nil {
		return nil, fmt.Errorf("%w: go mono: %v", ErrInvalidFont, err)
	}
	return o, nil
}

// Measure implements Oracle.
func (o *FontOracle) Measure(r Request, width int) (int, error) {
	if width <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	t := o.typo
	w := float64(width)

	switch r.Kind {
	case flow.KindHeading:
		i := min(max(r.Level, 1), 6) - 1
		size := t.HeadingSizes[i]
		lines, err := o.wrap(o.bold, size, r.Text, w)
		if err != nil {
			return 0, err
		}
		return px(float64(lines)*size*t.HeadingLineHeight + t.HeadingSpace[i]), nil

	case flow.KindParagraph:
		if isQuote(r) {
			lines, err := o.wrap(o.regular, t.BodySize, r.Text, w-t.QuoteIndent)
			if err != nil {
				return 0, err
			}
			return px(float64(lines)*o.line() + 2*t.QuotePaddingY + 2*t.QuoteMarginY), nil
		}
		lines, err := o.wrap(o.regular, t.BodySize, r.Text, w)
		if err != nil {
			return 0, err
		}
		return px(float64(lines)*o.line() + t.ParagraphMargin), nil

	case flow.KindListGroup:
		lines, err := o.wrap(o.regular, t.BodySize, r.Text, w-t.ListIndent)
		if err != nil {
			return 0, err
		}
		h := float64(lines)*o.line() + t.ItemMargin
		if r.Item == 0 {
			h += t.ListMargin
		}
		if r.Last() {
			h += t.ListMargin
		}
		return px(h), nil

	case flow.KindCodeBlock:
		if err := o.check(o.mono, r.Text); err != nil {
			return 0, err
		}
		lines := float64(countLines(r.Text))
		return px(lines*t.CodeSize*t.CodeLineHeight + 2*t.CodePadding + 2*t.CodeMargin), nil

	case flow.KindTable:
		if err := o.check(o.regular, r.Text); err != nil {
			return 0, err
		}
		h, err := o.tableHeight(r, w)
		if err != nil {
			return 0, err
		}
		return px(h + 2*t.TableMargin), nil

	case flow.KindImage:
		if r.Intrinsic <= 0 {
			return 0, fmt.Errorf("%w: image without declared height", ErrUnmeasurable)
		}
		return px(float64(r.Intrinsic) + t.ImageMargin), nil

	case flow.KindDivider:
		return px(1 + 2*t.DividerMargin), nil

	case flow.KindManualBreak:
		return 0, nil

	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, int(r.Kind))
	}
}

// tableHeight sums the row heights of a table. Columns share the width
// equally and a row is as tall as its longest wrapped cell. Header cells are
// bold. Without cell text every row is one line tall.
func (o *FontOracle) tableHeight(r Request, w float64) (float64, error) {
	t := o.typo
	line := t.TableSize * t.LineHeight
	pad := 2 * t.TableCellPadY

	if len(r.Cells) == 0 {
		return float64(r.HeaderRows+r.Rows) * (line + pad), nil
	}

	cellWidth := w/float64(tableColumns(r.Cells)) - 2*t.TableCellPadX
	total := 0.0
	for i, row := range r.Cells {
		f := o.regular
		if i < r.HeaderRows {
			f = o.bold
		}
		lines := 1
		for _, cell := range row {
			n, err := o.wrap(f, t.TableSize, cell, max(cellWidth, 1))
			if err != nil {
				return 0, err
			}
			lines = max(lines, n)
		}
		total += float64(lines)*line + pad
	}
	return total, nil
}

// tableColumns returns the cell count of the widest row, at least 1.
func tableColumns(cells [][]string) int {
	n := 1
	for _, row := range cells {
		n = max(n, len(row))
	}
	return n
}

func (o *FontOracle) line() float64 {
	return o.typo.BodySize * o.typo.LineHeight
}

// wrap returns the number of lines text takes at width w. Words wrap greedily
// at spaces; a word wider than a whole line is broken between runes. Each
// newline starts a new line.
func (o *FontOracle) wrap(f *sfnt.Font, size float64, text string, w float64) (int, error) {
	if w <= 0 {
		return 0, fmt.Errorf("%w: %.0f", ErrInvalidWidth, w)
	}
	if text == "" {
		return 1, nil
	}
	space, err := o.advance(f, size, ' ')
	if err != nil {
		return 0, err
	}

	lines := 0
	for _, segment := range strings.Split(text, "\n") {
		cur := 0.0
		for _, word := range strings.Fields(segment) {
			ww, err := o.measureWord(f, size, word)
			if err != nil {
				return 0, err
			}
			if cur > 0 && cur+space+ww <= w {
				cur += space + ww
				continue
			}
			if cur > 0 {
				lines++
				cur = 0
			}
			if ww <= w {
				cur = ww
				continue
			}
			for _, r := range word {
				adv, err := o.advance(f, size, r)
				if err != nil {
					return 0, err
				}
				if cur > 0 && cur+adv > w {
					lines++
					cur = 0
				}
				cur += adv
			}
		}
		lines++
	}
	return lines, nil
}

func (o *FontOracle) measureWord(f *sfnt.Font, size float64, word string) (float64, error) {
	total := 0.0
	for _, r := range word {
		adv, err := o.advance(f, size, r)
		if err != nil {
			return 0, err
		}
		total += adv
	}
	return total, nil
}

// check verifies that f can draw every printable rune of text.
func (o *FontOracle) check(f *sfnt.Font, text string) error {
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		if _, err := o.advance(f, o.typo.BodySize, r); err != nil {
			return err
		}
	}
	return nil
}

// advance returns the horizontal advance of r at the given pixel size.
func (o *FontOracle) advance(f *sfnt.Font, size float64, r rune) (float64, error) {
	key := advanceKey{f: f, size: size, r: r}

	o.mu.Lock()
	defer o.mu.Unlock()

	if adv, ok := o.advances[key]; ok {
		return adv, nil
	}
	idx, err := f.GlyphIndex(&o.buf, r)
	if err != nil {
		return 0, fmt.Errorf("glyph index %U: %w", r, err)
	}
	if idx == 0 {
		return 0, fmt.Errorf("%w: %q (%U)", ErrMissingGlyph, r, r)
	}
	adv, err := f.GlyphAdvance(&o.buf, idx, fixed.Int26_6(math.Round(size*64)), font.HintingNone)
	if err != nil {
		return 0, fmt.Errorf("glyph advance %U: %w", r, err)
	}
	v := float64(adv) / 64
	o.advances[key] = v
	return v, nil
}

// px rounds a layout height up to whole pixels, ignoring float noise.
func px(v float64) int {
	return int(math.Ceil(v - 1e-6))
}
