package md2cards

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2cards/internal/measure"
	"github.com/alnah/go-md2cards/internal/pagination"
)

// Preset names a card size.
type Preset int

// Card size presets.
const (
	PresetSmall Preset = iota + 1
	PresetMedium
	PresetLarge
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = PresetMedium

// presetLayout holds the geometry and pagination defaults of one preset.
type presetLayout struct {
	size     PageSize
	keepWith int
}

var presets = map[Preset]presetLayout{
	PresetSmall:  {PageSize{Width: 720, Height: 960, Padding: Padding{Top: 35, Bottom: 50, Side: 30}}, 100},
	PresetMedium: {PageSize{Width: 1080, Height: 1440, Padding: Padding{Top: 45, Bottom: 70, Side: 40}}, 150},
	PresetLarge:  {PageSize{Width: 1440, Height: 1920, Padding: Padding{Top: 55, Bottom: 90, Side: 50}}, 200},
}

// ParsePreset parses "small", "medium" or "large" (case-insensitive).
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return PresetSmall, nil
	case "medium":
		return PresetMedium, nil
	case "large":
		return PresetLarge, nil
	}
	return 0, fmt.Errorf("%w: %q (must be small, medium, or large)", ErrInvalidPreset, s)
}

func (p Preset) String() string {
	switch p {
	case PresetSmall:
		return "small"
	case PresetMedium:
		return "medium"
	case PresetLarge:
		return "large"
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	_, ok := presets[p]
	return ok
}

// PageSize returns the card geometry of the preset, or the zero value for an
// unknown preset.
func (p Preset) PageSize() PageSize {
	return presets[p].size
}

// KeepWith returns the heading keep-with threshold suited to the preset.
func (p Preset) KeepWith() int {
	return presets[p].keepWith
}

// Padding is the space between the card edge and its content, in pixels.
type Padding struct {
	Top, Bottom, Side int
}

// PageSize is the pixel geometry of a card. Height is the pagination budget:
// the height of the content box. Padding surrounds it, so the card itself is
// CardHeight pixels tall.
type PageSize struct {
	Width, Height int
	Padding       Padding
}

// CardHeight returns the outer height of a card whose content fills the
// budget.
func (s PageSize) CardHeight() int {
	return s.Height + s.Padding.Top + s.Padding.Bottom
}

// ContentWidth returns the width text is laid out at.
func (s PageSize) ContentWidth() int {
	return s.Width - 2*s.Padding.Side
}

// Validate checks that the geometry leaves room for content.
func (s PageSize) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d (dimensions must be positive)", ErrInvalidBudget, s.Width, s.Height)
	}
	p := s.Padding
	if p.Top < 0 || p.Bottom < 0 || p.Side < 0 {
		return fmt.Errorf("%w: %d/%d/%d (must be >= 0)", ErrInvalidPadding, p.Top, p.Bottom, p.Side)
	}
	if s.ContentWidth() <= 0 {
		return fmt.Errorf("%w: side padding %d leaves no content width in %dpx", ErrInvalidPadding, p.Side, s.Width)
	}
	return nil
}

// Format selects what Convert produces for each card.
type Format string

// Output formats.
const (
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ParseFormat parses "png" or "html" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (must be png or html)", ErrInvalidFormat, s)
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Input contains the parameters of one conversion.
type Input struct {
	Markdown  string // Markdown content
	SourceDir string // directory relative image paths resolve against (optional)
	CSS       string // extra CSS appended after the theme (optional)
	Title     string // document title of every card; overrides the front matter title (optional)
}

// Fragment places an element, or a range of list items, on a card.
type Fragment struct {
	ID       int    // element id in document order
	Kind     string // element kind, e.g. "heading" or "list"
	From, To int    // list item range [From, To); zero for other kinds
	Height   int
}

// Page is one finished card.
type Page struct {
	Index       int // 1-based
	Total       int
	Fragments   []Fragment
	Height      int // measured content height in pixels
	Budget      int
	BreakBefore bool // opened by a manual break

	HTML string // complete card document
	Data []byte // rendered card in the converter format; nil from Paginate
}

// FillRatio returns Height / Budget.
func (p Page) FillRatio() float64 {
	if p.Budget <= 0 {
		return 0
	}
	return float64(p.Height) / float64(p.Budget)
}

// Overflows reports whether the measured content is taller than the budget.
func (p Page) Overflows() bool {
	return p.Height > p.Budget
}

// Result holds the cards of one conversion. An input without content yields
// no pages.
type Result struct {
	Pages []Page

	// Warnings lists the blocks whose height came from the fallback
	// estimate because the configured oracle could not measure them.
	Warnings []Warning
}

// Warning records a block measured by the fallback estimate.
type Warning = measure.Warning

// Typography is the vertical model shared by the font oracle and the card
// stylesheet.
type Typography = measure.Typography

// DefaultTypography returns the built-in card typography.
func DefaultTypography() Typography {
	return measure.DefaultTypography
}

// HeightOracle measures the rendered height of a block.
type HeightOracle = measure.Oracle

// HeightOracleFunc adapts a function to HeightOracle.
type HeightOracleFunc = measure.OracleFunc

// MeasureRequest describes one block to measure.
type MeasureRequest = measure.Request

// HeuristicOracle estimates heights from character counts. It never fails.
var HeuristicOracle HeightOracle = measure.HeuristicOracle{}

// Pagination defaults.
const (
	DefaultMinFillRatio = pagination.DefaultMinFillRatio
)

func toFragments(frags []pagination.Fragment) []Fragment {
	out := make([]Fragment, len(frags))
	for i, f := range frags {
		out[i] = Fragment{ID: f.ID, Kind: f.Kind.String(), From: f.From, To: f.To, Height: f.Height}
	}
	return out
}
