package flow

import "fmt"

// Kind identifies the layout behavior of an Element.
type Kind int

// Element kinds. Every switch over Kind must handle all of them.
const (
	KindHeading Kind = iota
	KindParagraph
	KindListGroup
	KindCodeBlock
	KindTable
	KindImage
	KindDivider
	KindManualBreak
)

// kindCount is the number of defined kinds, used for validation.
const kindCount = int(KindManualBreak) + 1

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindListGroup:
		return "list"
	case KindCodeBlock:
		return "code"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindDivider:
		return "divider"
	case KindManualBreak:
		return "break"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < kindCount
}

// Content is the renderable payload of an element or of a single list item.
type Content struct {
	Text       string // plain text, used for measurement
	HTML       string // rendered markup
	Rows       int    // tables: body rows
	HeaderRows int    // tables: header rows
	Intrinsic  int    // images: declared pixel height, 0 if unknown

	// Tables: plain text of each cell, row by row, header rows first.
	Cells [][]string
}

// Element is the atomic unit of layout.
type Element struct {
	ID           int
	Kind         Kind
	Level        int // heading level 1-6
	Height       int // pixels, resolved before pagination
	KeepWithNext bool
	GroupID      int   // non-zero for list groups
	SubHeights   []int // list groups: per-item heights

	Content

	// List groups only.
	Items   []Content
	Ordered bool
	Start   int // first number of an ordered list
}

// Splittable reports whether the element may be divided between pages.
// Only list groups with more than one item qualify; everything else is atomic.
func (e *Element) Splittable() bool {
	switch e.Kind {
	case KindListGroup:
		return len(e.SubHeights) > 1
	case KindHeading, KindParagraph, KindCodeBlock, KindTable, KindImage, KindDivider, KindManualBreak:
		return false
	default:
		panic(fmt.Sprintf("flow: unknown element kind %d", int(e.Kind)))
	}
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	if e.SubHeights != nil {
		e.SubHeights = append([]int(nil), e.SubHeights...)
	}
	if e.Items != nil {
		e.Items = append([]Content(nil), e.Items...)
	}
	return e
}

// String returns a short description for debugging output.
func (e Element) String() string {
	if e.Kind == KindHeading {
		return fmt.Sprintf("#%d h%d (%dpx)", e.ID, e.Level, e.Height)
	}
	return fmt.Sprintf("#%d %s (%dpx)", e.ID, e.Kind, e.Height)
}
