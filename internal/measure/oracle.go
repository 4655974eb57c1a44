package measure

import (
	"errors"
	"fmt"

	"github.com/alnah/go-md2cards/internal/flow"
)

// Sentinel errors returned by oracles.
var (
	ErrMissingGlyph  = errors.New("missing glyph")
	ErrUnmeasurable  = errors.New("content cannot be measured")
	ErrUnknownKind   = errors.New("unknown element kind")
	ErrInvalidWidth  = errors.New("invalid content width")
	ErrInvalidFont   = errors.New("invalid font")
	ErrNoMeasurement = errors.New("no oracle produced a height")
)

// Request describes one block to measure: a whole element, or a single item
// of a list group.
type Request struct {
	Kind  flow.Kind
	Level int // headings

	// List items: index of the item and number of items in the group.
	Item, Items int

	flow.Content
}

// Last reports whether the request is the final item of its list group.
func (r Request) Last() bool {
	return r.Items > 0 && r.Item == r.Items-1
}

// Oracle returns the rendered pixel height of a block laid out at the given
// content width.
type Oracle interface {
	Measure(r Request, width int) (int, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(r Request, width int) (int, error)

// Measure calls f(r, width).
func (f OracleFunc) Measure(r Request, width int) (int, error) {
	return f(r, width)
}

// Warning records a measurement that fell back to the secondary oracle.
type Warning struct {
	ElementID int
	Item      int // list item index, -1 for the whole element
	Err       error
}

func (w Warning) Error() string {
	if w.Item >= 0 {
		return fmt.Sprintf("element %d item %d: %v", w.ElementID, w.Item+1, w.Err)
	}
	return fmt.Sprintf("element %d: %v", w.ElementID, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
