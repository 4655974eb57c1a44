package measure

import (
	"errors"

	"github.com/alnah/go-md2cards/internal/flow"
)

// Resolve returns a copy of elems with Height and SubHeights filled in.
//
// Each block is measured with primary. When primary is nil or fails, fallback
// is used and a Warning is recorded; a nil fallback means HeuristicOracle.
// If the fallback fails too, the block gets height 0 and the warning carries
// both errors. Manual breaks are always 0. A list group's height is the sum of
// its item heights. Negative results are clamped to 0.
//
// elems is not modified.
func Resolve(elems []flow.Element, primary, fallback Oracle, width int) ([]flow.Element, []Warning) {
	if fallback == nil {
		fallback = HeuristicOracle{}
	}
	r := &resolver{primary: primary, fallback: fallback, width: width}

	out := make([]flow.Element, len(elems))
	for i := range elems {
		e := elems[i].Clone()
		switch e.Kind {
		case flow.KindManualBreak:
			e.Height = 0
			e.SubHeights = nil
		case flow.KindListGroup:
			r.list(&e)
		default:
			e.Height = r.measure(e.ID, -1, Request{Kind: e.Kind, Level: e.Level, Content: e.Content})
		}
		out[i] = e
	}
	return out, r.warnings
}

type resolver struct {
	primary  Oracle
	fallback Oracle
	width    int
	warnings []Warning
}

// list measures each item of a list group. A group without item payloads is
// measured as a single item.
func (r *resolver) list(e *flow.Element) {
	items := e.Items
	if len(items) == 0 {
		items = []flow.Content{e.Content}
	}
	e.SubHeights = make([]int, len(items))
	e.Height = 0
	for i, it := range items {
		h := r.measure(e.ID, i, Request{Kind: e.Kind, Item: i, Items: len(items), Content: it})
		e.SubHeights[i] = h
		e.Height += h
	}
}

func (r *resolver) measure(id, item int, req Request) int {
	var primaryErr error
	if r.primary != nil {
		h, err := r.primary.Measure(req, r.width)
		if err == nil {
			return max(h, 0)
		}
		primaryErr = err
	}

	h, err := r.fallback.Measure(req, r.width)
	if err != nil {
		r.warnings = append(r.warnings, Warning{
			ElementID: id,
			Item:      item,
			Err:       errors.Join(ErrNoMeasurement, primaryErr, err),
		})
		return 0
	}
	if primaryErr != nil {
		r.warnings = append(r.warnings, Warning{ElementID: id, Item: item, Err: primaryErr})
	}
	return max(h, 0)
}
