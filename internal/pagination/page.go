package pagination

import "github.com/alnah/go-md2cards/internal/flow"

// Fragment places an element, or an item range of a list group, on a page.
type Fragment struct {
	ID           int // element id
	Kind         flow.Kind
	KeepWithNext bool
	From, To     int // list groups: item range [From, To); zero for other kinds
	Height       int
}

// whole returns a fragment covering all of e.
func whole(e *flow.Element) Fragment {
	f := Fragment{ID: e.ID, Kind: e.Kind, KeepWithNext: e.KeepWithNext, Height: e.Height}
	if e.Kind == flow.KindListGroup {
		f.To = len(e.SubHeights)
	}
	return f
}

// items returns a fragment covering items [from, to) of list group e.
func items(e *flow.Element, from, to int) Fragment {
	h := 0
	for _, sh := range e.SubHeights[from:to] {
		h += sh
	}
	return Fragment{ID: e.ID, Kind: e.Kind, From: from, To: to, Height: h}
}

// Page is an ordered run of fragments.
type Page struct {
	Index       int // 1-based
	Fragments   []Fragment
	Height      int // sum of fragment heights
	Budget      int
	BreakBefore bool // opened by a manual break
}

// FillRatio returns Height / Budget.
func (p Page) FillRatio() float64 {
	if p.Budget <= 0 {
		return 0
	}
	return float64(p.Height) / float64(p.Budget)
}

// Overflows reports whether the page holds more than its budget.
func (p Page) Overflows() bool {
	return p.Height > p.Budget
}

// IDs returns the distinct element ids on the page, in order.
func (p Page) IDs() []int {
	ids := make([]int, 0, len(p.Fragments))
	for _, f := range p.Fragments {
		if len(ids) > 0 && ids[len(ids)-1] == f.ID {
			continue
		}
		ids = append(ids, f.ID)
	}
	return ids
}

func (p Page) clone() Page {
	p.Fragments = append([]Fragment(nil), p.Fragments...)
	return p
}

func sumHeights(frags []Fragment) int {
	h := 0
	for _, f := range frags {
		h += f.Height
	}
	return h
}
