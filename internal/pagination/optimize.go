package pagination

import "github.com/alnah/go-md2cards/internal/flow"

// Optimize rebalances underfilled pages by pulling content forward from the
// page before them. It walks adjacent pairs from the end, repeating until a
// pass makes no move, so optimizing its own output changes nothing.
//
// A move takes the trailing unit of page n-1 (its last fragment and the
// headings right before it) to the front of page n. It happens only when page
// n is below MinFillRatio, page n-1 stays at or above it, page n stays within
// budget, and page n was not opened by a manual break. Pages are never emptied
// and never reordered.
//
// pages is not modified.
func (e *Engine) Optimize(pages []Page) []Page {
	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = p.clone()
	}
	if e.cfg.MinFillRatio <= 0 || len(out) < 2 {
		return renumber(out)
	}

	for {
		moved := false
		for n := len(out) - 1; n > 0; n-- {
			for e.pull(&out[n-1], &out[n]) {
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return renumber(out)
}

// pull moves one trailing unit from prev to next and reports whether it did.
func (e *Engine) pull(prev, next *Page) bool {
	if next.BreakBefore || next.FillRatio() >= e.cfg.MinFillRatio {
		return false
	}
	start := trailingUnit(prev.Fragments)
	if start == 0 {
		return false
	}
	unit := prev.Fragments[start:]
	h := sumHeights(unit)

	rest := Page{Height: prev.Height - h, Budget: prev.Budget}
	if rest.FillRatio() < e.cfg.MinFillRatio {
		return false
	}
	if next.Height+h > next.Budget {
		return false
	}

	frags := make([]Fragment, 0, len(unit)+len(next.Fragments))
	frags = append(frags, unit...)
	frags = append(frags, next.Fragments...)
	next.Fragments = merge(frags)
	next.Height += h

	prev.Fragments = prev.Fragments[:start:start]
	prev.Height -= h
	return true
}

// trailingUnit returns the index where the last fragment of frags, together
// with the headings directly before it, begins.
func trailingUnit(frags []Fragment) int {
	start := len(frags) - 1
	if start < 0 {
		return 0
	}
	for start > 0 && frags[start-1].Kind == flow.KindHeading {
		start--
	}
	return start
}

// merge joins adjacent fragments of the same list group.
func merge(frags []Fragment) []Fragment {
	out := frags[:0]
	for _, f := range frags {
		if n := len(out); n > 0 && f.Kind == flow.KindListGroup &&
			out[n-1].ID == f.ID && out[n-1].To == f.From {
			out[n-1].To = f.To
			out[n-1].Height += f.Height
			continue
		}
		out = append(out, f)
	}
	return out
}

func renumber(pages []Page) []Page {
	for i := range pages {
		pages[i].Index = i + 1
	}
	return pages
}
