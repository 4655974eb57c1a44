package pagination

import (
	"fmt"

	"github.com/alnah/go-md2cards/internal/flow"
)

// Engine splits flow elements into pages. It holds only validated constants,
// so one Engine may serve any number of runs, concurrently or not.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run paginates elems and rebalances the result.
func (e *Engine) Run(elems []flow.Element) []Page {
	return e.Optimize(e.Paginate(elems))
}

// Paginate performs a single greedy pass with one-element lookahead.
//
// Pages keep document order. A manual break always closes the current page;
// empty pages are never emitted. An element that does not fit moves to a fresh
// page, and one that does not fit an empty page either stands alone on it.
// Oversized list groups are split between items. Headings flagged KeepWithNext
// move to the next page rather than end a page without their content.
//
// elems is not modified.
func (e *Engine) Paginate(elems []flow.Element) []Page {
	b := &builder{budget: e.cfg.Budget, threshold: e.cfg.KeepWithThreshold}

	for i := range elems {
		el := &elems[i]
		switch el.Kind {
		case flow.KindManualBreak:
			b.manualBreak()
			continue
		case flow.KindHeading:
			if el.KeepWithNext && len(b.cur) > 0 && el.Height <= b.room() &&
				!b.keepsWith(el, next(elems, i)) {
				b.breakPage(true)
			}
		case flow.KindParagraph, flow.KindListGroup, flow.KindCodeBlock,
			flow.KindTable, flow.KindImage, flow.KindDivider:
		default:
			panic(fmt.Sprintf("pagination: unknown element kind %d", int(el.Kind)))
		}
		b.place(el)
	}
	b.close()

	return b.pages
}

// next returns the element following index i, or nil at the end of input
// or before a manual break.
func next(elems []flow.Element, i int) *flow.Element {
	if i+1 >= len(elems) || elems[i+1].Kind == flow.KindManualBreak {
		return nil
	}
	return &elems[i+1]
}

// builder accumulates the current page and the completed pages.
type builder struct {
	budget    int
	threshold int

	pages       []Page
	cur         []Fragment
	height      int
	breakBefore bool
}

func (b *builder) room() int {
	return b.budget - b.height
}

func (b *builder) add(f Fragment) {
	b.cur = append(b.cur, f)
	b.height += f.Height
}

// close emits the current page if it holds anything.
func (b *builder) close() {
	if len(b.cur) == 0 {
		return
	}
	b.pages = append(b.pages, Page{
		Index:       len(b.pages) + 1,
		Fragments:   b.cur,
		Height:      b.height,
		Budget:      b.budget,
		BreakBefore: b.breakBefore,
	})
	b.cur = nil
	b.height = 0
	b.breakBefore = false
}

// manualBreak closes the current page. Repeated breaks and a break at the
// start of the document are absorbed.
func (b *builder) manualBreak() {
	b.close()
	b.breakBefore = len(b.pages) > 0
}

// breakPage closes the current page and carries its trailing headings onto the
// next one. Without chain, headings are carried only when the last of them
// keeps with the content that caused the break. With chain, the break is made
// for an incoming heading and any trailing heading belongs with it.
func (b *builder) breakPage(chain bool) {
	n := len(b.cur)
	start := n
	if n > 0 && b.cur[n-1].Kind == flow.KindHeading && (chain || b.cur[n-1].KeepWithNext) {
		for start > 0 && b.cur[start-1].Kind == flow.KindHeading {
			start--
		}
	}
	carry := append([]Fragment(nil), b.cur[start:]...)
	b.cur = b.cur[:start]
	b.height = sumHeights(b.cur)

	if len(b.cur) > 0 {
		b.close()
	}
	for _, f := range carry {
		b.add(f)
	}
}

// onlyHeadings reports whether the current page is empty or holds nothing but
// headings, i.e. whether breaking it would produce the same page again.
func (b *builder) onlyHeadings() bool {
	for _, f := range b.cur {
		if f.Kind != flow.KindHeading {
			return false
		}
	}
	return true
}

// keepsWith decides whether heading h may stay on the current page given the
// element that follows it.
func (b *builder) keepsWith(h, nx *flow.Element) bool {
	if nx == nil {
		return true
	}
	room := b.room() - h.Height
	if nx.Height <= room {
		return true
	}
	return b.listCanStart(nx, room)
}

// listCanStart reports whether oversized list group e may begin in room
// pixels at the bottom of a page under its heading. Its first item must fit
// and the room must cover the keep-with threshold, or the whole list if it is
// shorter than the threshold.
func (b *builder) listCanStart(e *flow.Element, room int) bool {
	if e.Height <= b.budget || !e.Splittable() {
		return false
	}
	return e.SubHeights[0] <= room && room >= min(b.threshold, e.Height)
}

// place adds e to the current page or to a new one.
func (b *builder) place(e *flow.Element) {
	if e.Height <= b.room() {
		b.add(whole(e))
		return
	}

	// An oversized list may start under the heading that ends this page.
	if n := len(b.cur); n > 0 && b.cur[n-1].KeepWithNext && b.listCanStart(e, b.room()) {
		b.split(e)
		return
	}

	b.breakPage(e.Kind == flow.KindHeading)
	if e.Height <= b.room() {
		b.add(whole(e))
		return
	}
	if e.Splittable() {
		b.split(e)
		return
	}

	// Explicit overflow: the element takes the page by itself, after the
	// headings it keeps with, and nothing follows it there.
	b.add(whole(e))
	if b.height > b.budget {
		b.close()
	}
}

// split distributes the items of list group e over as many pages as needed,
// filling each page with the largest prefix of remaining items that fits.
// A single item is never divided; one that fits nowhere stands alone. The
// last part stays open so following elements may join it.
func (b *builder) split(e *flow.Element) {
	n := len(e.SubHeights)
	from := 0
	for from < n {
		k := prefixFit(e.SubHeights[from:], b.room())
		if k == 0 {
			if !b.onlyHeadings() {
				b.breakPage(false)
				continue
			}
			k = 1
		}
		b.add(items(e, from, from+k))
		from += k
		if from < n || b.height > b.budget {
			b.close()
		}
	}
}

// prefixFit returns the number of leading heights whose sum fits in room.
func prefixFit(heights []int, room int) int {
	sum := 0
	for i, h := range heights {
		sum += h
		if sum > room {
			return i
		}
	}
	return len(heights)
}
