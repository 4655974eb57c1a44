package flow

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Flatten converts a block tree into the ordered element sequence used by
// pagination. The tree is visited depth-first in pre-order and is not modified.
// A nil root yields no elements.
func Flatten(root *Block) []Element {
	f := &flattener{}
	if root != nil {
		f.walk(root)
	}
	markKeepWithNext(f.out)
	return f.out
}

type flattener struct {
	out     []Element
	groupID int
}

func (f *flattener) emit(e Element) {
	e.ID = len(f.out)
	f.out = append(f.out, e)
}

func (f *flattener) emitBreak() {
	f.emit(Element{Kind: KindManualBreak})
}

func (f *flattener) walk(b *Block) {
	switch b.Kind {
	case BlockContainer:
		for _, c := range b.Children {
			f.walk(c)
		}
	case BlockHeading:
		f.heading(b)
	case BlockParagraph:
		f.paragraph(b)
	case BlockQuote:
		f.emit(Element{Kind: KindParagraph, Content: stripContent(b.Content)})
	case BlockList:
		f.list(b, b.Children)
	case BlockListItem:
		f.list(&Block{Kind: BlockList, Start: 1}, []*Block{b})
	case BlockCode:
		f.emit(Element{Kind: KindCodeBlock, Content: stripContent(b.Content)})
	case BlockTable:
		f.atomic(KindTable, b)
	case BlockImage:
		f.emit(Element{Kind: KindImage, Content: stripContent(b.Content)})
	case BlockDivider:
		f.emit(Element{Kind: KindDivider, Content: stripContent(b.Content)})
	case BlockBreak:
		f.emitBreak()
	default:
		panic(fmt.Sprintf("flow: unknown block kind %d", int(b.Kind)))
	}
}

// heading emits a heading. A marker inside heading text cannot split the
// heading, so it becomes a break right after it.
func (f *flattener) heading(b *Block) {
	broken := HasBreak(b.Text) || HasBreak(b.HTML)
	f.emit(Element{Kind: KindHeading, Level: clampLevel(b.Level), Content: stripContent(b.Content)})
	if broken {
		f.emitBreak()
	}
}

// atomic emits a block that cannot be split. A marker inside it, such as one
// in a table cell, becomes a break right after it.
func (f *flattener) atomic(kind Kind, b *Block) {
	f.emit(Element{Kind: kind, Content: stripContent(b.Content)})
	if HasBreak(b.Text) || HasBreak(b.HTML) {
		f.emitBreak()
	}
}

// paragraph emits a paragraph, splitting it at every break marker.
// Empty pieces are dropped; the breaks between them are kept.
func (f *flattener) paragraph(b *Block) {
	if !HasBreak(b.Text) && !HasBreak(b.Inner) && !HasBreak(b.HTML) {
		f.emit(Element{Kind: KindParagraph, Content: b.Content})
		return
	}

	textParts := strings.Split(b.Text, BreakPlaceholder)
	var innerParts []string
	if b.Inner != "" {
		innerParts = strings.Split(b.Inner, BreakPlaceholder)
	}
	n := max(len(textParts), len(innerParts))

	for i := 0; i < n; i++ {
		if i > 0 {
			f.emitBreak()
		}
		text := strings.TrimSpace(part(textParts, i))
		inner := trimSegment(part(innerParts, i))
		if inner == "" {
			inner = html.EscapeString(text)
		}
		if inner == "" {
			continue
		}
		f.emit(Element{Kind: KindParagraph, Content: Content{
			Text: text,
			HTML: "<p>" + inner + "</p>",
		}})
	}
}

// list collapses the items of one list root into a list group. A marker
// inside an item ends the group after that item and forces a break; the
// remaining items form a new group that keeps the numbering.
func (f *flattener) list(root *Block, children []*Block) {
	start := root.Start
	if start == 0 {
		start = 1
	}

	var items []Content
	split := false
	flush := func() {
		if len(items) == 0 {
			return
		}
		markup := StripBreaks(root.HTML)
		if split {
			markup = listHTML(root.Ordered, start, items)
		}
		f.listGroup(root.Ordered, start, items, markup)
		start += len(items)
		items = nil
	}

	for _, c := range children {
		if c.Kind != BlockListItem {
			continue
		}
		items = append(items, stripContent(c.Content))
		if HasBreak(c.Text) || HasBreak(c.HTML) {
			split = true
			flush()
			f.emitBreak()
		}
	}
	flush()
}

func (f *flattener) listGroup(ordered bool, start int, items []Content, markup string) {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}
	f.groupID++
	f.emit(Element{
		Kind:    KindListGroup,
		GroupID: f.groupID,
		Content: Content{Text: strings.Join(texts, "\n"), HTML: markup},
		Items:   items,
		Ordered: ordered,
		Start:   start,
	})
}

// listHTML renders items as a standalone list.
func listHTML(ordered bool, start int, items []Content) string {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	var sb strings.Builder
	sb.WriteString("<" + tag)
	if ordered && start != 1 {
		sb.WriteString(` start="` + strconv.Itoa(start) + `"`)
	}
	sb.WriteString(">\n")
	for _, it := range items {
		sb.WriteString(it.HTML + "\n")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

// markKeepWithNext flags headings directly followed by content. A following
// heading or a manual break does not count.
func markKeepWithNext(elems []Element) {
	for i := range elems {
		if elems[i].Kind != KindHeading || i+1 >= len(elems) {
			continue
		}
		switch elems[i+1].Kind {
		case KindHeading, KindManualBreak:
			elems[i].KeepWithNext = false
		case KindParagraph, KindListGroup, KindCodeBlock, KindTable, KindImage, KindDivider:
			elems[i].KeepWithNext = true
		default:
			panic(fmt.Sprintf("flow: unknown element kind %d", int(elems[i+1].Kind)))
		}
	}
}

func stripContent(c Content) Content {
	c.Text = StripBreaks(c.Text)
	c.HTML = StripBreaks(c.HTML)
	if c.Cells != nil {
		cells := make([][]string, len(c.Cells))
		for i, row := range c.Cells {
			cells[i] = make([]string, len(row))
			for j, cell := range row {
				cells[i][j] = strings.TrimSpace(StripBreaks(cell))
			}
		}
		c.Cells = cells
	}
	return c
}

func part(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func clampLevel(level int) int {
	return min(max(level, 1), 6)
}
