package pipeline

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2cards/internal/flow"
)

// ErrBlockParse indicates the converted HTML could not be read back.
var ErrBlockParse = errors.New("block parsing failed")

// ParseBlocks reads an HTML body fragment into the block tree consumed by
// flow.Flatten. Relative image and link paths are resolved against sourceDir
// when it is set.
//
// Headings, paragraphs, lists, code, tables, images, rules and quotes become
// leaf blocks carrying their rendered markup and plain text. Layout
// containers such as div or section are kept as containers. HTML comments
// spelling a break marker become breaks; other comments are dropped.
func ParseBlocks(fragment, sourceDir string) (*flow.Block, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := xhtml.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlockParse, err)
	}

	rw, err := newPathRewriter(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlockParse, err)
	}

	root := &flow.Block{Kind: flow.BlockContainer}
	for _, n := range nodes {
		rw.rewrite(n)
		if b, err := block(n); err != nil {
			return nil, err
		} else if b != nil {
			root.Append(b)
		}
	}
	return root, nil
}

// block converts one node, returning nil for nodes with no layout.
func block(n *xhtml.Node) (*flow.Block, error) {
	switch n.Type {
	case xhtml.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil, nil
		}
		inner := html.EscapeString(text)
		return &flow.Block{
			Kind:    flow.BlockParagraph,
			Content: flow.Content{Text: text, HTML: "<p>" + inner + "</p>"},
			Inner:   inner,
		}, nil
	case xhtml.CommentNode:
		if flow.IsBreakComment(n.Data) {
			return &flow.Block{Kind: flow.BlockBreak}, nil
		}
		return nil, nil
	case xhtml.ElementNode:
		return element(n)
	default:
		return nil, nil
	}
}

func element(n *xhtml.Node) (*flow.Block, error) {
	outer, err := render(n)
	if err != nil {
		return nil, err
	}
	leaf := func(kind flow.BlockKind) *flow.Block {
		return &flow.Block{Kind: kind, Content: flow.Content{Text: textOf(n, false), HTML: outer}}
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		b := leaf(flow.BlockHeading)
		b.Level = int(n.Data[1] - '0')
		return b, nil

	case atom.P:
		if img := soleImage(n); img != nil {
			return image(img, outer), nil
		}
		inner, err := renderChildren(n)
		if err != nil {
			return nil, err
		}
		b := leaf(flow.BlockParagraph)
		b.Inner = inner
		return b, nil

	case atom.Ul, atom.Ol:
		return list(n, outer)

	case atom.Pre:
		return &flow.Block{Kind: flow.BlockCode, Content: flow.Content{Text: textOf(n, true), HTML: outer}}, nil

	case atom.Table:
		b := leaf(flow.BlockTable)
		b.HeaderRows, b.Rows, b.Cells = tableRows(n)
		return b, nil

	case atom.Img:
		return image(n, outer), nil

	case atom.Hr:
		return &flow.Block{Kind: flow.BlockDivider, Content: flow.Content{HTML: outer}}, nil

	case atom.Blockquote, atom.Dl, atom.Details, atom.Figure:
		return leaf(flow.BlockQuote), nil

	case atom.Div, atom.Section, atom.Article, atom.Main, atom.Aside, atom.Header, atom.Footer, atom.Nav:
		c := &flow.Block{Kind: flow.BlockContainer}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			b, err := block(ch)
			if err != nil {
				return nil, err
			}
			if b != nil {
				c.Append(b)
			}
		}
		return c, nil

	default:
		b := leaf(flow.BlockParagraph)
		if b.Text == "" {
			return nil, nil
		}
		b.Inner = html.EscapeString(b.Text)
		return b, nil
	}
}

func list(n *xhtml.Node, outer string) (*flow.Block, error) {
	l := &flow.Block{
		Kind:    flow.BlockList,
		Ordered: n.DataAtom == atom.Ol,
		Start:   1,
		Content: flow.Content{Text: textOf(n, false), HTML: outer},
	}
	if v, ok := attr(n, "start"); ok {
		if s, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			l.Start = s
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != xhtml.ElementNode || ch.DataAtom != atom.Li {
			continue
		}
		item, err := render(ch)
		if err != nil {
			return nil, err
		}
		l.Append(&flow.Block{
			Kind:    flow.BlockListItem,
			Content: flow.Content{Text: textOf(ch, false), HTML: item},
		})
	}
	return l, nil
}

func image(img *xhtml.Node, outer string) *flow.Block {
	b := &flow.Block{Kind: flow.BlockImage, Content: flow.Content{HTML: outer}}
	b.Text, _ = attr(img, "alt")
	if v, ok := attr(img, "height"); ok {
		if h, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px")); err == nil && h > 0 {
			b.Intrinsic = h
		}
	}
	return b
}

// soleImage returns the only element child of p when it is an image and no
// text surrounds it.
func soleImage(p *xhtml.Node) *xhtml.Node {
	var img *xhtml.Node
	for ch := p.FirstChild; ch != nil; ch = ch.NextSibling {
		switch {
		case ch.Type == xhtml.TextNode && strings.TrimSpace(ch.Data) == "":
		case ch.Type == xhtml.ElementNode && ch.DataAtom == atom.Img && img == nil:
			img = ch
		default:
			return nil
		}
	}
	return img
}

// tableRows splits the rows of a table into header and body rows and
// collects the plain text of every cell, header rows first.
func tableRows(table *xhtml.Node) (header, body int, cells [][]string) {
	var head, rest [][]string
	var walk func(n *xhtml.Node, inHead bool)
	walk = func(n *xhtml.Node, inHead bool) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != xhtml.ElementNode {
				continue
			}
			switch ch.DataAtom {
			case atom.Thead:
				walk(ch, true)
			case atom.Tbody, atom.Tfoot:
				walk(ch, false)
			case atom.Tr:
				row := rowCells(ch)
				if inHead {
					head = append(head, row)
				} else {
					rest = append(rest, row)
				}
			}
		}
	}
	walk(table, false)
	return len(head), len(rest), append(head, rest...)
}

func rowCells(tr *xhtml.Node) []string {
	var row []string
	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type == xhtml.ElementNode && (td.DataAtom == atom.Td || td.DataAtom == atom.Th) {
			row = append(row, textOf(td, false))
		}
	}
	return row
}

// textOf returns the plain text of n. Outside preformatted text, whitespace
// runs collapse to one space and <br> starts a new line.
func textOf(n *xhtml.Node, pre bool) string {
	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		switch {
		case n.Type == xhtml.TextNode:
			sb.WriteString(n.Data)
		case n.Type == xhtml.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte('\n')
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	if pre {
		return sb.String()
	}

	lines := strings.Split(sb.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func attr(n *xhtml.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func render(n *xhtml.Node) (string, error) {
	var sb strings.Builder
	if err := xhtml.Render(&sb, n); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBlockParse, err)
	}
	return sb.String(), nil
}

func renderChildren(n *xhtml.Node) (string, error) {
	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := xhtml.Render(&sb, ch); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBlockParse, err)
		}
	}
	return sb.String(), nil
}
