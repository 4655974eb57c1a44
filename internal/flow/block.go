package flow

// BlockKind identifies a node of the block tree produced by the conversion stage.
type BlockKind int

// Block tree node kinds.
const (
	BlockContainer BlockKind = iota // div, section, article, document root
	BlockHeading
	BlockParagraph
	BlockList
	BlockListItem
	BlockCode
	BlockTable
	BlockImage
	BlockDivider
	BlockQuote
	BlockBreak
)

// Block is a node of the nested block tree. Leaf blocks carry their rendered
// markup; containers and lists carry children.
type Block struct {
	Kind    BlockKind
	Level   int  // headings
	Ordered bool // lists
	Start   int  // ordered lists, 1 if unset

	// Leaf payload. HTML is the outer markup of the block.
	Content

	// Paragraphs: inner markup, split around break markers.
	Inner string

	Children []*Block
}

// Append adds children to b and returns b for chaining in tests and builders.
func (b *Block) Append(children ...*Block) *Block {
	b.Children = append(b.Children, children...)
	return b
}
