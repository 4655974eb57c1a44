package measure

// Typography is the vertical model of a card: font sizes, line heights and the
// space around each kind of block. The card stylesheet is generated from the
// same values, so the font oracle lays text out the way the browser will.
// All values are CSS pixels.
type Typography struct {
	BodySize   float64
	LineHeight float64 // multiple of the font size

	HeadingSizes      [6]float64
	HeadingLineHeight float64
	HeadingSpace      [6]float64 // margins, padding and borders around a heading

	CodeSize       float64
	CodeLineHeight float64
	CodePadding    float64 // inside the block, each side
	CodeMargin     float64 // outside the block, each side

	ParagraphMargin float64 // below a paragraph
	ItemMargin      float64 // below a list item
	ListMargin      float64 // above and below a list
	ListIndent      float64

	TableSize     float64
	TableCellPadX float64 // each side
	TableCellPadY float64 // each side
	TableMargin   float64 // above and below

	DividerMargin float64 // above and below
	ImageMargin   float64 // below

	QuoteIndent   float64
	QuotePaddingY float64 // each side
	QuoteMarginY  float64 // each side
}

// DefaultTypography is the card style used when none is configured.
var DefaultTypography = Typography{
	BodySize:   16,
	LineHeight: 1.8,

	HeadingSizes:      [6]float64{30, 24, 20, 18, 16, 15},
	HeadingLineHeight: 1.3,
	HeadingSpace:      [6]float64{43, 55, 44, 36, 32, 30},

	CodeSize:       14,
	CodeLineHeight: 1.7,
	CodePadding:    24,
	CodeMargin:     26,

	ParagraphMargin: 20,
	ItemMargin:      14,
	ListMargin:      22,
	ListIndent:      35,

	TableSize:     15,
	TableCellPadX: 12,
	TableCellPadY: 14,
	TableMargin:   26,

	DividerMargin: 35,
	ImageMargin:   20,

	QuoteIndent:   30,
	QuotePaddingY: 18,
	QuoteMarginY:  26,
}
