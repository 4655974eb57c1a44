package md2cards

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/alnah/go-md2cards/internal/measure"
)

// Font stacks. The Go fonts come first because the font oracle measures with
// them.
const (
	bodyFontFamily = `"Go", "Go Regular", -apple-system, "PingFang SC", "Noto Sans CJK SC", sans-serif`
	monoFontFamily = `"Go Mono", ui-monospace, monospace`
)

// footerFontSize is the size of the "n / total" footer in pixels.
const footerFontSize = 13

// quoteBorder is the width of the accent bar left of a quote.
const quoteBorder = 4

// highlightStyles maps themes to the chroma style of their code blocks.
var highlightStyles = map[string]string{
	"dark": "monokai",
}

const defaultHighlightStyle = "github"

// buildCardCSS generates the structural stylesheet of a card. Every box that
// affects vertical layout is derived from t so the browser reproduces the
// heights the font oracle measured. Colors come from the --card-* custom
// properties that themes set.
func buildCardCSS(t measure.Typography, size PageSize) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, `
/* Card */
*, *::before, *::after { box-sizing: border-box; }
html, body { margin: 0; padding: 0; background: var(--card-bg); }
.card {
  position: relative;
  width: %dpx;
  min-height: %dpx;
  padding: %dpx %dpx %dpx;
  overflow: hidden;
  background: var(--card-bg);
  color: var(--card-text);
  font-family: %s;
  font-size: %s;
  line-height: %s;
  overflow-wrap: anywhere;
}
/* Margins of flex items do not collapse. */
.card-content { display: flex; flex-direction: column; }
.card-content > * { flex: none; min-width: 0; }
.card-footer {
  position: absolute;
  left: 0;
  right: 0;
  bottom: %dpx;
  text-align: center;
  font-size: %dpx;
  line-height: 1;
  color: var(--card-muted);
}
`, size.Width, size.CardHeight(),
		size.Padding.Top, size.Padding.Side, size.Padding.Bottom,
		bodyFontFamily, px(t.BodySize), num(t.LineHeight),
		size.Padding.Bottom/3, footerFontSize)

	buf.WriteString("\n/* Headings */\n")
	for i, fs := range t.HeadingSizes {
		top := math.Floor(t.HeadingSpace[i] / 2)
		fmt.Fprintf(&buf, "h%d { font-size: %s; line-height: %s; margin: %s 0 %s; font-weight: 700; }\n",
			i+1, px(fs), num(t.HeadingLineHeight), px(top), px(t.HeadingSpace[i]-top))
	}
	buf.WriteString("h1, h2 { color: var(--card-accent); }\n")

	fmt.Fprintf(&buf, `
/* Text */
p { margin: 0 0 %s; }
a { color: var(--card-accent); text-decoration: none; }
strong { font-weight: 700; }
mark { background: var(--card-mark); color: inherit; padding: 0 2px; border-radius: 2px; }
del { color: var(--card-muted); }
`, px(t.ParagraphMargin))

	fmt.Fprintf(&buf, `
/* Lists */
ul, ol { margin: %[1]s 0; padding-left: %[2]s; }
li { margin: 0 0 %[3]s; }
li > p { margin: 0; }
li > ul, li > ol { margin: 0; }
li::marker { color: var(--card-accent); }
.continued { margin-top: 0; }
.split { margin-bottom: 0; }
`, px(t.ListMargin), px(t.ListIndent), px(t.ItemMargin))

	fmt.Fprintf(&buf, `
/* Code */
code {
  font-family: %[1]s;
  font-size: 0.9em;
  background: var(--card-code-bg);
  padding: 0 4px;
  border-radius: 4px;
}
pre, pre.chroma {
  font-family: %[1]s;
  font-size: %[2]s;
  line-height: %[3]s;
  padding: %[4]s;
  margin: %[5]s 0;
  white-space: pre;
  overflow: hidden;
  overflow-wrap: normal;
  border-radius: 8px;
  background-color: var(--card-code-bg);
}
pre code { font-size: inherit; background: none; padding: 0; border-radius: 0; }
`, monoFontFamily, px(t.CodeSize), num(t.CodeLineHeight), px(t.CodePadding), px(t.CodeMargin))

	fmt.Fprintf(&buf, `
/* Tables */
table {
  width: 100%%;
  border-collapse: collapse;
  margin: %s 0;
  font-size: %s;
  line-height: %s;
}
th, td {
  padding: %s %s;
  text-align: left;
  box-shadow: inset 0 -1px 0 var(--card-rule);
}
th { color: var(--card-accent); font-weight: 700; }
`, px(t.TableMargin), px(t.TableSize), num(t.LineHeight), px(t.TableCellPadY), px(t.TableCellPadX))

	fmt.Fprintf(&buf, `
/* Rules, images and quotes */
hr { height: 1px; border: 0; margin: %[1]s 0; background: var(--card-rule); }
img { display: block; max-width: 100%%; height: auto; }
.card-content > img, p:has(> img:only-child) { margin: 0 0 %[2]s; }
blockquote, dl, details, figure {
  margin: %[3]s 0;
  padding: %[4]s 0 %[4]s %[5]s;
  border-left: %[6]dpx solid var(--card-accent);
  background: var(--card-code-bg);
}
blockquote p, dt, dd, figcaption { margin: 0; }
blockquote { color: var(--card-muted); }
`, px(t.DividerMargin), px(t.ImageMargin), px(t.QuoteMarginY), px(t.QuotePaddingY),
		px(t.QuoteIndent-quoteBorder), quoteBorder)

	return buf.String()
}

// buildHighlightCSS returns the chroma classes for code blocks in the given
// theme. An unknown chroma style falls back to chroma's default.
func buildHighlightCSS(theme string) (string, error) {
	name, ok := highlightStyles[theme]
	if !ok {
		name = defaultHighlightStyle
	}

	var buf strings.Builder
	buf.WriteString("\n/* Syntax highlighting */\n")
	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return "", fmt.Errorf("writing %s highlight CSS: %w", name, err)
	}
	return buf.String(), nil
}

// fontFaceCSS declares the Go fonts as data URIs. Screenshots then use the
// exact faces the font oracle measured with, even where they are not
// installed.
var fontFaceCSS = sync.OnceValue(func() string {
	faces := []struct {
		family string
		weight int
		ttf    []byte
	}{
		{"Go", 400, goregular.TTF},
		{"Go", 700, gobold.TTF},
		{"Go Mono", 400, gomono.TTF},
	}

	var buf strings.Builder
	buf.WriteString("\n/* Fonts */\n")
	for _, f := range faces {
		fmt.Fprintf(&buf, "@font-face { font-family: %q; font-weight: %d; src: url(data:font/ttf;base64,%s) format(\"truetype\"); }\n",
			f.family, f.weight, base64.StdEncoding.EncodeToString(f.ttf))
	}
	return buf.String()
})

// px formats a pixel length without trailing zeros.
func px(v float64) string {
	return num(v) + "px"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
