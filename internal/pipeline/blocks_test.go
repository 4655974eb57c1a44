package pipeline

// Notes:
// - ParseBlocks is tested on hand-written fragments, then end to end through
//   the converter and flow.Flatten so the element sequence is checked against
//   real goldmark output.
// - Path rewriting is checked by observable output only: traversal outside
//   the source directory must leave the value untouched.

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-md2cards/internal/flow"
)

func mustParse(t *testing.T, fragment, sourceDir string) *flow.Block {
	t.Helper()
	root, err := ParseBlocks(fragment, sourceDir)
	if err != nil {
		t.Fatalf("ParseBlocks(%q): %v", fragment, err)
	}
	return root
}

// only returns the single child of root.
func only(t *testing.T, root *flow.Block) *flow.Block {
	t.Helper()
	if len(root.Children) != 1 {
		t.Fatalf("got %d blocks, want 1", len(root.Children))
	}
	return root.Children[0]
}

// ---------------------------------------------------------------------------
// TestParseBlocks - Leaf Blocks
// ---------------------------------------------------------------------------

func TestParseBlocks_Leaves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		check    func(t *testing.T, b *flow.Block)
	}{
		{
			name:     "heading",
			fragment: `<h3 id="x">Title <em>here</em></h3>`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockHeading || b.Level != 3 || b.Text != "Title here" {
					t.Errorf("got kind %d level %d text %q", b.Kind, b.Level, b.Text)
				}
			},
		},
		{
			name:     "paragraph keeps inner markup",
			fragment: `<p>Hello <strong>world</strong></p>`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockParagraph {
					t.Fatalf("kind = %d, want paragraph", b.Kind)
				}
				if b.Text != "Hello world" || b.Inner != "Hello <strong>world</strong>" {
					t.Errorf("text %q inner %q", b.Text, b.Inner)
				}
			},
		},
		{
			name:     "line breaks become newlines",
			fragment: "<p>one<br/>\ntwo</p>",
			check: func(t *testing.T, b *flow.Block) {
				if b.Text != "one\ntwo" {
					t.Errorf("text = %q, want %q", b.Text, "one\ntwo")
				}
			},
		},
		{
			name:     "code keeps whitespace",
			fragment: "<pre><code>a  b\n  c\n</code></pre>",
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockCode || b.Text != "a  b\n  c\n" {
					t.Errorf("kind %d text %q", b.Kind, b.Text)
				}
			},
		},
		{
			name: "table rows",
			fragment: "<table><thead><tr><th>A</th></tr></thead>" +
				"<tbody><tr><td>1</td></tr><tr><td>2</td></tr></tbody></table>",
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockTable || b.HeaderRows != 1 || b.Rows != 2 {
					t.Errorf("kind %d header %d rows %d", b.Kind, b.HeaderRows, b.Rows)
				}
				if !reflect.DeepEqual(b.Cells, [][]string{{"A"}, {"1"}, {"2"}}) {
					t.Errorf("cells = %q", b.Cells)
				}
			},
		},
		{
			name:     "image alone in paragraph",
			fragment: `<p><img src="https://example.com/a.png" alt="Alt" height="120px"/></p>`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockImage || b.Text != "Alt" || b.Intrinsic != 120 {
					t.Errorf("kind %d alt %q intrinsic %d", b.Kind, b.Text, b.Intrinsic)
				}
			},
		},
		{
			name:     "image with text stays a paragraph",
			fragment: `<p>see <img src="a.png"/></p>`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockParagraph {
					t.Errorf("kind = %d, want paragraph", b.Kind)
				}
			},
		},
		{
			name:     "rule",
			fragment: `<hr/>`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockDivider {
					t.Errorf("kind = %d, want divider", b.Kind)
				}
			},
		},
		{
			name:     "blockquote",
			fragment: `<blockquote><p>quoted</p></blockquote>`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockQuote || b.Text != "quoted" {
					t.Errorf("kind %d text %q", b.Kind, b.Text)
				}
				if !strings.HasPrefix(b.HTML, "<blockquote>") {
					t.Errorf("HTML = %q", b.HTML)
				}
			},
		},
		{
			name:     "break comment",
			fragment: `<!-- page-break -->`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockBreak {
					t.Errorf("kind = %d, want break", b.Kind)
				}
			},
		},
		{
			name:     "loose text",
			fragment: `loose &lt;text&gt;`,
			check: func(t *testing.T, b *flow.Block) {
				if b.Kind != flow.BlockParagraph || b.HTML != "<p>loose &lt;text&gt;</p>" {
					t.Errorf("kind %d html %q", b.Kind, b.HTML)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, only(t, mustParse(t, tt.fragment, "")))
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseBlocks - Structure
// ---------------------------------------------------------------------------

func TestParseBlocks_Lists(t *testing.T) {
	t.Parallel()

	t.Run("unordered", func(t *testing.T) {
		t.Parallel()

		l := only(t, mustParse(t, "<ul>\n<li>a</li>\n<li>b <code>c</code></li>\n</ul>", ""))
		if l.Kind != flow.BlockList || l.Ordered || l.Start != 1 {
			t.Fatalf("kind %d ordered %v start %d", l.Kind, l.Ordered, l.Start)
		}
		if len(l.Children) != 2 {
			t.Fatalf("got %d items, want 2", len(l.Children))
		}
		if got := l.Children[1]; got.Kind != flow.BlockListItem || got.Text != "b c" || got.HTML != "<li>b <code>c</code></li>" {
			t.Errorf("item = %+v", got)
		}
	})

	t.Run("ordered with start", func(t *testing.T) {
		t.Parallel()

		l := only(t, mustParse(t, `<ol start="4"><li>x</li></ol>`, ""))
		if !l.Ordered || l.Start != 4 {
			t.Errorf("ordered %v start %d, want true 4", l.Ordered, l.Start)
		}
	})

	t.Run("bad start falls back to one", func(t *testing.T) {
		t.Parallel()

		l := only(t, mustParse(t, `<ol start="x"><li>x</li></ol>`, ""))
		if l.Start != 1 {
			t.Errorf("start = %d, want 1", l.Start)
		}
	})
}

func TestParseBlocks_Containers(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "<div><p>a</p>\n<section><p>b</p></section></div>\n<!-- note -->\n<p>c</p>", "")
	if len(root.Children) != 2 {
		t.Fatalf("got %d top-level blocks, want 2", len(root.Children))
	}
	div := root.Children[0]
	if div.Kind != flow.BlockContainer || len(div.Children) != 2 {
		t.Fatalf("div = kind %d with %d children", div.Kind, len(div.Children))
	}
	if inner := div.Children[1]; inner.Kind != flow.BlockContainer || len(inner.Children) != 1 {
		t.Errorf("section = kind %d with %d children", inner.Kind, len(inner.Children))
	}
}

func TestParseBlocks_Empty(t *testing.T) {
	t.Parallel()

	root := mustParse(t, "  \n ", "")
	if root.Kind != flow.BlockContainer || len(root.Children) != 0 {
		t.Errorf("got kind %d with %d children, want empty container", root.Kind, len(root.Children))
	}
}

// ---------------------------------------------------------------------------
// TestParseBlocks - Path Rewriting
// ---------------------------------------------------------------------------

func TestParseBlocks_RewritesPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fileURL := "file://" + filepath.ToSlash(dir)

	tests := []struct {
		name         string
		fragment     string
		sourceDir    string
		wantContains string
	}{
		{
			name:         "relative image",
			fragment:     `<p><img src="images/logo.png"/></p>`,
			sourceDir:    dir,
			wantContains: `src="` + fileURL + `/images/logo.png"`,
		},
		{
			name:         "relative link",
			fragment:     `<p><a href="./other.md">x</a></p>`,
			sourceDir:    dir,
			wantContains: `href="` + fileURL + `/other.md"`,
		},
		{
			name:         "http URL unchanged",
			fragment:     `<p><img src="https://example.com/a.png"/></p>`,
			sourceDir:    dir,
			wantContains: `src="https://example.com/a.png"`,
		},
		{
			name:         "data URI unchanged",
			fragment:     `<p><img src="data:image/png;base64,AAA"/></p>`,
			sourceDir:    dir,
			wantContains: `src="data:image/png;base64,AAA"`,
		},
		{
			name:         "anchor unchanged",
			fragment:     `<p><a href="#top">x</a></p>`,
			sourceDir:    dir,
			wantContains: `href="#top"`,
		},
		{
			name:         "traversal unchanged",
			fragment:     `<p><img src="../../etc/passwd"/></p>`,
			sourceDir:    dir,
			wantContains: `src="../../etc/passwd"`,
		},
		{
			name:         "no source dir",
			fragment:     `<p><img src="./logo.png"/></p>`,
			sourceDir:    "",
			wantContains: `src="./logo.png"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := only(t, mustParse(t, tt.fragment, tt.sourceDir))
			if !strings.Contains(b.HTML, tt.wantContains) {
				t.Errorf("HTML = %q, want it to contain %q", b.HTML, tt.wantContains)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPipeline - Markdown to Elements
// ---------------------------------------------------------------------------

func TestPipeline_MarkdownToElements(t *testing.T) {
	t.Parallel()

	md := "# Title\n\nIntro with ==mark==.\n\n<!-- pagebreak -->\n\n" +
		"- a\n- b\n- c\n\n```go\nx := 1\n```\n\nbefore <!-- pagebreak --> after\n\n---\n"

	ctx := context.Background()
	html, err := NewGoldmarkConverter().ToHTML(ctx, (&CardPreprocessor{}).PreprocessMarkdown(ctx, md))
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	root, err := ParseBlocks(ConvertMarkPlaceholders(html), "")
	if err != nil {
		t.Fatalf("ParseBlocks: %v", err)
	}
	elems := flow.Flatten(root)

	var kinds []flow.Kind
	for _, e := range elems {
		kinds = append(kinds, e.Kind)
	}
	want := []flow.Kind{
		flow.KindHeading,
		flow.KindParagraph,
		flow.KindManualBreak,
		flow.KindListGroup,
		flow.KindCodeBlock,
		flow.KindParagraph,
		flow.KindManualBreak,
		flow.KindParagraph,
		flow.KindDivider,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}

	if !elems[0].KeepWithNext {
		t.Error("heading followed by a paragraph should keep with next")
	}
	if !strings.Contains(elems[1].HTML, "<mark>mark</mark>") {
		t.Errorf("paragraph HTML = %q, want highlight", elems[1].HTML)
	}
	if got := len(elems[3].Items); got != 3 {
		t.Errorf("list items = %d, want 3", got)
	}
	if elems[5].Text != "before" || elems[7].Text != "after" {
		t.Errorf("split paragraph = %q / %q", elems[5].Text, elems[7].Text)
	}
	for _, e := range elems {
		if flow.HasBreak(e.HTML) || flow.HasBreak(e.Text) {
			t.Errorf("element %v still carries a break placeholder", e)
		}
	}
}
