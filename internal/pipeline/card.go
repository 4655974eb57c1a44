package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/alnah/go-md2cards/internal/flow"
	"github.com/alnah/go-md2cards/internal/pagination"
)

// ErrCardRender indicates the card template could not be executed.
var ErrCardRender = errors.New("card template rendering failed")

// CardData holds the values of one card document.
type CardData struct {
	Title  string
	Lang   string
	Width  int
	Height int

	// CSS and Body are trusted: the stylesheet is generated and the body is
	// goldmark output, which never contains raw HTML from the source.
	CSS  string
	Body string

	Index int
	Total int

	PageNumber bool   // render "n / total" in the footer
	FooterText string // free text shown before the page number
}

// CardAssembler renders complete card documents from a template.
type CardAssembler struct {
	tmpl *template.Template
}

// NewCardAssembler parses the card template.
func NewCardAssembler(tmplContent string) (*CardAssembler, error) {
	tmpl, err := template.New("card").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing: %v", ErrCardRender, err)
	}
	return &CardAssembler{tmpl: tmpl}, nil
}

// Assemble executes the template for one card.
func (a *CardAssembler) Assemble(ctx context.Context, data *CardData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("%w: nil card data", ErrCardRender)
	}

	lang := data.Lang
	if lang == "" {
		lang = "en"
	}
	var parts []string
	if data.FooterText != "" {
		parts = append(parts, data.FooterText)
	}
	if data.PageNumber {
		parts = append(parts, fmt.Sprintf("%d / %d", data.Index, data.Total))
	}
	footer := strings.Join(parts, " · ")

	view := struct {
		Title, Lang, Footer string
		Width, Height       int
		Index, Total        int
		CSS                 template.CSS
		Body                template.HTML
	}{
		Title:  data.Title,
		Lang:   lang,
		Footer: footer,
		Width:  data.Width,
		Height: data.Height,
		Index:  data.Index,
		Total:  data.Total,
		CSS:    template.CSS(data.CSS),   // #nosec G203 -- generated stylesheet
		Body:   template.HTML(data.Body), // #nosec G203 -- goldmark output without raw HTML
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}
	return buf.String(), nil
}

// CardBody concatenates the markup of a page's fragments. elems must be the
// sequence the page was built from, indexed by element id. A list group
// fragment renders only its item range, inside a list that keeps the right
// numbering.
func CardBody(elems []flow.Element, frags []pagination.Fragment) (string, error) {
	var sb strings.Builder
	for _, f := range frags {
		if f.ID < 0 || f.ID >= len(elems) {
			return "", fmt.Errorf("%w: fragment references element %d of %d", ErrCardRender, f.ID, len(elems))
		}
		e := &elems[f.ID]
		if e.Kind != flow.KindListGroup || len(e.Items) == 0 {
			sb.WriteString(e.HTML)
			sb.WriteByte('\n')
			continue
		}
		writeListRange(&sb, e, f.From, f.To)
	}
	return sb.String(), nil
}

// writeListRange renders items [from, to) of a list group. A range that does
// not start at the first item is marked "continued"; one that stops before
// the last item is marked "split".
func writeListRange(sb *strings.Builder, e *flow.Element, from, to int) {
	to = min(to, len(e.Items))
	from = min(max(from, 0), to)

	tag := "ul"
	if e.Ordered {
		tag = "ol"
	}
	var classes []string
	if from > 0 {
		classes = append(classes, "continued")
	}
	if to < len(e.Items) {
		classes = append(classes, "split")
	}

	sb.WriteString("<" + tag)
	if e.Ordered && e.Start+from != 1 {
		sb.WriteString(` start="` + strconv.Itoa(e.Start+from) + `"`)
	}
	if len(classes) > 0 {
		sb.WriteString(` class="` + strings.Join(classes, " ") + `"`)
	}
	sb.WriteString(">\n")
	for _, it := range e.Items[from:to] {
		sb.WriteString(it.HTML)
		sb.WriteByte('\n')
	}
	sb.WriteString("</" + tag + ">\n")
}
