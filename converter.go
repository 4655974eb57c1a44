package md2cards

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-md2cards/internal/assets"
	"github.com/alnah/go-md2cards/internal/flow"
	"github.com/alnah/go-md2cards/internal/measure"
	"github.com/alnah/go-md2cards/internal/pagination"
	"github.com/alnah/go-md2cards/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CardPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ measure.Oracle                = (*measure.FontOracle)(nil)
)

// Converter turns Markdown into cards. Create it with NewConverter, call
// Paginate or Convert, and Close it when done.
//
// A Converter is safe for concurrent use. Its browser, when the PNG format
// needs one, starts on the first Convert and is shared.
type Converter struct {
	cfg converterConfig

	size     PageSize
	engine   *pagination.Engine
	oracle   measure.Oracle
	css      string // card, highlight and theme CSS, before per-input CSS
	cards    *pipeline.CardAssembler
	renderer pageRenderer

	assetLoader   assets.AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
}

// NewConverter creates a Converter. Options are validated here: an unknown
// preset, invalid geometry or pagination settings, an unreadable asset path,
// or a missing theme fail with the matching sentinel error.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           defaultConfig(),
		preprocessor:  &pipeline.CardPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.resolveLayout(); err != nil {
		return nil, err
	}

	if c.assetLoader == nil {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}
	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	tmpl, err := c.assetLoader.LoadTemplate(assets.CardTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading card template: %w", err)
	}
	if c.cards, err = pipeline.NewCardAssembler(tmpl); err != nil {
		return nil, fmt.Errorf("initializing card template: %w", err)
	}

	if c.oracle = c.cfg.oracle; c.oracle == nil {
		if c.oracle, err = measure.NewFontOracle(c.cfg.typography); err != nil {
			return nil, fmt.Errorf("initializing font oracle: %w", err)
		}
	}

	// Create renderer if not injected (e.g., by tests)
	if c.renderer == nil {
		switch c.cfg.format {
		case FormatPNG:
			c.renderer = newRodRenderer(c.cfg.timeout)
		case FormatHTML:
			c.renderer = htmlRenderer{}
		default:
			return nil, fmt.Errorf("%w: %q (must be png or html)", ErrInvalidFormat, c.cfg.format)
		}
	}

	return c, nil
}

// resolveLayout computes the card geometry and the pagination engine from
// the preset and its overrides.
func (c *Converter) resolveLayout() error {
	if !c.cfg.preset.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, c.cfg.preset)
	}

	size := c.cfg.preset.PageSize()
	if c.cfg.padding != nil {
		size.Padding = *c.cfg.padding
	}
	if c.cfg.budget != 0 {
		if c.cfg.budget < 0 {
			return fmt.Errorf("%w: %d (must be positive)", ErrInvalidBudget, c.cfg.budget)
		}
		size.Height = c.cfg.budget
	}
	if err := size.Validate(); err != nil {
		return err
	}

	cfg := pagination.Config{
		Budget:            size.Height,
		KeepWithThreshold: c.cfg.preset.KeepWith(),
		MinFillRatio:      DefaultMinFillRatio,
	}
	if c.cfg.keepWith != nil {
		cfg.KeepWithThreshold = *c.cfg.keepWith
	}
	if c.cfg.minFill != nil {
		cfg.MinFillRatio = *c.cfg.minFill
	}
	engine, err := pagination.NewEngine(cfg)
	if err != nil {
		return err
	}

	c.size = size
	c.engine = engine
	return nil
}

// resolveStyle builds the stylesheet shared by every card: structure from the
// typography, code highlighting, then the theme colors.
func (c *Converter) resolveStyle() error {
	theme, err := c.assetLoader.LoadTheme(c.cfg.theme)
	if err != nil {
		return fmt.Errorf("loading theme %q: %w", c.cfg.theme, err)
	}
	highlight, err := buildHighlightCSS(c.cfg.theme)
	if err != nil {
		return err
	}

	var sb strings.Builder
	if c.cfg.format == FormatPNG {
		sb.WriteString(fontFaceCSS())
	}
	sb.WriteString(buildCardCSS(c.cfg.typography, c.size))
	sb.WriteString(highlight)
	sb.WriteString("\n/* Theme */\n")
	sb.WriteString(theme)
	c.css = sb.String()
	return nil
}

// PageSize returns the card geometry in use.
func (c *Converter) PageSize() PageSize {
	return c.size
}

// Paginate converts the Markdown and splits it into cards without rendering
// them: every page carries its HTML document but no Data. A leading YAML
// front matter block is removed; its title and lang apply to the cards.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Paginate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Markdown) == "" {
		return &Result{}, nil
	}

	meta, body := pipeline.SplitFrontMatter(input.Markdown)
	input.Markdown = body
	if input.Title == "" {
		input.Title = meta.Title
	}
	lang := c.cfg.lang
	if meta.Lang != "" {
		lang = meta.Lang
	}

	elems, warnings, err := c.elements(ctx, input)
	if err != nil {
		return nil, err
	}

	pages := c.engine.Run(elems)
	res := &Result{Pages: make([]Page, len(pages)), Warnings: warnings}
	css := c.css
	if input.CSS != "" {
		css += "\n/* Custom */\n" + input.CSS
	}

	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err := pipeline.CardBody(elems, p.Fragments)
		if err != nil {
			return nil, err
		}
		doc, err := c.cards.Assemble(ctx, &pipeline.CardData{
			Title:      input.Title,
			Lang:       lang,
			Width:      c.size.Width,
			Height:     c.size.CardHeight(),
			CSS:        css,
			Body:       body,
			Index:      p.Index,
			Total:      len(pages),
			PageNumber: c.cfg.pageNumbers,
			FooterText: c.cfg.footerText,
		})
		if err != nil {
			return nil, fmt.Errorf("assembling card %d: %w", p.Index, err)
		}
		res.Pages[i] = Page{
			Index:       p.Index,
			Total:       len(pages),
			Fragments:   toFragments(p.Fragments),
			Height:      p.Height,
			Budget:      p.Budget,
			BreakBefore: p.BreakBefore,
			HTML:        doc,
		}
	}
	return res, nil
}

// elements runs the Markdown pipeline up to measured flow elements.
func (c *Converter) elements(ctx context.Context, input Input) ([]flow.Element, []Warning, error) {
	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	// Done after Goldmark to avoid needing html.WithUnsafe().
	fragment = pipeline.ConvertMarkPlaceholders(fragment)

	root, err := pipeline.ParseBlocks(fragment, input.SourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	elems, warnings := measure.Resolve(flow.Flatten(root), c.oracle, measure.HeuristicOracle{}, c.size.ContentWidth())
	return elems, warnings, nil
}

// Convert paginates the Markdown and renders every card in the configured
// format. Cards are rendered in order; the first failure aborts the run.
func (c *Converter) Convert(ctx context.Context, input Input) (*Result, error) {
	res, err := c.Paginate(ctx, input)
	if err != nil {
		return nil, err
	}
	for i := range res.Pages {
		data, err := c.renderer.Render(ctx, res.Pages[i].HTML, c.size)
		if err != nil {
			return nil, fmt.Errorf("rendering card %d: %w", res.Pages[i].Index, err)
		}
		res.Pages[i].Data = data
	}
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// Format returns the output format of Convert.
func (c *Converter) Format() Format {
	return c.cfg.format
}
