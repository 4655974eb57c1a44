package md2cards

import (
	"time"

	"github.com/alnah/go-md2cards/internal/assets"
	"github.com/alnah/go-md2cards/internal/measure"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options. Validation
// happens in NewConverter.
type converterConfig struct {
	timeout time.Duration

	preset   Preset
	padding  *Padding // overrides the preset padding
	budget   int      // overrides the preset height when > 0
	keepWith *int     // nil means the preset default
	minFill  *float64 // nil means DefaultMinFillRatio

	typography measure.Typography
	oracle     measure.Oracle // nil means a FontOracle over typography

	format      Format
	theme       string
	assetPath   string
	pageNumbers bool
	footerText  string
	lang        string
}

// defaultTimeout bounds the loading of one card in the browser.
const defaultTimeout = 30 * time.Second

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:    defaultTimeout,
		preset:     DefaultPreset,
		typography: measure.DefaultTypography,
		format:     FormatPNG,
		theme:      assets.DefaultThemeName,
		lang:       "en",
	}
}

// WithTimeout sets how long the browser may take to load one card.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2cards: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithPreset selects the card size.
func WithPreset(p Preset) Option {
	return func(c *Converter) {
		c.cfg.preset = p
	}
}

// WithPadding overrides the padding of the preset.
func WithPadding(p Padding) Option {
	return func(c *Converter) {
		c.cfg.padding = &p
	}
}

// WithBudget overrides the page height budget, and with it the card height.
func WithBudget(px int) Option {
	return func(c *Converter) {
		c.cfg.budget = px
	}
}

// WithKeepWith sets how much room, in pixels, a heading needs above an
// oversized list before the list may start on the heading's page.
func WithKeepWith(px int) Option {
	return func(c *Converter) {
		c.cfg.keepWith = &px
	}
}

// WithMinFill sets the fill ratio below which a card takes content from the
// card before it. Zero disables rebalancing.
func WithMinFill(ratio float64) Option {
	return func(c *Converter) {
		c.cfg.minFill = &ratio
	}
}

// WithTypography replaces the card typography. It drives both the stylesheet
// and the default font oracle.
func WithTypography(t Typography) Option {
	return func(c *Converter) {
		c.cfg.typography = t
	}
}

// WithHeightOracle replaces the font oracle. Blocks it fails to measure are
// estimated with HeuristicOracle and reported in Result.Warnings.
func WithHeightOracle(o HeightOracle) Option {
	return func(c *Converter) {
		c.cfg.oracle = o
	}
}

// WithFormat selects what Convert produces for each card.
func WithFormat(f Format) Option {
	return func(c *Converter) {
		c.cfg.format = f
	}
}

// WithTheme selects a color theme by name.
func WithTheme(name string) Option {
	return func(c *Converter) {
		c.cfg.theme = name
	}
}

// WithAssetPath adds a directory of custom themes and templates. Assets it
// does not provide fall back to the built-in ones.
//
// Directory layout:
//
//	assets/
//	├── themes/
//	│   └── custom.css
//	└── templates/
//	    └── card.html
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithPageNumbers renders an "n / total" footer on every card.
func WithPageNumbers(on bool) Option {
	return func(c *Converter) {
		c.cfg.pageNumbers = on
	}
}

// WithFooterText sets free text shown in the card footer, before the page
// number when page numbers are enabled.
func WithFooterText(text string) Option {
	return func(c *Converter) {
		c.cfg.footerText = text
	}
}

// WithLang sets the lang attribute of card documents.
func WithLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.lang = lang
	}
}

// Themes lists the built-in theme names.
func Themes() []string {
	return assets.ThemeNames()
}
