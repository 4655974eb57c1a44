package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2cards/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxPathLength   = 4096 // Filesystem paths
	MaxPrefixLength = 100  // Output file name prefix
	MaxNameLength   = 50   // "medium", "png", "dark"
	MaxTitleLength  = 200  // Card document title
	MaxLangLength   = 35   // BCP 47 tag
	MaxTextLength   = 200  // Footer free-form text
	MaxDateLength   = 30   // "2025-12-31" or "auto:MMMM D, YYYY"
)

// Limits on numeric settings.
const (
	MaxBudget     = 10000 // px
	MaxPadding    = 1000  // px
	MaxFontSize   = 72    // px
	MaxLineHeight = 4.0
)

// Config holds all configuration for card generation.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Page    PageConfig    `yaml:"page"`
	Layout  LayoutConfig  `yaml:"layout"`
	Measure MeasureConfig `yaml:"measure"`
	CSS     CSSConfig     `yaml:"css"`
	Assets  AssetsConfig  `yaml:"assets"`
	Card    CardConfig    `yaml:"card"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = next to source)
	Prefix     string `yaml:"prefix"`     // Card file name prefix (empty = "card")
	Format     string `yaml:"format"`     // "png", "html" (default: "png")
}

// PageConfig defines the card canvas.
type PageConfig struct {
	Preset  string        `yaml:"preset"`  // "small", "medium", "large" (default: "medium")
	Budget  int           `yaml:"budget"`  // px, 0 = preset height
	Padding PaddingConfig `yaml:"padding"` // Overrides the preset padding when any side is set
}

// PaddingConfig defines card padding in px.
type PaddingConfig struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Side   int `yaml:"side"`
}

// IsSet reports whether any side was configured.
func (p PaddingConfig) IsSet() bool {
	return p.Top != 0 || p.Bottom != 0 || p.Side != 0
}

// LayoutConfig tunes the pagination engine. Nil keeps the preset default.
type LayoutConfig struct {
	KeepWith *int     `yaml:"keepWith"` // px a heading must keep below it
	MinFill  *float64 `yaml:"minFill"`  // 0..1, last-card fill threshold
}

// MeasureConfig selects how block heights are estimated.
type MeasureConfig struct {
	Oracle     string  `yaml:"oracle"`     // "font", "heuristic" (default: "font")
	FontSize   float64 `yaml:"fontSize"`   // Body size in px, 0 = default
	LineHeight float64 `yaml:"lineHeight"` // Body line height, 0 = default
}

// CSSConfig defines styling options.
type CSSConfig struct {
	Theme string `yaml:"theme"` // Built-in theme name (default: "default")
	File  string `yaml:"file"`  // Extra CSS file appended after the theme
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// CardConfig defines per-card document options.
type CardConfig struct {
	Title  string       `yaml:"title"` // Document title (empty = front matter, then file name)
	Lang   string       `yaml:"lang"`  // lang attribute (default: "en")
	Footer FooterConfig `yaml:"footer"`
}

// FooterConfig defines the card footer.
type FooterConfig struct {
	PageNumbers bool   `yaml:"pageNumbers"` // Show "n / total"
	Text        string `yaml:"text"`        // Optional free-form text
	Date        string `yaml:"date"`        // Optional: literal, "auto" or "auto:FORMAT"
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.prefix", c.Output.Prefix, MaxPrefixLength},
		{"output.format", c.Output.Format, MaxNameLength},
		{"page.preset", c.Page.Preset, MaxNameLength},
		{"measure.oracle", c.Measure.Oracle, MaxNameLength},
		{"css.theme", c.CSS.Theme, MaxNameLength},
		{"css.file", c.CSS.File, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"card.title", c.Card.Title, MaxTitleLength},
		{"card.lang", c.Card.Lang, MaxLangLength},
		{"card.footer.text", c.Card.Footer.Text, MaxTextLength},
		{"card.footer.date", c.Card.Footer.Date, MaxDateLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateChoice("output.format", c.Output.Format, "png", "html"); err != nil {
		return err
	}
	if err := validateChoice("page.preset", c.Page.Preset, "small", "medium", "large"); err != nil {
		return err
	}
	if err := validateChoice("measure.oracle", c.Measure.Oracle, "font", "heuristic"); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		return fmt.Errorf("%w: output.prefix must not contain a path separator", ErrInvalidValue)
	}

	if err := validateRange("page.budget", float64(c.Page.Budget), 0, MaxBudget); err != nil {
		return err
	}
	for name, v := range map[string]int{
		"page.padding.top":    c.Page.Padding.Top,
		"page.padding.bottom": c.Page.Padding.Bottom,
		"page.padding.side":   c.Page.Padding.Side,
	} {
		if err := validateRange(name, float64(v), 0, MaxPadding); err != nil {
			return err
		}
	}
	if c.Layout.KeepWith != nil {
		if err := validateRange("layout.keepWith", float64(*c.Layout.KeepWith), 0, MaxBudget); err != nil {
			return err
		}
	}
	if c.Layout.MinFill != nil {
		if err := validateRange("layout.minFill", *c.Layout.MinFill, 0, 1); err != nil {
			return err
		}
	}
	if err := validateRange("measure.fontSize", c.Measure.FontSize, 0, MaxFontSize); err != nil {
		return err
	}
	if err := validateRange("measure.lineHeight", c.Measure.LineHeight, 0, MaxLineHeight); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateChoice accepts an empty value or one of choices, case-insensitively.
func validateChoice(fieldName, value string, choices ...string) error {
	if value == "" {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(value))
	for _, c := range choices {
		if v == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(choices, ", "))
}

func validateRange(fieldName string, value, lo, hi float64) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %g and %g, got %g", ErrInvalidValue, fieldName, lo, hi, value)
	}
	return nil
}

// DefaultConfig returns a neutral configuration. Empty fields defer to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{DefaultDir: ""},
		Page:   PageConfig{Preset: ""},
		CSS:    CSSConfig{Theme: ""},
		Assets: AssetsConfig{BasePath: ""},
		Card:   CardConfig{Footer: FooterConfig{PageNumbers: false}},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2cards/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2cards", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
