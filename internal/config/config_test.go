package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.Page.Preset != "" {
		t.Errorf("Page.Preset = %q, want empty", cfg.Page.Preset)
	}
	if cfg.Layout.KeepWith != nil || cfg.Layout.MinFill != nil {
		t.Error("layout overrides should be unset")
	}
	if cfg.Card.Footer.PageNumbers {
		t.Error("Card.Footer.PageNumbers = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit is invalid", "12345678901", 10, true},
		{"multibyte counts bytes", "ééééé", 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test", tt.value, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error = %v, want ErrFieldTooLong", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "full valid config",
			cfg: Config{
				Output:  OutputConfig{Format: "HTML", Prefix: "post"},
				Page:    PageConfig{Preset: "large", Budget: 1800, Padding: PaddingConfig{Top: 40, Bottom: 60, Side: 30}},
				Layout:  LayoutConfig{KeepWith: intPtr(120), MinFill: floatPtr(0.25)},
				Measure: MeasureConfig{Oracle: "heuristic", FontSize: 18, LineHeight: 1.6},
				CSS:     CSSConfig{Theme: "dark"},
				Card:    CardConfig{Lang: "fr", Footer: FooterConfig{PageNumbers: true, Date: "auto"}},
			},
		},
		{"unknown format", Config{Output: OutputConfig{Format: "pdf"}}, ErrInvalidValue},
		{"unknown preset", Config{Page: PageConfig{Preset: "huge"}}, ErrInvalidValue},
		{"unknown oracle", Config{Measure: MeasureConfig{Oracle: "ruler"}}, ErrInvalidValue},
		{"prefix with separator", Config{Output: OutputConfig{Prefix: "a/b"}}, ErrInvalidValue},
		{"negative budget", Config{Page: PageConfig{Budget: -1}}, ErrInvalidValue},
		{"huge budget", Config{Page: PageConfig{Budget: MaxBudget + 1}}, ErrInvalidValue},
		{"negative padding", Config{Page: PageConfig{Padding: PaddingConfig{Side: -5}}}, ErrInvalidValue},
		{"negative keepWith", Config{Layout: LayoutConfig{KeepWith: intPtr(-1)}}, ErrInvalidValue},
		{"zero keepWith", Config{Layout: LayoutConfig{KeepWith: intPtr(0)}}, nil},
		{"minFill above one", Config{Layout: LayoutConfig{MinFill: floatPtr(1.5)}}, ErrInvalidValue},
		{"minFill one", Config{Layout: LayoutConfig{MinFill: floatPtr(1)}}, nil},
		{"font size too large", Config{Measure: MeasureConfig{FontSize: 100}}, ErrInvalidValue},
		{"negative line height", Config{Measure: MeasureConfig{LineHeight: -1}}, ErrInvalidValue},
		{"long title", Config{Card: CardConfig{Title: strings.Repeat("x", MaxTitleLength+1)}}, ErrFieldTooLong},
		{"long footer text", Config{Card: CardConfig{Footer: FooterConfig{Text: strings.Repeat("x", MaxTextLength+1)}}}, ErrFieldTooLong},
		{"long date", Config{Card: CardConfig{Footer: FooterConfig{Date: strings.Repeat("Y", MaxDateLength+1)}}}, ErrFieldTooLong},
		{"long theme", Config{CSS: CSSConfig{Theme: strings.Repeat("t", MaxNameLength+1)}}, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaddingConfig_IsSet(t *testing.T) {
	t.Parallel()

	if (PaddingConfig{}).IsSet() {
		t.Error("zero padding reported as set")
	}
	if !(PaddingConfig{Bottom: 10}).IsSet() {
		t.Error("bottom padding not reported as set")
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		path := writeConfig(t, "cards.yaml", `output:
  defaultDir: "./out"
  prefix: "thread"
  format: "html"
page:
  preset: "small"
  padding:
    top: 30
    bottom: 40
    side: 20
layout:
  keepWith: 80
  minFill: 0.4
measure:
  oracle: "heuristic"
css:
  theme: "dark"
card:
  lang: "de"
  footer:
    pageNumbers: true
    text: "@me"
    date: "auto:YYYY"
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.DefaultDir != "./out" || cfg.Output.Prefix != "thread" || cfg.Output.Format != "html" {
			t.Errorf("Output = %+v", cfg.Output)
		}
		if cfg.Page.Preset != "small" || cfg.Page.Padding != (PaddingConfig{Top: 30, Bottom: 40, Side: 20}) {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if cfg.Layout.KeepWith == nil || *cfg.Layout.KeepWith != 80 {
			t.Errorf("Layout.KeepWith = %v, want 80", cfg.Layout.KeepWith)
		}
		if cfg.Layout.MinFill == nil || *cfg.Layout.MinFill != 0.4 {
			t.Errorf("Layout.MinFill = %v, want 0.4", cfg.Layout.MinFill)
		}
		if cfg.Measure.Oracle != "heuristic" {
			t.Errorf("Measure.Oracle = %q", cfg.Measure.Oracle)
		}
		if cfg.CSS.Theme != "dark" {
			t.Errorf("CSS.Theme = %q", cfg.CSS.Theme)
		}
		if cfg.Card.Lang != "de" || !cfg.Card.Footer.PageNumbers || cfg.Card.Footer.Text != "@me" || cfg.Card.Footer.Date != "auto:YYYY" {
			t.Errorf("Card = %+v", cfg.Card)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "invalid.yaml", "page: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, "unknown.yaml", "page:\n  preset: small\nwatermark:\n  text: DRAFT\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value is rejected after parsing", func(t *testing.T) {
		path := writeConfig(t, "bad.yaml", "layout:\n  minFill: 2\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("config name resolves yaml then yml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "only.yml"), []byte("css:\n  theme: wechat\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("only")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.CSS.Theme != "wechat" {
			t.Errorf("CSS.Theme = %q, want wechat", cfg.CSS.Theme)
		}
	})

	t.Run("missing config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("nowhere")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		for _, want := range []string{"nowhere.yaml", "nowhere.yml", "go-md2cards"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error %q does not mention %q", err, want)
			}
		}
	})
}
