package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2cards/internal/config"
)

const envPrefix = "MD2CARDS_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2CARDS_CONFIG: config file name or path
	Timeout    time.Duration // MD2CARDS_TIMEOUT: per-file timeout
	Workers    int           // MD2CARDS_WORKERS: parallel workers

	InputDir  string // MD2CARDS_INPUT_DIR: default input directory
	OutputDir string // MD2CARDS_OUTPUT_DIR: default output directory

	Preset     string // MD2CARDS_PRESET: small, medium, large
	Format     string // MD2CARDS_FORMAT: png, html
	Theme      string // MD2CARDS_THEME: built-in theme
	FooterText string // MD2CARDS_FOOTER_TEXT: footer text
	Date       string // MD2CARDS_DATE: footer date
}

// knownEnvVars lists valid MD2CARDS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2CARDS_CONFIG":      true,
	"MD2CARDS_TIMEOUT":     true,
	"MD2CARDS_WORKERS":     true,
	"MD2CARDS_INPUT_DIR":   true,
	"MD2CARDS_OUTPUT_DIR":  true,
	"MD2CARDS_PRESET":      true,
	"MD2CARDS_FORMAT":      true,
	"MD2CARDS_THEME":       true,
	"MD2CARDS_FOOTER_TEXT": true,
	"MD2CARDS_DATE":        true,
	"MD2CARDS_CONTAINER":   true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2CARDS_CONFIG"),
		InputDir:   os.Getenv("MD2CARDS_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2CARDS_OUTPUT_DIR"),
		Preset:     os.Getenv("MD2CARDS_PRESET"),
		Format:     os.Getenv("MD2CARDS_FORMAT"),
		Theme:      os.Getenv("MD2CARDS_THEME"),
		FooterText: os.Getenv("MD2CARDS_FOOTER_TEXT"),
		Date:       os.Getenv("MD2CARDS_DATE"),
	}

	if timeout := os.Getenv("MD2CARDS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MD2CARDS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MD2CARDS_*
// variable, e.g. MD2CARDS_THEMES instead of MD2CARDS_THEME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values the file left empty from environment
// variables. Precedence: CLI flags > config file > env vars > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	fill := func(dst *string, v string) {
		if v != "" && *dst == "" {
			*dst = v
		}
	}

	fill(&cfg.Input.DefaultDir, env.InputDir)
	fill(&cfg.Output.DefaultDir, env.OutputDir)
	fill(&cfg.Output.Format, env.Format)
	fill(&cfg.Page.Preset, env.Preset)
	fill(&cfg.CSS.Theme, env.Theme)
	fill(&cfg.Card.Footer.Text, env.FooterText)
	fill(&cfg.Card.Footer.Date, env.Date)
}
