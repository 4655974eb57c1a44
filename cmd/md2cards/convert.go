package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2cards"
	"github.com/alnah/go-md2cards/internal/config"
	"github.com/alnah/go-md2cards/internal/dateutil"
	"github.com/alnah/go-md2cards/internal/hints"
	"github.com/alnah/go-md2cards/internal/pipeline"
)

// Sentinel errors for the convert command.
var (
	ErrInvalidFlag     = errors.New("invalid flag")
	ErrNoInput         = errors.New("no input specified")
	ErrNoMarkdownFiles = errors.New("no markdown files found")
	ErrReadCSS         = errors.New("failed to read CSS file")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrWatchTarget     = errors.New("--watch needs a single markdown file")
)

// footerSeparator joins footer text and date.
const footerSeparator = " · "

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	css     string // extra CSS appended after the theme
	title   string // fixed card title; empty uses the file name
	prefix  string
	timeout time.Duration
	debug   bool
}

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	date, err := dateutil.ResolveDate(cfg.Card.Footer.Date, env.Now())
	if err != nil {
		return fmt.Errorf("card.footer.date: %w", err)
	}

	opts, err := buildOptions(cfg, timeout, date)
	if err != nil {
		return err
	}
	if err := checkOptions(opts); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	css, err := readCSSFile(cfg.CSS.File)
	if err != nil {
		return err
	}

	params := &conversionParams{
		css:     css,
		title:   cfg.Card.Title,
		prefix:  cfg.Output.Prefix,
		timeout: timeout,
		debug:   flags.mode.debug,
	}

	workers, err := resolveWorkers(flags.workers, envCfg.Workers)
	if err != nil {
		return err
	}

	if flags.mode.watch {
		return runWatch(ctx, inputPath, cfg.Output.DefaultDir, params, opts, flags.common, env)
	}

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoMarkdownFiles, inputPath)
	}

	poolSize := min(md2cards.ResolvePoolSize(workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := env.NewPool(poolSize, opts...)
	defer pool.Close()

	results := convertBatch(ctx, pool, files, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if params.debug {
		for _, r := range results {
			if r.Err == nil {
				printDebugTable(env.Stdout, r.InputPath, r.Pages)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// loadConfig loads the --config file, falling back to MD2CARDS_CONFIG.
func loadConfig(flagConfig, envConfig string) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.Output.DefaultDir, flags.output)
	set(&cfg.Output.Prefix, flags.prefix)
	set(&cfg.Output.Format, flags.format)

	set(&cfg.Page.Preset, flags.layout.preset)
	if flags.layout.budget != 0 {
		cfg.Page.Budget = flags.layout.budget
	}
	if flags.layout.keepWith != nil {
		cfg.Layout.KeepWith = flags.layout.keepWith
	}
	if flags.layout.minFill != nil {
		cfg.Layout.MinFill = flags.layout.minFill
	}
	set(&cfg.Measure.Oracle, flags.layout.oracle)

	set(&cfg.CSS.Theme, flags.style.theme)
	set(&cfg.CSS.File, flags.style.css)
	set(&cfg.Assets.BasePath, flags.style.assetPath)

	set(&cfg.Card.Title, flags.card.title)
	set(&cfg.Card.Lang, flags.card.lang)
	set(&cfg.Card.Footer.Text, flags.card.footerText)
	set(&cfg.Card.Footer.Date, flags.card.date)
	if flags.card.pageNumber {
		cfg.Card.Footer.PageNumbers = true
	}
}

// resolveTimeoutWithEnv picks the timeout: flag > env > library default.
// Returns 0 when neither is set.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, flagValue)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, timeout time.Duration, date string) ([]md2cards.Option, error) {
	var opts []md2cards.Option

	if cfg.Page.Preset != "" {
		preset, err := md2cards.ParsePreset(cfg.Page.Preset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, md2cards.WithPreset(preset))
	}
	if cfg.Page.Budget > 0 {
		opts = append(opts, md2cards.WithBudget(cfg.Page.Budget))
	}
	if p := cfg.Page.Padding; p.IsSet() {
		opts = append(opts, md2cards.WithPadding(md2cards.Padding{Top: p.Top, Bottom: p.Bottom, Side: p.Side}))
	}
	if cfg.Layout.KeepWith != nil {
		opts = append(opts, md2cards.WithKeepWith(*cfg.Layout.KeepWith))
	}
	if cfg.Layout.MinFill != nil {
		opts = append(opts, md2cards.WithMinFill(*cfg.Layout.MinFill))
	}

	if cfg.Measure.FontSize > 0 || cfg.Measure.LineHeight > 0 {
		typo := md2cards.DefaultTypography()
		if cfg.Measure.FontSize > 0 {
			typo.BodySize = cfg.Measure.FontSize
		}
		if cfg.Measure.LineHeight > 0 {
			typo.LineHeight = cfg.Measure.LineHeight
		}
		opts = append(opts, md2cards.WithTypography(typo))
	}
	if strings.EqualFold(cfg.Measure.Oracle, "heuristic") {
		opts = append(opts, md2cards.WithHeightOracle(md2cards.HeuristicOracle))
	}

	if cfg.Output.Format != "" {
		format, err := md2cards.ParseFormat(cfg.Output.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, md2cards.WithFormat(format))
	}
	if cfg.CSS.Theme != "" {
		opts = append(opts, md2cards.WithTheme(cfg.CSS.Theme))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, md2cards.WithAssetPath(cfg.Assets.BasePath))
	}

	if cfg.Card.Lang != "" {
		opts = append(opts, md2cards.WithLang(cfg.Card.Lang))
	}
	opts = append(opts, md2cards.WithPageNumbers(cfg.Card.Footer.PageNumbers))
	if text := joinNonEmpty(footerSeparator, cfg.Card.Footer.Text, date); text != "" {
		opts = append(opts, md2cards.WithFooterText(text))
	}

	if timeout > 0 {
		opts = append(opts, md2cards.WithTimeout(timeout))
	}

	return opts, nil
}

// checkOptions builds and discards a converter so invalid layouts or themes
// fail before any file is read. No browser is started.
func checkOptions(opts []md2cards.Option) error {
	conv, err := md2cards.NewConverter(opts...)
	if err != nil {
		return err
	}
	return conv.Close()
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// readCSSFile reads the extra CSS file, if any.
func readCSSFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
	}
	return string(content), nil
}

// cardTitle picks the card title: --title, then the front matter title,
// then the file name without extension.
func cardTitle(fixed, inputPath, markdown string) string {
	if fixed != "" {
		return fixed
	}
	if meta, _ := pipeline.SplitFrontMatter(markdown); meta.Title != "" {
		return meta.Title
	}
	return strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, md2cards.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, md2cards.ErrThemeNotFound):
		return hints.ForThemeNotFound(md2cards.Themes())
	case errors.Is(err, md2cards.ErrOutputWrite):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the searched paths from a config-not-found message.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
