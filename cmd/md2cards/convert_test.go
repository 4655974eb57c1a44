package main

// Notes:
// - End-to-end runs use --format html: the real converter paginates with the
//   font oracle and writes HTML cards, no browser involved.
// - convertBatch and printResultsWithWriter are driven by fakePool so failures
//   and overflows can be scripted.
// - loadEnvConfig reads the process environment; these tests assume no
//   MD2CARDS_* variables are set.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2cards"
	"github.com/alnah/go-md2cards/internal/config"
)

// ---------------------------------------------------------------------------
// TestResolveTimeoutWithEnv - Flag parsing, validation, and priority
// ---------------------------------------------------------------------------

func TestResolveTimeoutWithEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr error
	}{
		{name: "neither set", want: 0},
		{name: "env only", env: 45 * time.Second, want: 45 * time.Second},
		{name: "flag wins over env", flag: "2m", env: 45 * time.Second, want: 2 * time.Minute},
		{name: "flag only", flag: "30s", want: 30 * time.Second},
		{name: "unparsable flag", flag: "soon", wantErr: ErrInvalidTimeout},
		{name: "zero flag", flag: "0s", wantErr: ErrInvalidTimeout},
		{name: "negative flag", flag: "-5s", wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeoutWithEnv(tt.flag, tt.env)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config values
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("set flags override config", func(t *testing.T) {
		t.Parallel()

		keep, fill := 90, 0.5
		cfg := config.DefaultConfig()
		cfg.Page.Preset = "small"
		cfg.Output.Format = "png"
		cfg.Card.Footer.Text = "from config"

		flags := &convertFlags{
			output: "out",
			prefix: "slide",
			format: "html",
			layout: layoutFlags{preset: "large", budget: 700, keepWith: &keep, minFill: &fill, oracle: "heuristic"},
			card:   cardFlags{title: "Deck", lang: "fr", pageNumber: true, footerText: "@me", date: "auto"},
			style:  styleFlags{theme: "dark", css: "extra.css", assetPath: "assets"},
		}
		mergeFlags(flags, cfg)

		checks := []struct {
			field string
			got   any
			want  any
		}{
			{"output.defaultDir", cfg.Output.DefaultDir, "out"},
			{"output.prefix", cfg.Output.Prefix, "slide"},
			{"output.format", cfg.Output.Format, "html"},
			{"page.preset", cfg.Page.Preset, "large"},
			{"page.budget", cfg.Page.Budget, 700},
			{"layout.keepWith", *cfg.Layout.KeepWith, 90},
			{"layout.minFill", *cfg.Layout.MinFill, 0.5},
			{"measure.oracle", cfg.Measure.Oracle, "heuristic"},
			{"css.theme", cfg.CSS.Theme, "dark"},
			{"css.file", cfg.CSS.File, "extra.css"},
			{"assets.basePath", cfg.Assets.BasePath, "assets"},
			{"card.title", cfg.Card.Title, "Deck"},
			{"card.lang", cfg.Card.Lang, "fr"},
			{"card.footer.text", cfg.Card.Footer.Text, "@me"},
			{"card.footer.date", cfg.Card.Footer.Date, "auto"},
			{"card.footer.pageNumbers", cfg.Card.Footer.PageNumbers, true},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
			}
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		keep := 40
		cfg := config.DefaultConfig()
		cfg.Page.Preset = "small"
		cfg.Page.Budget = 500
		cfg.Layout.KeepWith = &keep
		cfg.Card.Footer.PageNumbers = true

		mergeFlags(&convertFlags{}, cfg)

		if cfg.Page.Preset != "small" || cfg.Page.Budget != 500 {
			t.Errorf("page = %+v, want preset small and budget 500", cfg.Page)
		}
		if cfg.Layout.KeepWith == nil || *cfg.Layout.KeepWith != 40 {
			t.Errorf("layout.keepWith = %v, want 40", cfg.Layout.KeepWith)
		}
		if !cfg.Card.Footer.PageNumbers {
			t.Error("page numbers enabled in config must stay enabled")
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildOptions - Config to converter options
// ---------------------------------------------------------------------------

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	t.Run("geometry and format", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Preset = "Small"
		cfg.Page.Budget = 500
		cfg.Page.Padding = config.PaddingConfig{Top: 10, Bottom: 20, Side: 30}
		cfg.Output.Format = "HTML"

		opts, err := buildOptions(cfg, time.Minute, "")
		if err != nil {
			t.Fatalf("buildOptions() error = %v", err)
		}
		conv, err := md2cards.NewConverter(opts...)
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
		defer conv.Close()

		size := conv.PageSize()
		if size.Height != 500 {
			t.Errorf("Height = %d, want 500", size.Height)
		}
		if size.Width != md2cards.PresetSmall.PageSize().Width {
			t.Errorf("Width = %d, want the small preset width", size.Width)
		}
		if size.Padding != (md2cards.Padding{Top: 10, Bottom: 20, Side: 30}) {
			t.Errorf("Padding = %+v", size.Padding)
		}
		if conv.Format() != md2cards.FormatHTML {
			t.Errorf("Format() = %q, want html", conv.Format())
		}
	})

	t.Run("footer joins text and date", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Format = "html"
		cfg.Measure.Oracle = "heuristic"
		cfg.Card.Footer.Text = "@me"
		cfg.Card.Footer.PageNumbers = true

		opts, err := buildOptions(cfg, 0, "2026-10-19")
		if err != nil {
			t.Fatalf("buildOptions() error = %v", err)
		}
		conv, err := md2cards.NewConverter(opts...)
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
		defer conv.Close()

		res, err := conv.Paginate(context.Background(), md2cards.Input{Markdown: "Hello"})
		if err != nil {
			t.Fatalf("Paginate() error = %v", err)
		}
		want := "@me · 2026-10-19 · 1 / 1"
		if !strings.Contains(res.Pages[0].HTML, want) {
			t.Errorf("footer should contain %q", want)
		}
	})

	t.Run("invalid preset", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Preset = "poster"
		if _, err := buildOptions(cfg, 0, ""); !errors.Is(err, md2cards.ErrInvalidPreset) {
			t.Errorf("error = %v, want ErrInvalidPreset", err)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Format = "pdf"
		if _, err := buildOptions(cfg, 0, ""); !errors.Is(err, md2cards.ErrInvalidFormat) {
			t.Errorf("error = %v, want ErrInvalidFormat", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCheckOptions - Invalid layouts fail before any file is read
// ---------------------------------------------------------------------------

func TestCheckOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []md2cards.Option
		wantErr error
	}{
		{name: "defaults", opts: []md2cards.Option{md2cards.WithFormat(md2cards.FormatHTML)}},
		{name: "min fill above one", opts: []md2cards.Option{md2cards.WithMinFill(1.5)}, wantErr: md2cards.ErrInvalidMinFill},
		{name: "negative keep-with", opts: []md2cards.Option{md2cards.WithKeepWith(-1)}, wantErr: md2cards.ErrInvalidKeepWith},
		{name: "unknown theme", opts: []md2cards.Option{md2cards.WithTheme("neon")}, wantErr: md2cards.ErrThemeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkOptions(tt.opts)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveInputPath / TestReadCSSFile
// ---------------------------------------------------------------------------

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if _, err := resolveInputPath(nil, cfg); !errors.Is(err, ErrNoInput) {
		t.Errorf("no args, no config: error = %v, want ErrNoInput", err)
	}

	cfg.Input.DefaultDir = "notes"
	if got, _ := resolveInputPath(nil, cfg); got != "notes" {
		t.Errorf("config fallback = %q, want notes", got)
	}
	if got, _ := resolveInputPath([]string{"post.md"}, cfg); got != "post.md" {
		t.Errorf("argument = %q, want post.md", got)
	}
}

func TestReadCSSFile(t *testing.T) {
	t.Parallel()

	if css, err := readCSSFile(""); css != "" || err != nil {
		t.Errorf("readCSSFile(\"\") = %q, %v", css, err)
	}

	path := filepath.Join(t.TempDir(), "extra.css")
	writeFile(t, path, ".card { color: red; }")
	css, err := readCSSFile(path)
	if err != nil || css != ".card { color: red; }" {
		t.Errorf("readCSSFile() = %q, %v", css, err)
	}

	_, err = readCSSFile(filepath.Join(t.TempDir(), "missing.css"))
	if !errors.Is(err, ErrReadCSS) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrReadCSS wrapping ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestCardTitle / TestJoinNonEmpty / TestTriedPaths
// ---------------------------------------------------------------------------

func TestCardTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fixed    string
		path     string
		markdown string
		want     string
	}{
		{name: "fixed title wins", fixed: "Deck", path: "a/post.md", markdown: "---\ntitle: Meta\n---\n", want: "Deck"},
		{name: "front matter title", path: "a/post.md", markdown: "---\ntitle: Meta\n---\nBody", want: "Meta"},
		{name: "file name", path: "a/release-notes.markdown", markdown: "Body", want: "release-notes"},
	}
	for _, tt := range tests {
		if got := cardTitle(tt.fixed, tt.path, tt.markdown); got != tt.want {
			t.Errorf("%s: cardTitle() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestJoinNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"", ""}, ""},
		{[]string{"a", ""}, "a"},
		{[]string{"", "b"}, "b"},
		{[]string{"a", "b"}, "a · b"},
	}
	for _, tt := range tests {
		if got := joinNonEmpty(footerSeparator, tt.parts...); got != tt.want {
			t.Errorf("joinNonEmpty(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestTriedPaths(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading config: %w: tried a.yaml, b.yml", config.ErrConfigNotFound)
	got := triedPaths(err)
	if !slices.Equal(got, []string{"a.yaml", "b.yml"}) {
		t.Errorf("triedPaths() = %q", got)
	}
	if got := triedPaths(errors.New("other")); got != nil {
		t.Errorf("triedPaths(other) = %q, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch - Worker fan-out with a scripted pool
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	t.Run("writes every file in order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToConvert
		for _, name := range []string{"a.md", "b.md", "c.md"} {
			path := filepath.Join(dir, name)
			writeFile(t, path, "# "+name)
			files = append(files, FileToConvert{InputPath: path, OutputDir: resolveCardDir(path, "", "")})
		}

		conv := &fakeConverter{heights: []int{80, 60}}
		pool := &fakePool{conv: conv, size: 2}
		results := convertBatch(context.Background(), pool, files, &conversionParams{prefix: "slide"})

		if len(results) != 3 {
			t.Fatalf("got %d results, want 3", len(results))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Fatalf("result %d: %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result %d is for %s, want %s", i, r.InputPath, files[i].InputPath)
			}
			if len(r.Files) != 2 {
				t.Errorf("result %d wrote %d files, want 2", i, len(r.Files))
			}
			if got := cardFiles(t, r.OutputDir, "slide", "html"); len(got) != 2 {
				t.Errorf("%s holds %d cards, want 2", r.OutputDir, len(got))
			}
		}
		if pool.released != 2 {
			t.Errorf("released %d converters, want 2", pool.released)
		}

		titles := conv.titles()
		slices.Sort(titles)
		if !slices.Equal(titles, []string{"a", "b", "c"}) {
			t.Errorf("titles = %q, want file names", titles)
		}
	})

	t.Run("empty document writes nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "blank.md")
		writeFile(t, path, "")
		outDir := resolveCardDir(path, "", "")

		results := convertBatch(context.Background(), &fakePool{conv: &fakeConverter{}, size: 1},
			[]FileToConvert{{InputPath: path, OutputDir: outDir}}, &conversionParams{})

		if results[0].Err != nil || len(results[0].Files) != 0 {
			t.Errorf("result = %+v, want success without files", results[0])
		}
		if _, err := os.Stat(outDir); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("output directory created for an empty document: %v", err)
		}
	})

	t.Run("acquire failure marks every file", func(t *testing.T) {
		t.Parallel()

		acquireErr := errors.New("no browser")
		pool := &fakePool{size: 1, acquireErr: acquireErr}
		files := []FileToConvert{{InputPath: "a.md"}, {InputPath: "b.md"}}

		for _, r := range convertBatch(context.Background(), pool, files, &conversionParams{}) {
			if !errors.Is(r.Err, acquireErr) {
				t.Errorf("%s: error = %v, want %v", r.InputPath, r.Err, acquireErr)
			}
		}
	})

	t.Run("cancelled context skips conversion", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		conv := &fakeConverter{heights: []int{10}}
		files := []FileToConvert{{InputPath: "a.md"}}
		results := convertBatch(ctx, &fakePool{conv: conv, size: 1}, files, &conversionParams{})

		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", results[0].Err)
		}
		if len(conv.titles()) != 0 {
			t.Error("converter should not be called after cancellation")
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Parallel()

		files := []FileToConvert{{InputPath: filepath.Join(t.TempDir(), "gone.md")}}
		results := convertBatch(context.Background(), &fakePool{conv: &fakeConverter{}, size: 1}, files, &conversionParams{})

		if !errors.Is(results[0].Err, ErrReadMarkdown) {
			t.Errorf("error = %v, want ErrReadMarkdown", results[0].Err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		if results := convertBatch(context.Background(), &fakePool{size: 1}, nil, &conversionParams{}); results != nil {
			t.Errorf("results = %v, want nil", results)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResultsWithWriter - Output modes and overflow warnings
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputDir: "a_cards", Files: []string{"1", "2"}, Duration: time.Second},
		{InputPath: "b.md", OutputDir: "b_cards", Files: []string{"1"}, Overflows: 1, Warnings: 2},
		{InputPath: "c.md", Err: errors.New("boom")},
		{InputPath: "d.md", OutputDir: "d_cards"},
	}

	tests := []struct {
		name        string
		quiet       bool
		verbose     bool
		wantStdout  []string
		avoidStdout []string
		wantStderr  []string
	}{
		{
			name:       "default",
			wantStdout: []string{"Created 2 cards in a_cards", "Created 1 cards in b_cards", "No cards for d.md: document is empty", "3 succeeded, 1 failed, 3 cards"},
			wantStderr: []string{"FAILED c.md: boom", "b.md: 1 card(s) taller than the budget", "--preset"},
		},
		{
			name:       "verbose",
			verbose:    true,
			wantStdout: []string{"a.md -> a_cards (2 cards, 1s)", "2 block(s) measured by estimate"},
		},
		{
			name:        "quiet",
			quiet:       true,
			avoidStdout: []string{"Created", "succeeded", "No cards"},
			wantStderr:  []string{"FAILED c.md", "taller than the budget"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env)
			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout.String())
				}
			}
			for _, avoid := range tt.avoidStdout {
				if strings.Contains(stdout.String(), avoid) {
					t.Errorf("stdout should not contain %q:\n%s", avoid, stdout.String())
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr missing %q:\n%s", want, stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunConvert - End-to-end with HTML output
// ---------------------------------------------------------------------------

func TestRunConvert_Directory(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "a.md"), sampleMarkdown)
	writeFile(t, filepath.Join(src, "sub", "b.md"), "---\ntitle: Bee\n---\n# B\n\nText.")
	writeFile(t, filepath.Join(src, "old_cards", "skip.md"), "# previous output")
	writeFile(t, filepath.Join(src, "notes.txt"), "not markdown")

	env, stdout, stderr := testEnv()
	code := runMain([]string{
		"md2cards", "convert", src,
		"-o", out, "--prefix", "slide", "-f", "html",
		"--page-number", "--footer-text", "@me", "--date", "auto:long",
		"--debug",
	}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	aCards := cardFiles(t, filepath.Join(out, "a_cards"), "slide", "html")
	if len(aCards) < 2 {
		t.Fatalf("a.md produced %d cards, want at least 2", len(aCards))
	}
	bCards := cardFiles(t, filepath.Join(out, "sub", "b_cards"), "slide", "html")
	if len(bCards) != 1 {
		t.Fatalf("b.md produced %d cards, want 1", len(bCards))
	}
	if _, err := os.Stat(filepath.Join(out, "old_cards")); !errors.Is(err, os.ErrNotExist) {
		t.Error("files under *_cards directories must not be converted")
	}

	first, err := os.ReadFile(aCards[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(first), "@me · October 19, 2026 · 1 / ") {
		t.Errorf("footer missing from card:\n%s", first)
	}
	if !strings.Contains(string(first), "<title>a</title>") {
		t.Error("title should default to the file name")
	}

	b, err := os.ReadFile(bCards[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "<title>Bee</title>") {
		t.Error("front matter title should name the card")
	}

	for _, want := range []string{"2 succeeded, 0 failed", "CARD", "BUDGET", "break"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunConvert_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "post.md")
	writeFile(t, input, sampleMarkdown)

	env, _, stderr := testEnv()
	env.NewPool = func(size int, _ ...md2cards.Option) Pool {
		return &fakePool{conv: &fakeConverter{err: fmt.Errorf("%w: crashed", md2cards.ErrScreenshot)}, size: size}
	}

	code := runMain([]string{"md2cards", "convert", input, "-f", "html"}, env)
	if code != ExitBrowser {
		t.Errorf("exit code = %d, want %d", code, ExitBrowser)
	}
	if !strings.Contains(stderr.String(), "1 conversion(s) failed") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunConvert_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantMsg  string
	}{
		{name: "too many workers", args: []string{"-w", "99", "x.md"}, wantCode: ExitUsage, wantMsg: "maximum is"},
		{name: "negative workers", args: []string{"-w", "-1", "x.md"}, wantCode: ExitUsage, wantMsg: "invalid worker count"},
		{name: "bad timeout", args: []string{"-t", "soon", "x.md"}, wantCode: ExitUsage, wantMsg: "invalid timeout"},
		{name: "bad date", args: []string{"--date", "auto:[x", "x.md"}, wantCode: ExitUsage, wantMsg: "card.footer.date"},
		{name: "min fill out of range", args: []string{"--min-fill", "2", "x.md"}, wantCode: ExitUsage, wantMsg: "layout.minFill"},
		{name: "slash in prefix", args: []string{"--prefix", "a/b", "x.md"}, wantCode: ExitUsage, wantMsg: "prefix"},
		{name: "missing config", args: []string{"-c", "nope-md2cards-test", "x.md"}, wantCode: ExitUsage, wantMsg: "config file not found"},
		{name: "missing css", args: []string{"-f", "html", "--css", "missing.css", "x.md"}, wantCode: ExitIO, wantMsg: "failed to read CSS file"},
		{name: "not markdown", args: []string{"-f", "html", "convert_test.go"}, wantCode: ExitUsage, wantMsg: ".md or .markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stderr := testEnv()
			code := runMain(append([]string{"md2cards", "convert"}, tt.args...), env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantMsg) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantMsg)
			}
		})
	}
}

func TestRunConvert_EnvWorkersCapped(t *testing.T) {
	t.Setenv("MD2CARDS_WORKERS", "64")

	input := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(input, []byte("# Hi\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	env, _, stderr := testEnv()
	code := runMain([]string{"md2cards", "convert", "-f", "html", input}, env)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d\nstderr: %s", code, ExitUsage, stderr.String())
	}
	if !strings.Contains(stderr.String(), "MD2CARDS_WORKERS") {
		t.Errorf("stderr = %q, want to name MD2CARDS_WORKERS", stderr.String())
	}
}
