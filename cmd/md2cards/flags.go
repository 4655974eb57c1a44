package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// layoutFlags holds card canvas and pagination flags. Pointers are nil when
// the flag was not given, so config values survive.
type layoutFlags struct {
	preset   string
	budget   int
	keepWith *int
	minFill  *float64
	oracle   string
}

// cardFlags holds per-card document flags.
type cardFlags struct {
	title      string
	lang       string
	pageNumber bool
	footerText string
	date       string
}

// styleFlags holds styling flags.
type styleFlags struct {
	theme     string
	css       string
	assetPath string
}

// modeFlags holds run mode flags.
type modeFlags struct {
	debug bool
	watch bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	prefix  string
	format  string
	workers int
	timeout string
	layout  layoutFlags
	card    cardFlags
	style   styleFlags
	mode    modeFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addLayoutFlags adds layout flags to a FlagSet. keep-with and min-fill are
// bound to locals and read back through Changed after parsing.
func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags, keepWith *int, minFill *float64) {
	fs.StringVarP(&f.preset, "preset", "p", "", "card size: small, medium, large")
	fs.IntVar(&f.budget, "budget", 0, "page height budget in px (0 = preset height)")
	fs.IntVar(keepWith, "keep-with", 0, "px of content a heading keeps below it")
	fs.Float64Var(minFill, "min-fill", 0, "merge a last card filled below this ratio (0-1)")
	fs.StringVar(&f.oracle, "oracle", "", "height measurement: font, heuristic")
}

// addCardFlags adds card document flags to a FlagSet.
func addCardFlags(fs *flag.FlagSet, f *cardFlags) {
	fs.StringVar(&f.title, "title", "", "card document title (\"\" = file name)")
	fs.StringVar(&f.lang, "lang", "", "card lang attribute (default: en)")
	fs.BoolVar(&f.pageNumber, "page-number", false, "show \"n / total\" in the footer")
	fs.StringVar(&f.footerText, "footer-text", "", "footer text")
	fs.StringVar(&f.date, "date", "", "footer date (\"auto\", \"auto:FORMAT\" or literal)")
}

// addStyleFlags adds styling flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.theme, "theme", "", "built-in color theme")
	fs.StringVar(&f.css, "css", "", "extra CSS file")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addModeFlags adds run mode flags to a FlagSet.
func addModeFlags(fs *flag.FlagSet, f *modeFlags) {
	fs.BoolVar(&f.debug, "debug", false, "print a per-card layout table")
	fs.BoolVar(&f.watch, "watch", false, "re-paginate when the input file changes")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
// Shared by parsing and shell completion.
func newConvertFlagSet(f *convertFlags, keepWith *int, minFill *float64) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.prefix, "prefix", "", "card file name prefix (default: card)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: png, html")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addLayoutFlags(fs, &f.layout, keepWith, minFill)
	addCardFlags(fs, &f.card)
	addStyleFlags(fs, &f.style)
	addModeFlags(fs, &f.mode)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	var keepWith int
	var minFill float64

	fs := newConvertFlagSet(f, &keepWith, &minFill)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if fs.Changed("keep-with") {
		f.layout.keepWith = &keepWith
	}
	if fs.Changed("min-fill") {
		f.layout.minFill = &minFill
	}

	return f, fs.Args(), nil
}
