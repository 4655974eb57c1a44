// Package hints appends a next step to CLI error messages. Every hint reads
// "\n  hint: <text>" so it lines up under the error it follows.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2cards/internal/fileutil"
)

// IsInContainer reports whether md2cards runs inside Docker. Tests replace it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

func inCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect explains how to get Chrome running for PNG cards, and
// points at HTML output, which needs no browser.
func ForBrowserConnect() string {
	var steps []string
	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		steps = append(steps, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		steps = append(steps, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	steps = append(steps, "or write HTML cards with --format html")
	return format(strings.Join(steps, "; "))
}

// ForTimeout suggests a longer --timeout for documents with many cards.
func ForTimeout() string {
	return format("documents with many cards need a longer --timeout")
}

// ForConfigNotFound suggests --config, or the user config path when it was
// among the searched locations.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashPath(p), ".config/go-md2cards") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is shown when the card directory cannot be created.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeNotFound lists the built-in themes.
func ForThemeNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForOverflow is shown for cards taller than the budget. It happens when one
// code block, table or image does not fit a card.
func ForOverflow() string {
	return format("use a larger --preset or --budget, or split the block with <!-- pagebreak -->")
}

// slashPath normalizes Windows separators so path checks match on every OS.
func slashPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
