package main

import (
	"errors"
	"os"

	"github.com/alnah/go-md2cards"
	"github.com/alnah/go-md2cards/internal/config"
	"github.com/alnah/go-md2cards/internal/dateutil"
)

// Exit codes for the md2cards CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2cards.ErrBrowserConnect) ||
		errors.Is(err, md2cards.ErrPageCreate) ||
		errors.Is(err, md2cards.ErrPageLoad) ||
		errors.Is(err, md2cards.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) ||
		errors.Is(err, md2cards.ErrOutputWrite) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlag) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrWatchTarget) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, md2cards.ErrInvalidPreset) ||
		errors.Is(err, md2cards.ErrInvalidPadding) ||
		errors.Is(err, md2cards.ErrInvalidBudget) ||
		errors.Is(err, md2cards.ErrInvalidKeepWith) ||
		errors.Is(err, md2cards.ErrInvalidMinFill) ||
		errors.Is(err, md2cards.ErrInvalidFormat) ||
		errors.Is(err, md2cards.ErrThemeNotFound) ||
		errors.Is(err, md2cards.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
