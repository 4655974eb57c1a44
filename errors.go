package md2cards

import (
	"errors"

	"github.com/alnah/go-md2cards/internal/assets"
	"github.com/alnah/go-md2cards/internal/pagination"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("card screenshot failed")
	ErrOutputWrite    = errors.New("failed to write output")

	// Page layout validation errors.
	ErrInvalidPreset  = errors.New("invalid page size preset")
	ErrInvalidPadding = errors.New("invalid page padding")
	ErrInvalidFormat  = errors.New("invalid output format")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Pagination and asset errors, re-exported so callers can match them with
// errors.Is without importing internal packages.
var (
	ErrInvalidBudget   = pagination.ErrInvalidBudget
	ErrInvalidKeepWith = pagination.ErrInvalidKeepWith
	ErrInvalidMinFill  = pagination.ErrInvalidMinFill
	ErrThemeNotFound   = assets.ErrThemeNotFound
)
