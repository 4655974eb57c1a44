package assets

import "errors"

var (
	// ErrThemeNotFound is returned for a theme name with no stylesheet in the
	// custom directory or among the built-in themes.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrTemplateNotFound is returned when the card template is missing.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName rejects names that are not plain file stems.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath is returned when --asset-path is not a readable
	// directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal is returned when a theme or template resolves outside
	// the asset directory, for example through a symlink.
	ErrPathTraversal = errors.New("path traversal detected")
)
