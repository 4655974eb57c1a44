package assets

import (
	"fmt"
	"strings"
	"unicode"
)

// maxAssetNameLength bounds theme and template names.
const maxAssetNameLength = 64

// ValidateAssetName checks that a theme or template name can be used as a
// file name inside the asset directory: non-empty, at most 64 bytes, and free
// of path separators, dots, spaces and control characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidAssetName, len(name), maxAssetNameLength)
	}
	if strings.ContainsAny(name, "/\\.") || strings.IndexFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
