package pagination

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration validation.
var (
	ErrInvalidBudget   = errors.New("invalid page budget")
	ErrInvalidKeepWith = errors.New("invalid keep-with threshold")
	ErrInvalidMinFill  = errors.New("invalid minimum fill ratio")
)

// Defaults applied by callers that leave fields unset.
const (
	DefaultKeepWithThreshold = 150 // px of content kept under a heading
	DefaultMinFillRatio      = 0.3
)

// Config holds the constants of one pagination run.
type Config struct {
	Budget            int     // page height budget in pixels, must be > 0
	KeepWithThreshold int     // room a heading needs above an oversized list before it may start there
	MinFillRatio      float64 // optimizer target in [0, 1); 0 disables the optimizer
}

// Validate rejects configurations that make pagination meaningless.
func (c Config) Validate() error {
	if c.Budget <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidBudget, c.Budget)
	}
	if c.KeepWithThreshold < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidKeepWith, c.KeepWithThreshold)
	}
	if c.MinFillRatio < 0 || c.MinFillRatio >= 1 {
		return fmt.Errorf("%w: %.2f (must be in [0, 1))", ErrInvalidMinFill, c.MinFillRatio)
	}
	return nil
}
