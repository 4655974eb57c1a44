// Package measure resolves the pixel heights of flow elements before
// pagination.
//
// Heights come from an Oracle. Two are provided:
//   - FontOracle wraps text with real glyph advances from the Go fonts
//   - HeuristicOracle estimates from character counts and per-kind constants
//
// Resolve runs a primary oracle and falls back to a second one, usually the
// heuristic, whenever the primary fails. Every fallback is reported as a
// Warning; measurement failures never abort pagination.
package measure
