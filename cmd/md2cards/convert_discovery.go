package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-md2cards"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// Output naming.
const (
	defaultPrefix = "card"
	cardDirSuffix = "_cards"
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath string
	OutputDir string // directory receiving the file's cards
}

// discoverFiles finds all markdown files to convert.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputDir: resolveCardDir(inputPath, outputDir, "")}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasSuffix(d.Name(), cardDirSuffix) {
				return filepath.SkipDir
			}
			return nil
		}
		if !looksLikeMarkdown(path) {
			return nil
		}
		files = append(files, FileToConvert{InputPath: path, OutputDir: resolveCardDir(path, outputDir, inputPath)})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].InputPath < files[j].InputPath })
	return files, err
}

// resolveCardDir determines where the cards of a markdown file go.
//
//   - no output dir: <source dir>/<name>_cards
//   - single file: the output dir itself
//   - directory input: <output dir>/<relative dir>/<name>_cards
func resolveCardDir(inputPath, outputDir, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+cardDirSuffix)
	}

	if baseInputDir == "" {
		return outputDir
	}

	relPath, err := filepath.Rel(baseInputDir, inputPath)
	if err != nil {
		return filepath.Join(outputDir, base+cardDirSuffix)
	}
	return filepath.Join(outputDir, filepath.Dir(relPath), base+cardDirSuffix)
}

// outputPrefix returns the configured prefix or the default.
func outputPrefix(prefix string) string {
	if prefix == "" {
		return defaultPrefix
	}
	return prefix
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !looksLikeMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// resolveWorkers picks the --workers value, or MD2CARDS_WORKERS when the
// flag is unset. Both go through validateWorkers.
func resolveWorkers(flagValue, envValue int) (int, error) {
	if flagValue != 0 {
		return flagValue, validateWorkers(flagValue)
	}
	if err := validateWorkers(envValue); err != nil {
		return 0, fmt.Errorf("MD2CARDS_WORKERS: %w", err)
	}
	return envValue, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2cards.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2cards.MaxPoolSize)
	}
	return nil
}
