package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-md2cards"
	"github.com/alnah/go-md2cards/internal/hints"
)

// ErrReadMarkdown is returned when a source file cannot be read.
var ErrReadMarkdown = errors.New("failed to read markdown file")

// CLIConverter is the part of md2cards.Converter the CLI uses.
type CLIConverter interface {
	Convert(ctx context.Context, input md2cards.Input) (*md2cards.Result, error)
	Schedule(ctx context.Context, input md2cards.Input, delay time.Duration) *md2cards.Pending
	Format() md2cards.Format
}

// Compile-time interface implementation check.
var _ CLIConverter = (*md2cards.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath string
	OutputDir string
	Files     []string // written card files
	Pages     []md2cards.Page
	Warnings  int // blocks measured by the fallback estimate
	Overflows int // cards taller than the budget
	Err       error
	Duration  time.Duration
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       err,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one markdown file and writes its cards.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{
		InputPath: f.InputPath,
		OutputDir: f.OutputDir,
	}
	defer func() { result.Duration = time.Since(start) }()

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadMarkdown, err)
		return result
	}

	res, err := conv.Convert(ctx, fileInput(f.InputPath, string(content), params))
	if err != nil {
		result.Err = err
		return result
	}

	if len(res.Pages) == 0 {
		return result
	}

	written, err := md2cards.WritePages(f.OutputDir, outputPrefix(params.prefix), res.Pages, conv.Format())
	if err != nil {
		result.Err = err
		return result
	}

	result.Files = written
	result.Pages = res.Pages
	result.Warnings = len(res.Warnings)
	for _, p := range res.Pages {
		if p.Overflows() {
			result.Overflows++
		}
	}
	return result
}

// fileInput builds the conversion input for one source file.
func fileInput(path, markdown string, params *conversionParams) md2cards.Input {
	return md2cards.Input{
		Markdown:  markdown,
		SourceDir: filepath.Dir(path),
		CSS:       params.css,
		Title:     cardTitle(params.title, path, markdown),
	}
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Cards     int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Cards += len(r.Files)
	}
	return summary
}

// printResultsWithWriter outputs conversion results and returns the number
// of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if r.Overflows > 0 {
			fmt.Fprintf(env.Stderr, "warning: %s: %d card(s) taller than the budget%s\n", r.InputPath, r.Overflows, hints.ForOverflow())
		}

		if quiet {
			continue
		}

		if len(r.Files) == 0 {
			fmt.Fprintf(env.Stdout, "No cards for %s: document is empty\n", r.InputPath)
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d cards, %v)\n", r.InputPath, r.OutputDir, len(r.Files), r.Duration.Round(time.Millisecond))
			if r.Warnings > 0 {
				fmt.Fprintf(env.Stdout, "  %d block(s) measured by estimate\n", r.Warnings)
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %d cards in %s\n", len(r.Files), r.OutputDir)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed, %d cards\n", summary.Succeeded, summary.Failed, summary.Cards)
	}

	return summary.Failed
}
