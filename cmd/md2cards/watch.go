package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/alnah/go-md2cards"
)

// Watch timing.
const (
	defaultWatchInterval = 250 * time.Millisecond
	watchDebounce        = 300 * time.Millisecond
)

// fileStamp identifies a version of the watched file.
type fileStamp struct {
	mod  time.Time
	size int64
}

func stampOf(info os.FileInfo) fileStamp {
	return fileStamp{mod: info.ModTime(), size: info.Size()}
}

// runWatch converts inputPath, then re-converts it after every change until
// ctx is cancelled. Bursts of saves collapse into one conversion: each change
// cancels the scheduled one and schedules anew.
func runWatch(ctx context.Context, inputPath, outputDir string, params *conversionParams, opts []md2cards.Option, common commonFlags, env *Environment) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrWatchTarget, inputPath)
	}
	if err := validateMarkdownExtension(inputPath); err != nil {
		return err
	}

	dir := resolveCardDir(inputPath, outputDir, "")
	prefix := outputPrefix(params.prefix)

	pool := env.NewPool(1, opts...)
	defer pool.Close()
	conv, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(conv)

	interval := env.WatchInterval
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending *md2cards.Pending
	schedule := func(delay time.Duration) error {
		content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
		}
		if pending != nil {
			pending.Cancel()
		}
		pending = conv.Schedule(ctx, fileInput(inputPath, string(content), params), delay)
		return nil
	}

	last := stampOf(info)
	if err := schedule(0); err != nil {
		return err
	}
	if !common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", inputPath)
	}

	for {
		var done <-chan struct{}
		if pending != nil {
			done = pending.Done()
		}

		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Cancel()
			}
			return nil

		case <-ticker.C:
			info, err := os.Stat(inputPath)
			if err != nil {
				// Editors that save by rename leave the path briefly missing.
				continue
			}
			if stamp := stampOf(info); stamp != last {
				last = stamp
				if err := schedule(watchDebounce); err != nil {
					fmt.Fprintf(env.Stderr, "error: %v\n", err)
				}
			}

		case <-done:
			res, err := pending.Wait()
			pending = nil
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
				}
				continue
			}
			if err := publish(dir, prefix, res, conv.Format(), params, common, env); err != nil {
				fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
			}
		}
	}
}

// publish writes the cards of one watch round and removes cards left over
// from a longer previous version.
func publish(dir, prefix string, res *md2cards.Result, format md2cards.Format, params *conversionParams, common commonFlags, env *Environment) error {
	written, err := md2cards.WritePages(dir, prefix, res.Pages, format)
	if err != nil {
		return err
	}
	if err := removeStale(dir, prefix, format, written); err != nil {
		return err
	}

	if !common.quiet {
		fmt.Fprintf(env.Stdout, "[%s] %d cards in %s\n", env.Now().Format(time.TimeOnly), len(written), dir)
	}
	if params.debug {
		printDebugTable(env.Stdout, dir, res.Pages)
	}
	return nil
}

// removeStale deletes prefix_*.ext files in dir that are not in keep.
func removeStale(dir, prefix string, format md2cards.Format, keep []string) error {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*."+format.Ext()))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if slices.Contains(keep, m) {
			continue
		}
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", md2cards.ErrOutputWrite, err)
		}
	}
	return nil
}
