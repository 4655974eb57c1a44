package main

// Notes:
// - Shared fakes for the CLI tests: a scripted converter, a pool around it,
//   and an Environment writing to buffers.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-md2cards"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// fakeConverter returns one card per entry of heights, rendered as text.
type fakeConverter struct {
	heights []int
	budget  int
	err     error

	mu     sync.Mutex
	inputs []md2cards.Input
}

var _ CLIConverter = (*fakeConverter)(nil)

func (f *fakeConverter) Convert(ctx context.Context, input md2cards.Input) (*md2cards.Result, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	budget := f.budget
	if budget == 0 {
		budget = 100
	}
	res := &md2cards.Result{Pages: make([]md2cards.Page, len(f.heights))}
	for i, h := range f.heights {
		res.Pages[i] = md2cards.Page{
			Index:     i + 1,
			Total:     len(f.heights),
			Height:    h,
			Budget:    budget,
			Fragments: []md2cards.Fragment{{ID: i, Kind: "paragraph", Height: h}},
			Data:      []byte("card"),
		}
	}
	return res, nil
}

func (f *fakeConverter) Schedule(ctx context.Context, input md2cards.Input, _ time.Duration) *md2cards.Pending {
	panic("fakeConverter.Schedule: not used by batch tests")
}

func (f *fakeConverter) Format() md2cards.Format {
	return md2cards.FormatHTML
}

func (f *fakeConverter) titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Title
	}
	return out
}

// fakePool hands out the same converter to every worker.
type fakePool struct {
	conv       CLIConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	released int
	closed   bool
}

var _ Pool = (*fakePool)(nil)

func (p *fakePool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *fakePool) Release(CLIConverter) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment with buffered output, a fixed clock and the
// real converter pool.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:           func() time.Time { return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC) },
		Stdout:        &stdout,
		Stderr:        &stderr,
		NewPool:       newConverterPool,
		WatchInterval: 20 * time.Millisecond,
	}
	return env, &stdout, &stderr
}

// writeFile creates path (and its directory) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// cardFiles lists the prefix_*.ext files in dir.
func cardFiles(t *testing.T, dir, prefix, ext string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*."+ext))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

const sampleMarkdown = "# Title\n\nFirst paragraph.\n\n<!-- pagebreak -->\n\n## Next\n\n- one\n- two\n"
