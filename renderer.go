package md2cards

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2cards/internal/fileutil"
	"github.com/alnah/go-md2cards/internal/process"
)

// pageRenderer turns a complete card document into output bytes.
type pageRenderer interface {
	Render(ctx context.Context, doc string, size PageSize) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ pageRenderer = htmlRenderer{}
	_ pageRenderer = (*rodRenderer)(nil)
)

// cardSelector locates the card box in a card document.
const cardSelector = ".card"

// htmlRenderer returns the document itself.
type htmlRenderer struct{}

func (htmlRenderer) Render(ctx context.Context, doc string, _ PageSize) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func (htmlRenderer) Close() error { return nil }

// rodRenderer screenshots cards in headless Chrome via go-rod.
// Rod automatically downloads Chromium on first run if not found.
// The browser starts on first use and is shared by concurrent renders.
type rodRenderer struct {
	timeout time.Duration

	mu      sync.Mutex
	browser *rod.Browser
	pid     int
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// Chrome's sandbox needs namespaces that CI runners and containers lack.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	r.pid = l.PID()
	return browser, nil
}

// Close releases browser resources. Chrome helper processes left behind by
// the browser are killed with its process group.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.pid > 0 {
		_ = process.KillTree(r.pid)
	}
	r.browser = nil
	r.pid = 0
	return err
}

// Render loads doc at the card viewport and returns a PNG of the card box.
// A card taller than its page yields a taller image rather than a cropped one.
func (r *rodRenderer) Render(ctx context.Context, doc string, size PageSize) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tab, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = tab.Close() }()

	if err := tab.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             size.Width,
		Height:            size.CardHeight(),
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page := tab.Context(ctx).Timeout(timeout)

	if err := page.Navigate("file://" + tmpPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	card, err := page.Element(cardSelector)
	if err != nil {
		return nil, fmt.Errorf("%w: locating %s: %v", ErrPageLoad, cardSelector, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := card.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return png, nil
}
