// Package md2cards converts Markdown documents into fixed-size cards, one
// HTML document or PNG image per card.
//
// # Quick Start
//
// Create a converter, convert markdown, and close when done:
//
//	conv, err := md2cards.NewConverter(md2cards.WithPreset(md2cards.PresetSmall))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2cards.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := md2cards.WritePages("out", "card", result.Pages, conv.Format())
//
// # Pagination
//
// Cards break between blocks, never inside a paragraph, code block or table.
// Long lists break between items. A heading moves to the next card rather
// than end one on its own, and a "<!-- pagebreak -->" comment in the source
// always starts a new card. After the greedy pass, sparse cards take
// content back from the card before them until they reach the minimum fill
// ratio (see WithMinFill).
//
// Block heights come from a HeightOracle. The default one wraps text with
// the metrics of the Go fonts, which the card stylesheet also uses. Blocks it
// cannot measure are estimated and listed in Result.Warnings.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (line endings, ==highlight==, break markers)
//  2. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting)
//  3. Block extraction, flattening and height measurement
//  4. Pagination and fill rebalancing
//  5. Card assembly and rendering via headless Chrome (go-rod)
//
// Paginate stops after step 4 and the card HTML; Convert also renders.
//
// # Configuration
//
//	conv, err := md2cards.NewConverter(
//	    md2cards.WithPreset(md2cards.PresetLarge),
//	    md2cards.WithTheme("dark"),
//	    md2cards.WithKeepWith(180),
//	    md2cards.WithMinFill(0.4),
//	    md2cards.WithFormat(md2cards.FormatHTML),
//	)
//
// # Live Preview
//
// Schedule debounces conversions of a document being edited:
//
//	pending.Cancel()
//	pending = conv.Schedule(ctx, input, 300*time.Millisecond)
//	result, err := pending.Wait()
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser instances:
//
//	pool := md2cards.NewConverterPool(4, md2cards.WithPreset(md2cards.PresetMedium))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PNG output requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to specify a custom Chrome binary; the sandbox is then
// disabled, as it is when CI=true or ROD_NO_SANDBOX=1.
package md2cards
