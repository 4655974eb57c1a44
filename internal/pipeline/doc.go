// Package pipeline turns Markdown into the block tree pagination works on,
// and page fragments back into card documents.
//
// Stages, in order:
//   - CardPreprocessor normalizes the source and replaces manual break
//     markers with flow.BreakRune placeholders
//   - GoldmarkConverter renders GFM with footnotes and chroma highlighting
//   - ParseBlocks reads the HTML back into flow.Block nodes with
//     golang.org/x/net/html, resolving relative image paths on the way
//   - CardBody and CardAssembler build one HTML document per page
//
// Measuring and splitting happen elsewhere (packages measure and
// pagination); screenshots are taken by the root package.
package pipeline
