// Package flow defines the flat, typed element sequence that pagination works on
// and the flattener that produces it from a nested block tree.
//
// A document arrives as a tree of Blocks (headings, paragraphs, lists, code,
// tables, containers). Flatten walks the tree depth-first in pre-order and emits
// one Element per layout unit:
//   - list items under one list root collapse into a single ListGroup
//   - manual break markers become ManualBreak elements, splitting the
//     surrounding paragraph when the marker sits inside its text
//   - headings followed by content are flagged KeepWithNext
//
// Heights are not computed here. Elements leave the flattener with Height 0 and
// are measured by the measure package before pagination.
package flow
