// Package caret implements caret positioning and motion for the text
// editing core: a line-relative Caret type, the anchor/active pair that
// represents a selection, and the granularities (single codepoint,
// word, line, vertical, document) that caret motion can move by.
//
// A Caret is always expressed relative to a line, unlike
// cursor.Selection in the sibling engine/cursor package, which is
// byte-offset relative to the whole document. Pair holds the anchor and
// active carets in that line/byte form; the vertical motion column
// memory, which byte offsets alone cannot express, is a separate
// VerticalMemory value passed to Move.
package caret
