// Package measure provides a uniseg-based default implementation of the
// caret package's WidthMeasurer capability: grapheme-cluster-aware pixel
// width measurement and hit-testing for monospace terminal-style cells.
package measure

import "github.com/rivo/uniseg"

// Monospace measures text assuming every grapheme cluster occupies
// CellWidth pixels (2x for East-Asian-wide clusters), the typical case
// for a terminal-backed host. It satisfies caret.WidthMeasurer.
type Monospace struct {
	// CellWidth is the pixel width of one narrow terminal cell.
	CellWidth int
}

// NewMonospace creates a Monospace measurer with the given cell width
// in pixels. A cellWidth of 0 or less defaults to 8.
func NewMonospace(cellWidth int) *Monospace {
	if cellWidth <= 0 {
		cellWidth = 8
	}
	return &Monospace{CellWidth: cellWidth}
}

// MeasureString returns the pixel width of text.
func (m *Monospace) MeasureString(text string) int {
	cols := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cols += clusterWidth(g.Runes())
	}
	return cols * m.CellWidth
}

// ByteAtX returns the byte offset within text nearest pixel column x,
// using middle-of-glyph rounding.
func (m *Monospace) ByteAtX(text string, x int) int {
	if x <= 0 {
		return 0
	}
	col := 0
	byteOff := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := clusterWidth(g.Runes())
		clusterStart := col * m.CellWidth
		clusterEnd := (col + w) * m.CellWidth
		clusterMid := (clusterStart + clusterEnd) / 2
		start, _ := g.Positions()
		if x < clusterMid {
			return start
		}
		col += w
		_, end := g.Positions()
		byteOff = end
	}
	return byteOff
}

func clusterWidth(runes []rune) int {
	width := uniseg.StringWidth(string(runes))
	if width <= 0 {
		return 1
	}
	return width
}
