package caret

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/textkernel/internal/engine/buffer"
)

// Direction is the direction of caret motion.
type Direction int

const (
	Backward Direction = iota
	Forward
)

// Granularity is the unit a caret motion steps by.
type Granularity int

const (
	Single Granularity = iota
	Word
	Line
	Vertical
	Document
)

// Which selects which member(s) of a Pair a motion affects.
type Which int

const (
	ActiveOnly Which = 1 << iota
	AnchorOnly
	Both = ActiveOnly | AnchorOnly
)

// WidthMeasurer is the host-supplied capability that converts between
// pixel columns and byte offsets within one line of text. The core
// never rasterizes text itself; it only needs these two queries.
type WidthMeasurer interface {
	// MeasureString returns the pixel width of text under the current style.
	MeasureString(text string) int
	// ByteAtX returns the byte offset within text nearest pixel column x.
	ByteAtX(text string, x int) int
}

// VerticalMemory remembers the pixel column of the caret across a run
// of vertical motions, so moving through short lines and back returns
// to the original column. Any non-vertical motion clears it.
type VerticalMemory struct {
	columnPixels int
	set          bool
}

// Reset clears the remembered column.
func (m *VerticalMemory) Reset() {
	m.set = false
}

// charClass classifies a rune for Word-granularity motion.
type charClass int

const (
	classWhitespace charClass = iota
	classIdentifier
	classOther
)

func classify(r rune) charClass {
	switch {
	case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		return classWhitespace
	case r == '_' || r >= 0x0080 || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classIdentifier
	default:
		return classOther
	}
}

// Move moves one member (or both) of pair by one step of the given
// granularity and direction, per the motion rules. strongWhitespace
// makes whitespace a distinct word class (used by double-click word
// selection via SelectWordAt instead of ordinary Ctrl-arrow motion).
// lineChanged reports whether the active caret's line index changed.
func Move(buf *buffer.Buffer, pair Pair, mem *VerticalMemory, w WidthMeasurer, dir Direction, gran Granularity, strongWhitespace bool, which Which) (Pair, bool) {
	if gran != Vertical {
		mem.Reset()
	}

	if which == Both && !pair.IsEmpty() && gran == Single {
		// Bare arrow on a non-empty selection collapses first.
		collapsed := pair.CollapseToNear(dir)
		return collapsed, collapsed.Active.Line != pair.Active.Line
	}

	moveOne := func(c Caret) (Caret, bool) {
		switch gran {
		case Single:
			return moveSingle(buf, c, dir)
		case Word:
			return moveWord(buf, c, dir, strongWhitespace)
		case Line:
			return moveLine(buf, c, dir), false
		case Vertical:
			return moveVertical(buf, c, mem, w, dir)
		case Document:
			moved := moveDocument(buf, c, dir)
			return moved, moved.Line != c.Line
		default:
			return c, false
		}
	}

	result := pair
	lineChanged := false
	if which&AnchorOnly != 0 {
		result.Anchor, _ = moveOne(pair.Anchor)
	}
	if which&ActiveOnly != 0 {
		var changed bool
		result.Active, changed = moveOne(pair.Active)
		lineChanged = changed
	}
	return result, lineChanged
}

func moveSingle(buf *buffer.Buffer, c Caret, dir Direction) (Caret, bool) {
	lineLen := buf.LineLen(c.Line)
	lineCount := buf.LineCount()

	if dir == Forward {
		if c.Byte >= lineLen {
			if c.Line+1 >= lineCount {
				return c, false
			}
			return Caret{Line: c.Line + 1, Byte: 0}, true
		}
		text := buf.LineText(c.Line)
		_, size := utf8.DecodeRuneInString(text[c.Byte:])
		return Caret{Line: c.Line, Byte: c.Byte + size}, false
	}

	if c.Byte <= 0 {
		if c.Line == 0 {
			return c, false
		}
		prevLen := buf.LineLen(c.Line - 1)
		return Caret{Line: c.Line - 1, Byte: prevLen}, true
	}
	text := buf.LineText(c.Line)
	_, size := utf8.DecodeLastRuneInString(text[:c.Byte])
	return Caret{Line: c.Line, Byte: c.Byte - size}, false
}

func moveWord(buf *buffer.Buffer, c Caret, dir Direction, strongWhitespace bool) (Caret, bool) {
	if dir == Forward {
		line := c.Line
		text := buf.LineText(line)
		byteOff := c.Byte
		// Line-end counts as whitespace: cross to the next line first.
		if byteOff >= len(text) {
			if line+1 >= buf.LineCount() {
				return c, false
			}
			return Caret{Line: line + 1, Byte: 0}, true
		}

		runes := []rune(text[byteOff:])
		cls := classify(runes[0])
		i := 0
		if !strongWhitespace || cls != classWhitespace {
			for i < len(runes) && classify(runes[i]) == cls {
				i++
			}
			if strongWhitespace {
				return Caret{Line: line, Byte: byteOff + runeByteLen(runes[:i])}, false
			}
			// Skip whitespace after the word, landing at next word start.
			for i < len(runes) && classify(runes[i]) == classWhitespace {
				i++
			}
		} else {
			for i < len(runes) && classify(runes[i]) == classWhitespace {
				i++
			}
		}
		return Caret{Line: line, Byte: byteOff + runeByteLen(runes[:i])}, false
	}

	// Backward
	line := c.Line
	byteOff := c.Byte
	if byteOff <= 0 {
		if line == 0 {
			return c, false
		}
		return Caret{Line: line - 1, Byte: buf.LineLen(line - 1)}, true
	}
	text := buf.LineText(line)
	runes := []rune(text[:byteOff])
	i := len(runes)
	cls := classify(runes[i-1])
	if strongWhitespace && cls == classWhitespace {
		// Whitespace is its own class: stop at its boundary instead of
		// skipping through it into the preceding word.
		for i > 0 && classify(runes[i-1]) == classWhitespace {
			i--
		}
		return Caret{Line: line, Byte: runeByteLen(runes[:i])}, false
	}
	// Skip trailing whitespace first, then scan back over the word run.
	for i > 0 && classify(runes[i-1]) == classWhitespace {
		i--
	}
	if i > 0 {
		wcls := classify(runes[i-1])
		for i > 0 && classify(runes[i-1]) == wcls {
			i--
		}
	}
	return Caret{Line: line, Byte: runeByteLen(runes[:i])}, false
}

func runeByteLen(rs []rune) int {
	n := 0
	for _, r := range rs {
		n += utf8.RuneLen(r)
	}
	return n
}

func moveLine(buf *buffer.Buffer, c Caret, dir Direction) Caret {
	if dir == Backward {
		return Caret{Line: c.Line, Byte: 0}
	}
	return Caret{Line: c.Line, Byte: buf.LineLen(c.Line)}
}

func moveVertical(buf *buffer.Buffer, c Caret, mem *VerticalMemory, w WidthMeasurer, dir Direction) (Caret, bool) {
	if dir == Backward && c.Line == 0 {
		return c, false
	}
	lineCount := buf.LineCount()
	if dir == Forward && c.Line+1 >= lineCount {
		return c, false
	}

	if !mem.set {
		text := buf.LineText(c.Line)
		prefix := text
		if c.Byte <= len(text) {
			prefix = text[:c.Byte]
		}
		mem.columnPixels = w.MeasureString(prefix)
		mem.set = true
	}

	var targetLine uint32
	if dir == Backward {
		targetLine = c.Line - 1
	} else {
		targetLine = c.Line + 1
	}

	col := mem.columnPixels - 1
	if col < 0 {
		col = 0
	}
	targetText := buf.LineText(targetLine)
	byteOff := w.ByteAtX(targetText, col)
	return Caret{Line: targetLine, Byte: byteOff}, true
}

func moveDocument(buf *buffer.Buffer, c Caret, dir Direction) Caret {
	if dir == Backward {
		return Caret{Line: 0, Byte: 0}
	}
	last := buf.LineCount() - 1
	return Caret{Line: last, Byte: buf.LineLen(last)}
}

// SelectWordAt returns a pair spanning the word (or whitespace run)
// containing byte position byteOff on line, per the original source's
// double-click-to-select-word gesture: the run of runes sharing the
// word class of the rune at byteOff, with whitespace as its own class
// (the same boundaries strongWhitespace word motion stops at).
func SelectWordAt(buf *buffer.Buffer, line uint32, byteOff int) Pair {
	c := Caret{Line: line, Byte: byteOff}
	text := buf.LineText(line)
	if byteOff >= len(text) || byteOff < 0 {
		return NewPair(c)
	}
	runes := []rune(text)
	// Find the byte index within runes that byteOff falls on.
	idx, acc := 0, 0
	for acc < byteOff && idx < len(runes) {
		acc += utf8.RuneLen(runes[idx])
		idx++
	}
	if idx >= len(runes) {
		return NewPair(c)
	}
	cls := classify(runes[idx])
	start, end := idx, idx+1
	for start > 0 && classify(runes[start-1]) == cls {
		start--
	}
	for end < len(runes) && classify(runes[end]) == cls {
		end++
	}
	startByte := runeByteLen(runes[:start])
	endByte := runeByteLen(runes[:end])
	return Pair{Anchor: Caret{Line: line, Byte: startByte}, Active: Caret{Line: line, Byte: endByte}}
}
