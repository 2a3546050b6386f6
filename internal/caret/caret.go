package caret

import (
	"fmt"

	"github.com/dshills/textkernel/internal/engine/buffer"
)

// Caret is a position expressed relative to a line, the unit the
// spec's motion rules are phrased in.
type Caret struct {
	Line uint32
	Byte int
}

// Compare orders carets by (Line, Byte).
func (c Caret) Compare(other Caret) int {
	if c.Line != other.Line {
		if c.Line < other.Line {
			return -1
		}
		return 1
	}
	if c.Byte != other.Byte {
		if c.Byte < other.Byte {
			return -1
		}
		return 1
	}
	return 0
}

func (c Caret) String() string {
	return fmt.Sprintf("%d:%d", c.Line, c.Byte)
}

// toOffset converts a line-relative caret to a byte offset.
func toOffset(buf *buffer.Buffer, c Caret) buffer.ByteOffset {
	return buf.LineStartOffset(c.Line) + buffer.ByteOffset(c.Byte)
}

// fromOffset converts a byte offset to a line-relative caret.
func fromOffset(buf *buffer.Buffer, off buffer.ByteOffset) Caret {
	p := buf.OffsetToPoint(off)
	return Caret{Line: p.Line, Byte: int(p.Column)}
}

// Pair is the anchor/active caret pair backing a selection: Anchor is
// where the selection started, Active is where typing/motion happens.
// When Anchor == Active the pair represents a plain caret.
type Pair struct {
	Anchor Caret
	Active Caret
}

// NewPair returns a collapsed pair (no selection) at c.
func NewPair(c Caret) Pair {
	return Pair{Anchor: c, Active: c}
}

// IsEmpty reports whether the pair has no selection extent.
func (p Pair) IsEmpty() bool {
	return p.Anchor == p.Active
}

// Ordered returns (low, high) regardless of direction.
func (p Pair) Ordered() (Caret, Caret) {
	if p.Anchor.Compare(p.Active) <= 0 {
		return p.Anchor, p.Active
	}
	return p.Active, p.Anchor
}

// IsBackward reports whether Active precedes Anchor.
func (p Pair) IsBackward() bool {
	return p.Active.Compare(p.Anchor) < 0
}

// CollapseToNear collapses the pair to whichever end lies in the
// given direction: Backward collapses to the low end, Forward to the
// high end. Used by bare-arrow motion on a non-empty selection.
func (p Pair) CollapseToNear(dir Direction) Pair {
	lo, hi := p.Ordered()
	if dir == Backward {
		return NewPair(lo)
	}
	return NewPair(hi)
}
