package textbox

import "github.com/dshills/textkernel/internal/caret"

// MotionFlags selects granularity, direction, strong-whitespace, and
// which member(s) of the CaretPair a move_caret_relative call affects.
type MotionFlags struct {
	Direction        caret.Direction
	Granularity      caret.Granularity
	StrongWhitespace bool
	Which            caret.Which
}

// MoveCaretRelative moves the caret pair per flags, using the installed
// WidthMeasurer for Vertical motion. Returns whether the active caret's
// line changed (used by callers to decide whether a full-line repaint
// is needed versus a single-cell one).
func (e *Editor) MoveCaretRelative(flags MotionFlags) bool {
	measurer := e.measure
	if measurer == nil {
		measurer = noopMeasurer{}
	}
	newPair, lineChanged := caret.Move(e.buf, e.pair, &e.mem, measurer, flags.Direction, flags.Granularity, flags.StrongWhitespace, flags.Which)
	e.pair = newPair
	return lineChanged
}

// SelectWordAt selects the word (or whitespace run) touching (line, byt),
// the double-click gesture: strong_whitespace word motion run outward in
// both directions from the same point.
func (e *Editor) SelectWordAt(line, byt int) {
	measurer := e.measure
	if measurer == nil {
		measurer = noopMeasurer{}
	}
	point := caret.Pair{
		Anchor: caret.Caret{Line: uint32(line), Byte: byt},
		Active: caret.Caret{Line: uint32(line), Byte: byt},
	}
	start, _ := caret.Move(e.buf, point, &e.mem, measurer, caret.Backward, caret.Word, true, caret.ActiveOnly)
	end, _ := caret.Move(e.buf, point, &e.mem, measurer, caret.Forward, caret.Word, true, caret.ActiveOnly)
	e.pair = caret.Pair{Anchor: start.Active, Active: end.Active}
	e.mem.Reset()
}

// noopMeasurer is used when no host measurer has been installed yet, so
// Vertical motion degrades to byte-column 0 instead of panicking.
type noopMeasurer struct{}

func (noopMeasurer) MeasureString(string) int       { return 0 }
func (noopMeasurer) ByteAtX(text string, x int) int { return 0 }
