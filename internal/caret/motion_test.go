package caret

import (
	"testing"

	"github.com/dshills/textkernel/internal/engine/buffer"
)

func TestMoveSingle(t *testing.T) {
	cases := []struct {
		name string
		text string
		c    Caret
		dir  Direction
		want Caret
	}{
		{"forward within line", "abc", Caret{0, 1}, Forward, Caret{0, 2}},
		{"forward wraps to next line", "ab\ncd", Caret{0, 2}, Forward, Caret{1, 0}},
		{"forward rejects at document end", "ab", Caret{0, 2}, Forward, Caret{0, 2}},
		{"backward within line", "abc", Caret{0, 2}, Backward, Caret{0, 1}},
		{"backward wraps to prev line", "ab\ncd", Caret{1, 0}, Backward, Caret{0, 2}},
		{"backward rejects at document start", "ab", Caret{0, 0}, Backward, Caret{0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tc.text)
			got, _ := moveSingle(buf, tc.c, tc.dir)
			if got != tc.want {
				t.Errorf("moveSingle(%q, %v) = %v, want %v", tc.text, tc.c, got, tc.want)
			}
		})
	}
}

// TestMoveWordBackwardScenario6 is spec.md §8 scenario 6, literal:
// on "foo bar  baz" backward word motion from the document end lands
// (0,12) -> (0,9) -> (0,4) -> (0,0).
func TestMoveWordBackwardScenario6(t *testing.T) {
	buf := buffer.NewBufferFromString("foo bar  baz")
	c := Caret{Line: 0, Byte: 12}
	wantSteps := []int{9, 4, 0}
	for _, want := range wantSteps {
		c, _ = moveWord(buf, c, Backward, false)
		if c.Byte != want {
			t.Fatalf("moveWord backward landed at byte %d, want %d", c.Byte, want)
		}
	}
}

func TestMoveWordForward(t *testing.T) {
	cases := []struct {
		name             string
		text             string
		start            int
		strongWhitespace bool
		want             int
	}{
		{"weak skips trailing space", "foo bar", 0, false, 4},
		{"weak from mid-word advances to next word", "foo bar", 1, false, 4},
		{"strong stops at word end, not past space", "foo bar", 0, true, 3},
		{"strong from inside space stops at space end", "foo   bar", 3, true, 6},
		{"line end of last line stays put", "foo", 3, false, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tc.text)
			got, _ := moveWord(buf, Caret{Line: 0, Byte: tc.start}, Forward, tc.strongWhitespace)
			if got.Byte != tc.want {
				t.Errorf("moveWord(%q, start=%d, strong=%v) = %d, want %d", tc.text, tc.start, tc.strongWhitespace, got.Byte, tc.want)
			}
		})
	}
}

func TestMoveWordBackwardStrongWhitespaceStopsAtBoundary(t *testing.T) {
	// "foo   bar", caret at byte 6 (start of "bar"). Weak backward skips
	// the whole gap and lands at the start of "foo" (byte 0). Strong
	// backward, landing inside the whitespace run, must stop at the
	// whitespace class boundary (byte 3, just after "foo") instead.
	buf := buffer.NewBufferFromString("foo   bar")

	weak, _ := moveWord(buf, Caret{Line: 0, Byte: 6}, Backward, false)
	if weak.Byte != 0 {
		t.Errorf("weak backward = %d, want 0", weak.Byte)
	}

	strong, _ := moveWord(buf, Caret{Line: 0, Byte: 6}, Backward, true)
	if strong.Byte != 3 {
		t.Errorf("strong backward = %d, want 3", strong.Byte)
	}
}

func TestMoveWordBackwardCrossesLine(t *testing.T) {
	buf := buffer.NewBufferFromString("ab\ncd")
	got, changed := moveWord(buf, Caret{Line: 1, Byte: 0}, Backward, false)
	if got.Line != 0 || got.Byte != 2 {
		t.Errorf("moveWord backward across line = %v, want {0 2}", got)
	}
	if !changed {
		t.Error("expected line-changed=true crossing a line boundary")
	}
}

func TestMoveLine(t *testing.T) {
	buf := buffer.NewBufferFromString("hello")
	if got := moveLine(buf, Caret{Line: 0, Byte: 2}, Backward); got.Byte != 0 {
		t.Errorf("moveLine backward = %d, want 0", got.Byte)
	}
	if got := moveLine(buf, Caret{Line: 0, Byte: 2}, Forward); got.Byte != 5 {
		t.Errorf("moveLine forward = %d, want 5", got.Byte)
	}
}

func TestMoveDocument(t *testing.T) {
	buf := buffer.NewBufferFromString("a\nbb\nccc")
	if got := moveDocument(buf, Caret{Line: 1, Byte: 1}, Backward); got != (Caret{Line: 0, Byte: 0}) {
		t.Errorf("moveDocument backward = %v, want {0 0}", got)
	}
	want := Caret{Line: 2, Byte: 3}
	if got := moveDocument(buf, Caret{Line: 1, Byte: 1}, Forward); got != want {
		t.Errorf("moveDocument forward = %v, want %v", got, want)
	}
}

type fixedWidthMeasurer struct{ cellWidth int }

func (m fixedWidthMeasurer) MeasureString(text string) int { return len([]rune(text)) * m.cellWidth }
func (m fixedWidthMeasurer) ByteAtX(text string, x int) int {
	col := x / m.cellWidth
	runes := []rune(text)
	if col > len(runes) {
		col = len(runes)
	}
	return len(string(runes[:col]))
}

func TestMoveVerticalPreservesColumnMemory(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdef\nxy\nuvwxyz")
	w := fixedWidthMeasurer{cellWidth: 1}
	var mem VerticalMemory

	// Start at column 4 on line 0, move down to the short line 1: the
	// caret clamps to line 1's end (byte 2), but column memory should
	// still remember column 4 for the next vertical move.
	c, _ := moveVertical(buf, Caret{Line: 0, Byte: 4}, &mem, w, Forward)
	if c.Line != 1 || c.Byte != 2 {
		t.Fatalf("first vertical move = %v, want {1 2}", c)
	}

	c2, _ := moveVertical(buf, c, &mem, w, Forward)
	if c2.Line != 2 || c2.Byte != 3 {
		t.Errorf("second vertical move = %v, want {2 3} (column memory of 4 preserved, minus 1 per the spec's max(0, column_pixels-1) rule)", c2)
	}
}

func TestMovePairCollapsesOnBareArrow(t *testing.T) {
	buf := buffer.NewBufferFromString("hello world")
	var mem VerticalMemory
	pair := Pair{Anchor: Caret{Line: 0, Byte: 2}, Active: Caret{Line: 0, Byte: 8}}

	got, _ := Move(buf, pair, &mem, nil, Backward, Single, false, Both)
	if !got.IsEmpty() || got.Active.Byte != 2 {
		t.Errorf("bare backward arrow on selection = %+v, want collapsed to near edge (byte 2)", got)
	}
}

func TestMoveShiftExtendsActiveOnly(t *testing.T) {
	buf := buffer.NewBufferFromString("hello world")
	var mem VerticalMemory
	pair := NewPair(Caret{Line: 0, Byte: 2})

	got, _ := Move(buf, pair, &mem, nil, Forward, Single, false, ActiveOnly)
	if got.Anchor.Byte != 2 || got.Active.Byte != 3 {
		t.Errorf("shift-extend = %+v, want anchor=2 active=3", got)
	}
}

func TestSelectWordAt(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		byteOff   int
		wantStart int
		wantEnd   int
	}{
		{"inside a word", "foo bar baz", 5, 4, 7},
		{"inside a whitespace run selects the run, not a word", "foo   bar", 4, 3, 6},
		{"single space between words", "foo bar", 3, 3, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tc.text)
			got := SelectWordAt(buf, 0, tc.byteOff)
			if got.Anchor.Byte != tc.wantStart || got.Active.Byte != tc.wantEnd {
				t.Errorf("SelectWordAt(%q, %d) = [%d,%d), want [%d,%d)",
					tc.text, tc.byteOff, got.Anchor.Byte, got.Active.Byte, tc.wantStart, tc.wantEnd)
			}
		})
	}
}
