package measure

import "testing"

func TestNewMonospaceDefaultsCellWidth(t *testing.T) {
	m := NewMonospace(0)
	if m.CellWidth != 8 {
		t.Errorf("CellWidth = %d, want 8", m.CellWidth)
	}
}

func TestMeasureStringASCII(t *testing.T) {
	m := NewMonospace(1)
	if got := m.MeasureString("hello"); got != 5 {
		t.Errorf("MeasureString(\"hello\") = %d, want 5", got)
	}
}

func TestMeasureStringEmpty(t *testing.T) {
	m := NewMonospace(1)
	if got := m.MeasureString(""); got != 0 {
		t.Errorf("MeasureString(\"\") = %d, want 0", got)
	}
}

func TestByteAtXStart(t *testing.T) {
	m := NewMonospace(1)
	if got := m.ByteAtX("hello", 0); got != 0 {
		t.Errorf("ByteAtX at 0 = %d, want 0", got)
	}
}

func TestByteAtXMiddleOfGlyph(t *testing.T) {
	m := NewMonospace(10)
	// "ab": 'a' spans [0,10), 'b' spans [10,20). x=14 is past 'a's
	// midpoint (5) and past 'b's midpoint (15)? No: 14 < 15, so it
	// should land on 'b's start (byte 1), since 14 is past 'a's full
	// cell but before 'b's midpoint.
	got := m.ByteAtX("ab", 14)
	if got != 1 {
		t.Errorf("ByteAtX(\"ab\", 14) = %d, want 1", got)
	}
}

func TestByteAtXPastEnd(t *testing.T) {
	m := NewMonospace(1)
	if got := m.ByteAtX("hi", 100); got != 2 {
		t.Errorf("ByteAtX past end = %d, want 2", got)
	}
}
