// Package core provides the shared cell/style/color vocabulary for the
// renderer subsystem, independent of any particular backend. It breaks
// the import cycle between the line cache and the terminal backend.
package core

// Attribute represents text attributes (bold, italic, etc.) as a bitset.
type Attribute uint16

const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
	AttrHidden
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// With returns a new attribute set with attr added.
func (a Attribute) With(attr Attribute) Attribute { return a | attr }

// Without returns a new attribute set with attr removed.
func (a Attribute) Without(attr Attribute) Attribute { return a &^ attr }

// Color is a true-color or indexed-palette color value.
type Color struct {
	R, G, B uint8
	// Indexed, if true, means R holds a palette index and G/B are unused.
	Indexed bool
	// Default marks the terminal's default foreground/background.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB builds a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex builds an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// IsDefault reports whether c is the terminal default color.
func (c Color) IsDefault() bool { return c.Default }

// Equals reports whether two colors are the same value.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Blend linearly interpolates toward other by amount in [0,1], used for
// selection-highlight color blending by the demo host.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Indexed || other.Indexed || c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return Color{
		R: uint8(float64(c.R)*(1-amount) + float64(other.R)*amount),
		G: uint8(float64(c.G)*(1-amount) + float64(other.G)*amount),
		B: uint8(float64(c.B)*(1-amount) + float64(other.B)*amount),
	}
}

// Style is the visual presentation of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the terminal default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault}
}

func (s Style) WithForeground(fg Color) Style { s.Foreground = fg; return s }
func (s Style) WithBackground(bg Color) Style { s.Background = bg; return s }
func (s Style) Bold() Style                   { s.Attributes |= AttrBold; return s }
func (s Style) Dim() Style                    { s.Attributes |= AttrDim; return s }
func (s Style) Italic() Style                 { s.Attributes |= AttrItalic; return s }
func (s Style) Underline() Style              { s.Attributes |= AttrUnderline; return s }
func (s Style) Strikethrough() Style          { s.Attributes |= AttrStrikethrough; return s }

// Merge overlays non-default fields of other onto s.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

// Equals reports whether two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// Cell is a single styled character position.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// ContinuationCell returns the zero-width trailer cell that follows a
// wide (double-width) character.
func ContinuationCell() Cell {
	return Cell{Rune: 0, Width: 0, Style: DefaultStyle()}
}

// IsContinuation reports whether c is a wide-character trailer cell.
func (c Cell) IsContinuation() bool { return c.Width == 0 && c.Rune == 0 }

// RuneWidth returns the terminal display width of r: 0 for control
// characters, 2 for wide East-Asian codepoints, 1 otherwise.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	if isWideRune(r) {
		return 2
	}
	return 1
}

func isWideRune(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115F,
		r >= 0x2E80 && r <= 0x9FFF,
		r >= 0xAC00 && r <= 0xD7A3,
		r >= 0xF900 && r <= 0xFAFF,
		r >= 0xFF00 && r <= 0xFF60,
		r >= 0x20000 && r <= 0x2FFFF:
		return true
	default:
		return false
	}
}
