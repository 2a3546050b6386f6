package textbox

import (
	"github.com/dshills/textkernel/internal/caret"
	"github.com/dshills/textkernel/internal/engine/history"
)

// Key identifies one of the non-printable keys the keystroke table
// dispatches on. Printable characters arrive as KeyRune with Rune set.
type Key int

const (
	KeyRune Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyBackspace
	KeyDelete
	KeyEnter
	KeyEscape
	KeyTab
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
)

// Has reports whether m contains mod.
func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

// KeyEvent is one keystroke handed to HandleKey.
type KeyEvent struct {
	Key  Key
	Mods Modifiers
	Rune rune // valid when Key == KeyRune
}

// pageLines is how many Vertical steps a PageUp/PageDown keystroke
// performs, per the keystroke table ("Vertical x10").
const pageLines = 10

// HandleKey dispatches one keystroke per the documented keystroke
// mapping table. handled reports whether the core consumed the event;
// false means the host should apply its own fallback (e.g. Tab as
// focus-traversal when AllowTabs is unset).
func (e *Editor) HandleKey(ev KeyEvent) (handled bool, err error) {
	switch ev.Key {
	case KeyLeft, KeyRight:
		dir := caret.Backward
		if ev.Key == KeyRight {
			dir = caret.Forward
		}
		gran := caret.Single
		which := caret.Both
		if ev.Mods.Has(ModCtrl) {
			gran = caret.Word
		}
		if ev.Mods.Has(ModShift) {
			which = caret.ActiveOnly
		}
		e.MoveCaretRelative(MotionFlags{Direction: dir, Granularity: gran, Which: which})
		return true, nil

	case KeyHome, KeyEnd:
		dir := caret.Backward
		if ev.Key == KeyEnd {
			dir = caret.Forward
		}
		gran := caret.Line
		if ev.Mods.Has(ModCtrl) {
			gran = caret.Document
		}
		which := caret.Both
		if ev.Mods.Has(ModShift) {
			which = caret.ActiveOnly
		}
		e.MoveCaretRelative(MotionFlags{Direction: dir, Granularity: gran, Which: which})
		return true, nil

	case KeyUp, KeyDown:
		dir := caret.Backward
		if ev.Key == KeyDown {
			dir = caret.Forward
		}
		which := caret.Both
		if ev.Mods.Has(ModShift) {
			which = caret.ActiveOnly
		}
		e.MoveCaretRelative(MotionFlags{Direction: dir, Granularity: caret.Vertical, Which: which})
		return true, nil

	case KeyPageUp, KeyPageDown:
		dir := caret.Backward
		if ev.Key == KeyPageDown {
			dir = caret.Forward
		}
		which := caret.Both
		if ev.Mods.Has(ModShift) {
			which = caret.ActiveOnly
		}
		for i := 0; i < pageLines; i++ {
			e.MoveCaretRelative(MotionFlags{Direction: dir, Granularity: caret.Vertical, Which: which})
		}
		return true, nil

	case KeyBackspace, KeyDelete:
		dir := caret.Backward
		histDir := history.DeleteBackward
		if ev.Key == KeyDelete {
			dir = caret.Forward
			histDir = history.DeleteForward
		}
		if e.pair.IsEmpty() {
			gran := caret.Single
			if ev.Mods.Has(ModCtrl) {
				gran = caret.Word
			}
			e.MoveCaretRelative(MotionFlags{Direction: dir, Granularity: gran, Which: caret.ActiveOnly})
		}
		return true, e.replaceSelectionDir("", true, histDir)

	case KeyEnter:
		if e.session != nil && e.flags&Multiline == 0 {
			return true, e.EndEdit(true)
		}
		if e.flags&Multiline == 0 {
			return true, nil
		}
		return true, e.insertNewlineWithIndent()

	case KeyEscape:
		if e.session != nil {
			return true, e.EndEdit(false)
		}
		return false, nil

	case KeyTab:
		if e.flags&AllowTabs != 0 {
			return true, e.replaceSelection("\t")
		}
		return false, nil

	case KeyRune:
		return true, e.replaceSelection(string(ev.Rune))
	}
	return false, nil
}

// insertNewlineWithIndent inserts '\n' and copies the leading-tab/space
// indentation of the line the caret was on, per the Enter keystroke rule.
func (e *Editor) insertNewlineWithIndent() error {
	line := e.pair.Active.Line
	text := e.buf.LineText(line)
	indent := leadingIndent(text)
	return e.replaceSelection("\n" + indent)
}

func leadingIndent(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}
