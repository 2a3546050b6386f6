package textbox

import (
	"fmt"
	"strings"

	"github.com/dshills/textkernel/internal/caret"
	"github.com/dshills/textkernel/internal/engine/buffer"
	"github.com/dshills/textkernel/internal/engine/cursor"
	"github.com/dshills/textkernel/internal/engine/history"
	"github.com/dshills/textkernel/internal/session"
	"golang.org/x/text/unicode/norm"
)

// Editor is the text-editing core: one document buffer, one CaretPair
// selection, and a coalescing undo history. It is the only mutation
// entry point a host needs; everything routes through replace_selection.
type Editor struct {
	flags Flags

	buf     *buffer.Buffer
	pair    caret.Pair
	mem     caret.VerticalMemory
	measure caret.WidthMeasurer
	hist    *history.History

	smartQuotes bool

	busy    bool
	session *session.Controller

	onEdit      func()
	onEditStart func()
	onEditEnd   func(rejected bool)
}

// New creates an Editor over an empty document with the given flags.
// measurer supplies pixel measurement for Vertical caret motion; it may
// be nil until the host installs one via SetMeasurer.
func New(flags Flags, measurer caret.WidthMeasurer) *Editor {
	e := &Editor{
		flags:   flags,
		buf:     buffer.NewBuffer(),
		measure: measurer,
		hist:    history.NewHistory(0),
	}
	if flags.Has(EditBased) {
		e.session = session.New(true, flags.Has(RejectOnFocusLoss))
	}
	return e
}

// SessionState returns the edit-session controller's current state, or
// session.Idle if EditBased was not enabled.
func (e *Editor) SessionState() session.State {
	if e.session == nil {
		return session.Idle
	}
	return e.session.State()
}

// StartEdit transitions Idle -> Editing (EditBased mode only).
func (e *Editor) StartEdit() {
	if e.session == nil {
		return
	}
	e.busy = true
	e.session.StartEdit(e, e.onEditStart)
	e.busy = false
}

// EndEdit transitions Editing -> Idle, accepting or rejecting the
// pending edit (EditBased mode only).
func (e *Editor) EndEdit(accept bool) error {
	if e.session == nil {
		return nil
	}
	e.busy = true
	defer func() { e.busy = false }()
	return e.session.EndEdit(e, accept, nil, e.onEditEnd)
}

// FocusLost applies the RejectOnFocusLoss policy (EditBased mode only).
func (e *Editor) FocusLost() error {
	if e.session == nil {
		return nil
	}
	e.busy = true
	defer func() { e.busy = false }()
	return e.session.FocusLost(e, e.onEditEnd)
}

// Destroy cancels any pending edit session without notification.
func (e *Editor) Destroy() {
	if e.session != nil {
		e.session.Destroy()
	}
}

// SetContentsRaw replaces the document contents without going through
// the session's implicit start-edit (used by the session controller
// itself to restore a snapshot on reject). It implements session.Host.
func (e *Editor) SetContentsRaw(s string) error {
	e.SelectAll()
	start, end := e.selectionOffsets()
	cs := cursor.NewCursorSet(cursor.NewSelection(start, end))
	cmd := history.NewReplaceCommand(history.Range{Start: start, End: end}, s)
	if err := e.hist.Execute(cmd, e.buf, cs); err != nil {
		return fmt.Errorf("set_contents: %w", err)
	}
	e.pairFromCursor(cs)
	e.mem.Reset()
	return nil
}

// ClearSelection collapses the selection to the document start. It
// implements session.Host.
func (e *Editor) ClearSelection() {
	e.pair = caret.NewPair(caret.Caret{Line: 0, Byte: 0})
	e.mem.Reset()
}

// SetMeasurer installs the host's pixel-measurement capability.
func (e *Editor) SetMeasurer(m caret.WidthMeasurer) { e.measure = m }

// SetNotifications installs the observer callbacks. Any of them may be nil.
func (e *Editor) SetNotifications(onEdit, onEditStart func(), onEditEnd func(rejected bool)) {
	e.onEdit = onEdit
	e.onEditStart = onEditStart
	e.onEditEnd = onEditEnd
}

// SetSmartQuotes enables or disables ASCII quote substitution on Insert.
func (e *Editor) SetSmartQuotes(on bool) { e.smartQuotes = on }

// Buffer exposes the underlying document buffer for read-only inspection
// by renderer/viewport code.
func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

// ---- content access (spec 6) ----

// GetContents returns the document text, newline-joined. If selectedOnly
// is true, only the text within the current selection is returned.
func (e *Editor) GetContents(selectedOnly bool) string {
	if !selectedOnly {
		return e.buf.Text()
	}
	start, end := e.selectionOffsets()
	return e.buf.TextRange(start, end)
}

// SetContents replaces the entire document, equivalent to select-all
// followed by replace_selection(s).
func (e *Editor) SetContents(s string) error {
	e.SelectAll()
	return e.replaceSelection(s)
}

// LineCount returns the number of lines in the document.
func (e *Editor) LineCount() int { return int(e.buf.LineCount()) }

// LineLength returns the byte length of line i.
func (e *Editor) LineLength(i int) int { return e.buf.LineLen(uint32(i)) }

// GetSelection returns the selection as (lineA, byteA, lineB, byteB),
// anchor first, active second (direction-preserving).
func (e *Editor) GetSelection() (lineA, byteA, lineB, byteB int) {
	return int(e.pair.Anchor.Line), e.pair.Anchor.Byte, int(e.pair.Active.Line), e.pair.Active.Byte
}

// SetSelection sets the selection directly. A byte of -1 means
// "end of line" for that endpoint.
func (e *Editor) SetSelection(lineA, byteA, lineB, byteB int) {
	if byteA < 0 {
		byteA = e.buf.LineLen(uint32(lineA))
	}
	if byteB < 0 {
		byteB = e.buf.LineLen(uint32(lineB))
	}
	e.pair = caret.Pair{
		Anchor: caret.Caret{Line: uint32(lineA), Byte: byteA},
		Active: caret.Caret{Line: uint32(lineB), Byte: byteB},
	}
	e.mem.Reset()
}

// SelectAll selects the entire document.
func (e *Editor) SelectAll() {
	last := e.buf.LineCount() - 1
	e.pair = caret.Pair{
		Anchor: caret.Caret{Line: 0, Byte: 0},
		Active: caret.Caret{Line: last, Byte: e.buf.LineLen(last)},
	}
	e.mem.Reset()
}

// Clear empties the document. If notify is false, no OnEdit callback
// fires for this mutation.
func (e *Editor) Clear(notify bool) error {
	e.SelectAll()
	return e.replaceSelectionNotify("", notify)
}

// Insert replaces the current selection with s. This is the single
// mutation primitive described by the edit engine (replace_selection).
func (e *Editor) Insert(s string, notify bool) error {
	return e.replaceSelectionNotify(s, notify)
}

// Find performs a byte-exact, non-wrapping-within-a-match search over
// committed document text, starting at (fromLine, fromByte) and wrapping
// around the document end (or start, if backward) once. It reports the
// first match location, or ok=false if none exists.
func (e *Editor) Find(needle string, fromLine, fromByte int, backward bool) (line, byt int, ok bool) {
	if needle == "" {
		return 0, 0, false
	}
	text := e.buf.Text()
	start := int(e.buf.LineStartOffset(uint32(fromLine))) + fromByte
	if start < 0 {
		start = 0
	}
	if start > len(text) {
		start = len(text)
	}

	var idx int
	if !backward {
		idx = strings.Index(text[start:], needle)
		if idx >= 0 {
			idx += start
		} else if wrap := strings.Index(text[:start], needle); wrap >= 0 {
			idx = wrap
		}
	} else {
		idx = strings.LastIndex(text[:start], needle)
		if idx < 0 {
			if wrap := strings.LastIndex(text[start:], needle); wrap >= 0 {
				idx = wrap + start
			} else {
				idx = -1
			}
		}
	}
	if idx < 0 {
		return 0, 0, false
	}
	p := e.buf.OffsetToPoint(buffer.ByteOffset(idx))
	return int(p.Line), int(p.Column), true
}

// ---- undo ----

// Undo reverts the most recent undo record, if any.
func (e *Editor) Undo() error {
	if e.busy {
		return ErrBusy
	}
	cs := e.cursorSet()
	if err := e.hist.Undo(e.buf, cs); err != nil {
		return err
	}
	e.pairFromCursor(cs)
	e.notifyEdit()
	return nil
}

// Redo reapplies the most recently undone record, if any.
func (e *Editor) Redo() error {
	if e.busy {
		return ErrBusy
	}
	cs := e.cursorSet()
	if err := e.hist.Redo(e.buf, cs); err != nil {
		return err
	}
	e.pairFromCursor(cs)
	e.notifyEdit()
	return nil
}

// BeginGroup opens a named undo group; every edit until EndGroup undoes
// atomically as a unit.
func (e *Editor) BeginGroup(name string) { e.hist.BeginGroup(name) }

// EndGroup closes the current undo group.
func (e *Editor) EndGroup() { e.hist.EndGroup() }

// ---- internals ----

// replaceSelection is the edit engine's replace_selection primitive: it
// normalizes the insertion, executes a command over the current
// selection, and advances the CaretPair to the result.
func (e *Editor) replaceSelection(insert string) error {
	return e.replaceSelectionDir(insert, true, history.DeleteForward)
}

func (e *Editor) replaceSelectionNotify(insert string, notify bool) error {
	return e.replaceSelectionDir(insert, notify, history.DeleteForward)
}

// replaceSelectionDir is replaceSelectionNotify with an explicit delete
// direction, used by Backspace/Delete so repeated keystrokes of the same
// direction coalesce into one undo step (history.DeleteCommand.CoalesceWith).
func (e *Editor) replaceSelectionDir(insert string, notify bool, dir history.DeleteDirection) error {
	if e.busy {
		return ErrBusy
	}
	if e.session != nil && e.session.State() == session.Idle {
		e.StartEdit()
	}

	insert = normalizeCRLF(insert)
	if e.flags&Multiline == 0 {
		insert = strings.ReplaceAll(insert, "\n", "")
	}
	if e.flags&AllowTabs == 0 {
		insert = strings.ReplaceAll(insert, "\t", "")
	}
	if e.smartQuotes {
		insert = applySmartQuotes(norm.NFC.String(insert), e.isAtStartOrAfterWhitespace())
	}

	selEmpty := e.pair.IsEmpty()
	if selEmpty && insert == "" {
		// Nothing to insert, nothing selected to delete: a true no-op,
		// per spec's "insert empty string with empty selection" and
		// "delete at document boundary" boundary cases. Must not reach
		// history.Execute — ReplaceCommand never coalesces, so a
		// zero-width replace would push a spurious undo record.
		return nil
	}

	cs := e.cursorSet()

	var cmd history.Command
	switch {
	case selEmpty && insert != "":
		cmd = history.NewInsertCommand(insert)
	case !selEmpty && insert == "":
		cmd = history.NewDeleteCommand(dir)
	default:
		start, end := e.selectionOffsets()
		cmd = history.NewReplaceCommand(history.Range{Start: start, End: end}, insert)
	}

	if err := e.hist.Execute(cmd, e.buf, cs); err != nil {
		return fmt.Errorf("replace_selection: %w", err)
	}
	e.pairFromCursor(cs)
	e.mem.Reset()

	if notify {
		e.notifyEdit()
	}
	return nil
}

func (e *Editor) selectionOffsets() (buffer.ByteOffset, buffer.ByteOffset) {
	a := e.buf.LineStartOffset(e.pair.Anchor.Line) + buffer.ByteOffset(e.pair.Anchor.Byte)
	h := e.buf.LineStartOffset(e.pair.Active.Line) + buffer.ByteOffset(e.pair.Active.Byte)
	if a <= h {
		return a, h
	}
	return h, a
}

func (e *Editor) cursorSet() *cursor.CursorSet {
	start, end := e.selectionOffsets()
	anchor, head := start, end
	if e.pair.IsBackward() {
		anchor, head = end, start
	}
	return cursor.NewCursorSet(cursor.NewSelection(anchor, head))
}

func (e *Editor) pairFromCursor(cs *cursor.CursorSet) {
	sel := cs.Primary()
	e.pair = caret.Pair{
		Anchor: pointToCaret(e.buf, sel.Anchor),
		Active: pointToCaret(e.buf, sel.Head),
	}
}

func pointToCaret(buf *buffer.Buffer, off buffer.ByteOffset) caret.Caret {
	p := buf.OffsetToPoint(off)
	return caret.Caret{Line: p.Line, Byte: int(p.Column)}
}

func (e *Editor) notifyEdit() {
	if e.onEdit == nil {
		return
	}
	e.busy = true
	e.onEdit()
	e.busy = false
}

func (e *Editor) isAtStartOrAfterWhitespace() bool {
	start, _ := e.selectionOffsets()
	if start == 0 {
		return true
	}
	r, _ := e.buf.RuneAt(start - 1)
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func normalizeCRLF(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}
