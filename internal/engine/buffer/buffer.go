package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dshills/textkernel/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// lineRecord tracks the position of one line within Buffer.bytes.
// Lines never store their separator: offset/length cover content only,
// and lineRecord[i+1].offset always equals lineRecord[i].offset+length.
type lineRecord struct {
	offset ByteOffset
	length int
}

// activeLine is the single line currently checked out of bytes for
// in-place editing. Its authoritative content lives in scratch; the
// corresponding lineRecord.length is stale until checkIn runs.
type activeLine struct {
	index     int
	scratch   []byte
	oldLength int
}

// Buffer is a line-indexed text buffer. At most one line is "checked
// out" into a scratch slice at a time; most edits touch only that
// line, so they cost a local splice rather than a full-buffer move.
// Reads that span more than one line force a check-in first.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	bytes      []byte
	lines      []lineRecord
	active     *activeLine
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// NewBuffer creates a new empty buffer (one zero-length line).
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		bytes:      nil,
		lines:      []lineRecord{{offset: 0, length: 0}},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.resetContent(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b := NewBuffer(opts...)

	// Read all content first: CRLF sequences may otherwise split across
	// read boundaries and confuse line-ending detection.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b.resetContent(string(data))
	return b, nil
}

// resetContent discards any existing content and rebuilds the line
// index from s. Called only during construction or set_contents.
func (b *Buffer) resetContent(s string) {
	s = b.normalizeLineEndings(s)
	lines := splitLines(s, b.lineEnding.Sequence())

	b.bytes = make([]byte, 0, len(s))
	b.lines = make([]lineRecord, len(lines))
	var off ByteOffset
	for i, lt := range lines {
		b.bytes = append(b.bytes, lt...)
		b.lines[i] = lineRecord{offset: off, length: len(lt)}
		off += ByteOffset(len(lt))
	}
	b.active = nil
	b.revisionID = NewRevisionID()
}

// splitLines splits s on sep, matching the data model's rule that
// line content never includes its separator.
func splitLines(s, sep string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, sep)
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	} else if b.lineEnding == LineEndingCR {
		s = strings.ReplaceAll(s, "\n", "\r")
	}
	return s
}

// checkout makes line idx the active line, checking in whatever line
// (if any) was previously active.
func (b *Buffer) checkout(idx int) {
	if b.active != nil && b.active.index == idx {
		return
	}
	b.checkIn()

	rec := b.lines[idx]
	scratch := make([]byte, rec.length, rec.length+16)
	copy(scratch, b.bytes[rec.offset:rec.offset+ByteOffset(rec.length)])
	b.active = &activeLine{index: idx, scratch: scratch, oldLength: rec.length}
}

// checkIn commits the active line's scratch buffer back into bytes,
// repairing offsets of every later line. No-op if nothing is active.
func (b *Buffer) checkIn() {
	if b.active == nil {
		return
	}
	a := b.active
	rec := b.lines[a.index]
	delta := len(a.scratch) - a.oldLength

	tailStart := rec.offset + ByteOffset(a.oldLength)
	if delta == 0 {
		copy(b.bytes[rec.offset:rec.offset+ByteOffset(len(a.scratch))], a.scratch)
	} else {
		newBytes := make([]byte, 0, len(b.bytes)+delta)
		newBytes = append(newBytes, b.bytes[:rec.offset]...)
		newBytes = append(newBytes, a.scratch...)
		newBytes = append(newBytes, b.bytes[tailStart:]...)
		b.bytes = newBytes
	}

	b.lines[a.index].length = len(a.scratch)
	for i := a.index + 1; i < len(b.lines); i++ {
		b.lines[i].offset += ByteOffset(delta)
	}
	b.active = nil
}

// offsetToLine returns the index of the line containing offset,
// biasing toward the line that *starts* at offset when offset sits
// exactly on a line boundary.
func (b *Buffer) offsetToLine(offset ByteOffset) int {
	lo, hi := 0, len(b.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lines[mid].offset <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// lineLenAt returns a line's current length, accounting for the active
// scratch buffer if that line is checked out.
func (b *Buffer) lineLenAt(i int) int {
	if b.active != nil && b.active.index == i {
		return len(b.active.scratch)
	}
	return b.lines[i].length
}

// lineBytesAt returns a line's current content, accounting for the
// active scratch buffer if that line is checked out.
func (b *Buffer) lineBytesAt(i int) []byte {
	if b.active != nil && b.active.index == i {
		return b.active.scratch
	}
	rec := b.lines[i]
	return b.bytes[rec.offset : rec.offset+ByteOffset(rec.length)]
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer using TextRange or iterators.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	return b.joinLines(0, len(b.lines))
}

func (b *Buffer) joinLines(from, to int) string {
	sep := b.lineEnding.Sequence()
	var sb strings.Builder
	for i := from; i < to; i++ {
		if i > from {
			sb.WriteString(sep)
		}
		rec := b.lines[i]
		sb.Write(b.bytes[rec.offset : rec.offset+ByteOffset(rec.length)])
	}
	return sb.String()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	if start < 0 || start > end || end > ByteOffset(len(b.bytes)) {
		return ""
	}
	return string(b.bytes[start:end])
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	return ByteOffset(len(b.bytes))
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lines))
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ""
	}
	return string(b.lineBytesAt(int(line)))
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return 0
	}
	return b.lineLenAt(int(line))
}

// ByteAt returns the byte at the given offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	if offset < 0 || offset >= ByteOffset(len(b.bytes)) {
		return 0, false
	}
	return b.bytes[offset], true
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()

	total := ByteOffset(len(b.bytes))
	if offset < 0 || offset >= total {
		return utf8.RuneError, 0
	}
	end := offset + 4
	if end > total {
		end = total
	}
	return utf8.DecodeRune(b.bytes[offset:end])
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	line := b.offsetToLine(offset)
	return Point{Line: uint32(line), Column: uint32(offset - b.lines[line].offset)}
}

// PointToOffset converts line/column to byte offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	if int(point.Line) >= len(b.lines) {
		return ByteOffset(len(b.bytes))
	}
	return b.lines[point.Line].offset + ByteOffset(point.Column)
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	line := b.offsetToLine(offset)
	lineStart := b.lines[line].offset
	lineText := b.bytes[lineStart:offset]
	return PointUTF16{Line: uint32(line), Column: utf16ColumnFromString(string(lineText))}
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (b *Buffer) PointUTF16ToOffset(point PointUTF16) ByteOffset {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	if int(point.Line) >= len(b.lines) {
		return ByteOffset(len(b.bytes))
	}
	rec := b.lines[point.Line]
	lineText := string(b.bytes[rec.offset : rec.offset+ByteOffset(rec.length)])
	byteCol := byteOffsetFromUTF16Column(lineText, point.Column)
	return rec.offset + ByteOffset(byteCol)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ByteOffset(len(b.bytes))
	}
	return b.lines[line].offset
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if int(line) >= len(b.lines) {
		return ByteOffset(len(b.bytes))
	}
	return b.lines[line].offset + ByteOffset(b.lineLenAt(int(line)))
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.RLock()
	total := b.totalLen()
	b.mu.RUnlock()
	if offset < 0 || offset > total {
		return 0, ErrOffsetOutOfRange
	}
	return b.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.totalLen()
	if start < 0 || start > end || end > total {
		return 0, ErrRangeInvalid
	}

	newEnd, err := b.replaceLocked(start, end, text)
	if err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()
	return newEnd, nil
}

// totalLen computes buffer length without forcing a check-in.
func (b *Buffer) totalLen() ByteOffset {
	n := ByteOffset(len(b.bytes))
	if b.active != nil {
		n += ByteOffset(len(b.active.scratch) - b.active.oldLength)
	}
	return n
}

// replaceLocked performs the delete+insert primitive described by the
// Edit Engine's replace_selection operation, generalized to an
// arbitrary byte range rather than a caret selection. Returns the
// offset immediately after the inserted text.
func (b *Buffer) replaceLocked(start, end ByteOffset, text string) (ByteOffset, error) {
	text = b.normalizeLineEndings(text)
	sep := b.lineEnding.Sequence()
	newSegs := splitLines(text, sep)

	// Fast path: single line affected, single line produced. Stays
	// entirely within the active-line scratch buffer.
	if len(newSegs) == 1 {
		startLine := b.offsetToLine(start)
		endLine := b.offsetToLine(end)
		if startLine == endLine {
			b.checkout(startLine)
			rec := b.lines[startLine]
			relStart := int(start - rec.offset)
			relEnd := int(end - rec.offset)
			scratch := b.active.scratch
			merged := make([]byte, 0, len(scratch)-(relEnd-relStart)+len(text))
			merged = append(merged, scratch[:relStart]...)
			merged = append(merged, text...)
			merged = append(merged, scratch[relEnd:]...)
			b.active.scratch = merged
			return start + ByteOffset(len(text)), nil
		}
	}

	// General path: spans lines and/or produces multiple lines.
	b.checkIn()
	startLine := b.offsetToLine(start)
	endLine := b.offsetToLine(end)

	prefix := b.bytes[b.lines[startLine].offset:start]
	suffix := b.bytes[end : b.lines[endLine].offset+ByteOffset(b.lines[endLine].length)]

	newSegs[0] = string(prefix) + newSegs[0]
	newSegs[len(newSegs)-1] = newSegs[len(newSegs)-1] + string(suffix)

	oldByteStart := b.lines[startLine].offset
	oldByteEnd := b.lines[endLine].offset + ByteOffset(b.lines[endLine].length)

	var newContent strings.Builder
	for _, s := range newSegs {
		newContent.WriteString(s)
	}

	newBytes := make([]byte, 0, len(b.bytes)-int(oldByteEnd-oldByteStart)+newContent.Len())
	newBytes = append(newBytes, b.bytes[:oldByteStart]...)
	newBytes = append(newBytes, newContent.String()...)
	newBytes = append(newBytes, b.bytes[oldByteEnd:]...)
	b.bytes = newBytes

	newRecords := make([]lineRecord, len(newSegs))
	off := oldByteStart
	for i, s := range newSegs {
		newRecords[i] = lineRecord{offset: off, length: len(s)}
		off += ByteOffset(len(s))
	}
	delta := off - oldByteEnd

	tail := make([]lineRecord, len(b.lines)-(endLine+1))
	copy(tail, b.lines[endLine+1:])
	for i := range tail {
		tail[i].offset += delta
	}

	merged := make([]lineRecord, 0, startLine+len(newRecords)+len(tail))
	merged = append(merged, b.lines[:startLine]...)
	merged = append(merged, newRecords...)
	merged = append(merged, tail...)
	b.lines = merged

	newEnd := oldByteStart + ByteOffset(len(newSegs[0])) - ByteOffset(len(suffix))
	if len(newSegs) > 1 {
		newEnd = newRecords[len(newRecords)-1].offset + ByteOffset(len(newSegs[len(newSegs)-1])) - ByteOffset(len(suffix))
	}
	return newEnd, nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.totalLen()
	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End || edit.Range.End > total {
		return EditResult{}, ErrRangeInvalid
	}

	oldText := b.textRangeLocked(edit.Range.Start, edit.Range.End)
	newEnd, err := b.replaceLocked(edit.Range.Start, edit.Range.End, edit.NewText)
	if err != nil {
		return EditResult{}, err
	}
	b.revisionID = NewRevisionID()

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    int64(newEnd-edit.Range.Start) - int64(edit.Range.Len()),
	}, nil
}

// textRangeLocked reads a byte range assuming mu is already held.
func (b *Buffer) textRangeLocked(start, end ByteOffset) string {
	b.checkIn()
	if start < 0 || start > end || end > ByteOffset(len(b.bytes)) {
		return ""
	}
	return string(b.bytes[start:end])
}

// ApplyEdits applies multiple edits atomically.
// Edits must be in reverse order (highest offset first) to maintain validity.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	total := b.totalLen()
	for _, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End || edit.Range.End > total {
			return ErrRangeInvalid
		}
	}

	for _, edit := range edits {
		if _, err := b.replaceLocked(edit.Range.Start, edit.Range.End, edit.NewText); err != nil {
			return err
		}
	}

	b.revisionID = NewRevisionID()
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()
	return len(b.bytes) == 0
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines. Building a
// snapshot forces a check-in and materializes the committed text into
// a rope, whose structural sharing makes repeated snapshotting (the
// edit-session rollback path) cheap relative to copying strings.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkIn()

	return &Snapshot{
		rope:       rope.FromString(b.joinLines(0, len(b.lines))),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

// Helper functions for UTF-16 conversion

// utf16ColumnFromString counts UTF-16 code units in a string.
func utf16ColumnFromString(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // Surrogate pair (characters outside BMP)
		} else {
			col++
		}
	}
	return col
}

// byteOffsetFromUTF16Column converts a UTF-16 column to byte offset within a line.
func byteOffsetFromUTF16Column(line string, utf16Col uint32) int {
	var col uint32
	var byteOffset int

	for _, r := range line {
		if col >= utf16Col {
			break
		}
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
		byteOffset += utf8.RuneLen(r)
	}

	return byteOffset
}
