// Package textbox is the top-level text-editing facade: a CaretPair-based
// single selection, a structured edit engine, coalescing undo, and the
// optional edit-session state machine, all wired onto the buffer, cursor,
// and history packages beneath it.
package textbox

import "errors"

// Sentinel errors for the kinds of failure a mutation can report. Of
// these, only ErrBusy is returned by Editor methods; ErrRejected and
// ErrOutOfMemory are declared but no Editor method returns them.
var (
	// ErrBusy is returned when a mutation is attempted re-entrantly from
	// inside a notification callback (OnEdit, OnEditStart, OnEditEnd).
	ErrBusy = errors.New("textbox: busy, re-entrant mutation rejected")

	// ErrRejected names an observer veto of an edit. Editor has no veto
	// hook, so no Editor method returns it and no rollback is tied to it.
	ErrRejected = errors.New("textbox: edit rejected by observer")

	// ErrOutOfMemory names an allocation failure while growing the
	// buffer. No Editor method returns it.
	ErrOutOfMemory = errors.New("textbox: allocation failure during mutation")
)

// invariantViolation panics; it exists to catch misuse of the
// checkout/check-in protocol and other internal inconsistencies that a
// caller cannot recover from.
func invariantViolation(msg string) {
	panic("textbox: invariant violation: " + msg)
}
