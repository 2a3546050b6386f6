// Package session implements the optional edit-session state machine:
// Idle, Editing, Destroying. A host opts in with the EditBased flag;
// everything else about the editor behaves the same either way.
//
// The start_edit snapshot is kept as a rope rather than a plain string:
// Rope values are immutable and share structure, so snapshotting the
// whole document on every start_edit is the cheap "structural sharing"
// win ropes are for, not a full string copy.
package session

import "github.com/dshills/textkernel/internal/engine/rope"

// State is one of the edit-session controller's three states.
type State int

const (
	Idle State = iota
	Editing
	Destroying
)

// Host is the subset of Editor the controller needs to snapshot and
// restore document contents around a session.
type Host interface {
	GetContents(selectedOnly bool) string
	SetContentsRaw(s string) error
	SelectAll()
	ClearSelection()
}

// Controller tracks Idle/Editing/Destroying and the snapshot taken at
// start_edit, per the edit-session state table.
type Controller struct {
	state         State
	snapshot      rope.Rope
	selectOnStart bool
	rejectOnFocus bool
}

// New creates a controller. If selectOnStart is true, start_edit selects
// the whole document after snapshotting it.
func New(selectOnStart, rejectOnFocusLoss bool) *Controller {
	return &Controller{state: Idle, selectOnStart: selectOnStart, rejectOnFocus: rejectOnFocusLoss}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// RejectsOnFocusLoss reports whether a focus loss while Editing should
// behave like end_edit(reject).
func (c *Controller) RejectsOnFocusLoss() bool { return c.rejectOnFocus }

// StartEdit transitions Idle -> Editing, snapshotting contents. No-op if
// already Editing or Destroying.
func (c *Controller) StartEdit(h Host, onEditStart func()) {
	if c.state != Idle {
		return
	}
	c.snapshot = rope.FromString(h.GetContents(false))
	if c.selectOnStart {
		h.SelectAll()
	}
	c.state = Editing
	if onEditStart != nil {
		onEditStart()
	}
}

// EndEdit transitions Editing -> Idle. accept=false restores the
// snapshot via the host's replace-contents path; accept=true discards
// it. veto, if non-nil and it returns false, keeps the controller in
// Editing (an observer vetoing acceptance).
func (c *Controller) EndEdit(h Host, accept bool, veto func(rejected bool) bool, onEditEnd func(rejected bool)) error {
	if c.state != Editing {
		return nil
	}
	if accept && veto != nil && !veto(false) {
		return nil
	}
	rejected := !accept
	if rejected {
		if err := h.SetContentsRaw(c.snapshot.String()); err != nil {
			return err
		}
		h.ClearSelection()
	}
	c.snapshot = rope.New()
	c.state = Idle
	if onEditEnd != nil {
		onEditEnd(rejected)
	}
	return nil
}

// FocusLost applies the RejectOnFocusLoss policy: reject if configured,
// otherwise accept ("strong focus end" behaves like accept).
func (c *Controller) FocusLost(h Host, onEditEnd func(rejected bool)) error {
	if c.state != Editing {
		return nil
	}
	return c.EndEdit(h, !c.rejectOnFocus, nil, onEditEnd)
}

// Destroy cancels any pending edit without notification.
func (c *Controller) Destroy() {
	c.state = Destroying
	c.snapshot = rope.New()
}
