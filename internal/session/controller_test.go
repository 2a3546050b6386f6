package session

import "testing"

type fakeHost struct {
	contents     string
	selectedAll  bool
	selectionGot bool
	cleared      bool
}

func (h *fakeHost) GetContents(selectedOnly bool) string {
	h.selectionGot = selectedOnly
	return h.contents
}

func (h *fakeHost) SetContentsRaw(s string) error {
	h.contents = s
	return nil
}

func (h *fakeHost) SelectAll() { h.selectedAll = true }

func (h *fakeHost) ClearSelection() { h.cleared = true }

func TestStartEditSnapshotsAndSelects(t *testing.T) {
	c := New(true, false)
	h := &fakeHost{contents: "hello"}
	c.StartEdit(h, nil)
	if c.State() != Editing {
		t.Errorf("state = %v, want Editing", c.State())
	}
	if !h.selectedAll {
		t.Error("expected SelectAll on start_edit")
	}
}

func TestStartEditIsNoopWhenNotIdle(t *testing.T) {
	c := New(false, false)
	h := &fakeHost{contents: "hello"}
	c.StartEdit(h, nil) // snapshots "hello"
	h.contents = "mutated"
	c.StartEdit(h, nil) // already Editing: must not re-snapshot "mutated"
	if err := c.EndEdit(h, false, nil, nil); err != nil {
		t.Fatalf("end edit: %v", err)
	}
	if h.contents != "hello" {
		t.Errorf("contents = %q, want %q (original snapshot, not re-taken)", h.contents, "hello")
	}
}

func TestEndEditAcceptKeepsContents(t *testing.T) {
	c := New(false, false)
	h := &fakeHost{contents: "original"}
	c.StartEdit(h, nil)
	h.contents = "typed text"
	if err := c.EndEdit(h, true, nil, nil); err != nil {
		t.Fatalf("end edit: %v", err)
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
	if h.contents != "typed text" {
		t.Errorf("contents = %q, want %q", h.contents, "typed text")
	}
	if h.cleared {
		t.Error("accept should not clear selection")
	}
}

func TestEndEditRejectRestoresSnapshot(t *testing.T) {
	c := New(false, false)
	h := &fakeHost{contents: "original"}
	c.StartEdit(h, nil)
	h.contents = "typed text"
	if err := c.EndEdit(h, false, nil, nil); err != nil {
		t.Fatalf("end edit: %v", err)
	}
	if h.contents != "original" {
		t.Errorf("contents = %q, want %q", h.contents, "original")
	}
	if !h.cleared {
		t.Error("reject should clear selection")
	}
}

func TestEndEditCallsOnEditEndWithRejectedFlag(t *testing.T) {
	c := New(false, false)
	h := &fakeHost{contents: "x"}
	c.StartEdit(h, nil)
	var gotRejected bool
	var called bool
	if err := c.EndEdit(h, false, nil, func(rejected bool) {
		called = true
		gotRejected = rejected
	}); err != nil {
		t.Fatalf("end edit: %v", err)
	}
	if !called || !gotRejected {
		t.Errorf("onEditEnd called=%v rejected=%v, want true/true", called, gotRejected)
	}
}

func TestFocusLostHonorsRejectPolicy(t *testing.T) {
	c := New(false, true) // rejectOnFocusLoss
	h := &fakeHost{contents: "kept"}
	c.StartEdit(h, nil)
	h.contents = "edited"
	if err := c.FocusLost(h, nil); err != nil {
		t.Fatalf("focus lost: %v", err)
	}
	if h.contents != "kept" {
		t.Errorf("contents = %q, want %q (rejected on focus loss)", h.contents, "kept")
	}
}

func TestFocusLostAcceptsWhenPolicyIsAccept(t *testing.T) {
	c := New(false, false) // accept on focus loss
	h := &fakeHost{contents: "kept"}
	c.StartEdit(h, nil)
	h.contents = "edited"
	if err := c.FocusLost(h, nil); err != nil {
		t.Fatalf("focus lost: %v", err)
	}
	if h.contents != "edited" {
		t.Errorf("contents = %q, want %q (accepted on focus loss)", h.contents, "edited")
	}
}

func TestDestroyCancelsWithoutNotification(t *testing.T) {
	c := New(false, false)
	h := &fakeHost{contents: "x"}
	c.StartEdit(h, nil)
	c.Destroy()
	if c.State() != Destroying {
		t.Errorf("state = %v, want Destroying", c.State())
	}
}
