package keymap

import (
	"testing"

	"github.com/dshills/textkernel/internal/textbox"
)

func TestDefaultHasAllBindings(t *testing.T) {
	m := Default()
	for _, name := range bindingOrder {
		if m.Get(name) == "" {
			t.Errorf("binding %q missing from Default()", name)
		}
	}
}

func TestRebind(t *testing.T) {
	m := Default()
	m.Rebind(BindMoveLeft, "Ctrl+H")
	if got := m.Get(BindMoveLeft); got != "Ctrl+H" {
		t.Errorf("Get(%s) = %q, want %q", BindMoveLeft, got, "Ctrl+H")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	m := Default()
	m.Rebind(BindMoveLeft, "Ctrl+H")

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Map
	if err := got.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g := got.Get(BindMoveLeft); g != "Ctrl+H" {
		t.Errorf("round-tripped Get(%s) = %q, want %q", BindMoveLeft, g, "Ctrl+H")
	}
	if g := got.Get(BindMoveRight); g != "Right" {
		t.Errorf("round-tripped Get(%s) = %q, want %q", BindMoveRight, g, "Right")
	}
}

func TestUnmarshalRejectsNonObject(t *testing.T) {
	var m Map
	if err := m.UnmarshalJSON([]byte(`[1,2,3]`)); err == nil {
		t.Error("expected error for non-object JSON")
	}
}

func TestResolveMovesLeft(t *testing.T) {
	m := Default()
	ev, ok := m.Resolve("Left")
	if !ok {
		t.Fatalf("expected Resolve(\"Left\") to succeed")
	}
	if ev.Key != textbox.KeyLeft || ev.Mods != 0 {
		t.Errorf("Resolve(\"Left\") = %+v", ev)
	}
}

func TestResolveUnknownSpec(t *testing.T) {
	m := Default()
	if _, ok := m.Resolve("F13"); ok {
		t.Error("expected Resolve(\"F13\") to fail")
	}
}
