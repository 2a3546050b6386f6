// Package keymap persists the textbox keystroke table as a rebindable
// JSON document, read and written with gjson/sjson rather than
// encoding/json so individual bindings can be patched without
// round-tripping the whole structure through a Go type.
package keymap

import (
	"fmt"

	"github.com/dshills/textkernel/internal/textbox"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Binding names the keystroke table's rows by a stable string key, used
// as the JSON object key for persistence and rebinding.
const (
	BindMoveLeft       = "move_left"
	BindMoveRight      = "move_right"
	BindMoveWordLeft   = "move_word_left"
	BindMoveWordRight  = "move_word_right"
	BindSelectLeft     = "select_left"
	BindSelectRight    = "select_right"
	BindMoveHome       = "move_home"
	BindMoveEnd        = "move_end"
	BindMoveDocStart   = "move_doc_start"
	BindMoveDocEnd     = "move_doc_end"
	BindMoveUp         = "move_up"
	BindMoveDown       = "move_down"
	BindPageUp         = "page_up"
	BindPageDown       = "page_down"
	BindBackspace      = "backspace"
	BindDelete         = "delete"
	BindNewline        = "newline"
	BindEndEditAccept  = "end_edit_accept"
	BindEndEditReject  = "end_edit_reject"
)

// Map associates binding names to the key spec string the host's input
// layer understands (e.g. "Ctrl+Left"). Values are opaque to this
// package; only the JSON persistence shape is owned here.
type Map struct {
	bindings map[string]string
}

// Default returns the keystroke table from the external-interface spec,
// expressed as the host's platform-primary-modifier key names.
func Default() *Map {
	return &Map{bindings: map[string]string{
		BindMoveLeft:      "Left",
		BindMoveRight:     "Right",
		BindMoveWordLeft:  "Ctrl+Left",
		BindMoveWordRight: "Ctrl+Right",
		BindSelectLeft:    "Shift+Left",
		BindSelectRight:   "Shift+Right",
		BindMoveHome:      "Home",
		BindMoveEnd:       "End",
		BindMoveDocStart:  "Ctrl+Home",
		BindMoveDocEnd:    "Ctrl+End",
		BindMoveUp:        "Up",
		BindMoveDown:      "Down",
		BindPageUp:        "PageUp",
		BindPageDown:      "PageDown",
		BindBackspace:     "Backspace",
		BindDelete:        "Delete",
		BindNewline:       "Enter",
		BindEndEditAccept: "Enter",
		BindEndEditReject: "Escape",
	}}
}

// Get returns the key spec bound to name, or "" if unbound.
func (m *Map) Get(name string) string { return m.bindings[name] }

// Rebind changes the key spec bound to name.
func (m *Map) Rebind(name, keySpec string) { m.bindings[name] = keySpec }

// MarshalJSON serializes the map as a pretty-printed JSON object, built
// incrementally with sjson so bindings can be added in a stable order
// without needing a struct tag per field.
func (m *Map) MarshalJSON() ([]byte, error) {
	doc := "{}"
	var err error
	for _, name := range bindingOrder {
		spec, ok := m.bindings[name]
		if !ok {
			continue
		}
		doc, err = sjson.Set(doc, name, spec)
		if err != nil {
			return nil, fmt.Errorf("keymap: set %s: %w", name, err)
		}
	}
	return pretty.Pretty([]byte(doc)), nil
}

// UnmarshalJSON parses a keymap document with gjson, so a document
// missing or adding bindings never fails to load: unknown keys are
// ignored and missing ones keep their prior value.
func (m *Map) UnmarshalJSON(data []byte) error {
	if m.bindings == nil {
		m.bindings = make(map[string]string)
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return fmt.Errorf("keymap: document is not a JSON object")
	}
	parsed.ForEach(func(key, value gjson.Result) bool {
		if _, ok := eventForBinding(key.String()); ok {
			m.bindings[key.String()] = value.String()
		}
		return true
	})
	return nil
}

var bindingOrder = []string{
	BindMoveLeft, BindMoveRight, BindMoveWordLeft, BindMoveWordRight,
	BindSelectLeft, BindSelectRight, BindMoveHome, BindMoveEnd,
	BindMoveDocStart, BindMoveDocEnd, BindMoveUp, BindMoveDown,
	BindPageUp, BindPageDown, BindBackspace, BindDelete, BindNewline,
	BindEndEditAccept, BindEndEditReject,
}

// Resolve maps an incoming key spec string to a textbox.KeyEvent using
// the bound names, for hosts that want table-driven dispatch instead of
// hardcoding textbox.HandleKey's defaults.
func (m *Map) Resolve(keySpec string) (textbox.KeyEvent, bool) {
	for name, spec := range m.bindings {
		if spec != keySpec {
			continue
		}
		if ev, ok := eventForBinding(name); ok {
			return ev, true
		}
	}
	return textbox.KeyEvent{}, false
}

func eventForBinding(name string) (textbox.KeyEvent, bool) {
	switch name {
	case BindMoveLeft:
		return textbox.KeyEvent{Key: textbox.KeyLeft}, true
	case BindMoveRight:
		return textbox.KeyEvent{Key: textbox.KeyRight}, true
	case BindMoveWordLeft:
		return textbox.KeyEvent{Key: textbox.KeyLeft, Mods: textbox.ModCtrl}, true
	case BindMoveWordRight:
		return textbox.KeyEvent{Key: textbox.KeyRight, Mods: textbox.ModCtrl}, true
	case BindSelectLeft:
		return textbox.KeyEvent{Key: textbox.KeyLeft, Mods: textbox.ModShift}, true
	case BindSelectRight:
		return textbox.KeyEvent{Key: textbox.KeyRight, Mods: textbox.ModShift}, true
	case BindMoveHome:
		return textbox.KeyEvent{Key: textbox.KeyHome}, true
	case BindMoveEnd:
		return textbox.KeyEvent{Key: textbox.KeyEnd}, true
	case BindMoveDocStart:
		return textbox.KeyEvent{Key: textbox.KeyHome, Mods: textbox.ModCtrl}, true
	case BindMoveDocEnd:
		return textbox.KeyEvent{Key: textbox.KeyEnd, Mods: textbox.ModCtrl}, true
	case BindMoveUp:
		return textbox.KeyEvent{Key: textbox.KeyUp}, true
	case BindMoveDown:
		return textbox.KeyEvent{Key: textbox.KeyDown}, true
	case BindPageUp:
		return textbox.KeyEvent{Key: textbox.KeyPageUp}, true
	case BindPageDown:
		return textbox.KeyEvent{Key: textbox.KeyPageDown}, true
	case BindBackspace:
		return textbox.KeyEvent{Key: textbox.KeyBackspace}, true
	case BindDelete:
		return textbox.KeyEvent{Key: textbox.KeyDelete}, true
	case BindNewline, BindEndEditAccept:
		return textbox.KeyEvent{Key: textbox.KeyEnter}, true
	case BindEndEditReject:
		return textbox.KeyEvent{Key: textbox.KeyEscape}, true
	}
	return textbox.KeyEvent{}, false
}
