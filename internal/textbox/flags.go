package textbox

// Flags configure an Editor at construction time, per the host-facing
// creation contract.
type Flags uint32

const (
	// Multiline accepts '\n' in inserts; otherwise '\n' is stripped.
	Multiline Flags = 1 << iota
	// EditBased enables the start/end-edit session state machine.
	EditBased
	// RejectOnFocusLoss is only meaningful combined with EditBased: a
	// lost focus while Editing behaves like end_edit(reject).
	RejectOnFocusLoss
	// AllowTabs accepts '\t' in inserts; otherwise a Tab keystroke is
	// left for the host's focus-traversal instead of being inserted.
	AllowTabs
	// Margin renders a line-number gutter; queried read-only by the host.
	Margin
)

// Has reports whether f contains flag.
func (f Flags) Has(flag Flags) bool { return f&flag != 0 }
