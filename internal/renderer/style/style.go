// Package style resolves the final per-cell Style from overlapping
// spans contributed by syntax highlighting, selections, and overlays.
package style

import "github.com/dshills/textkernel/internal/renderer/core"

// Layer orders style contributions by priority; higher layers win ties.
type Layer uint8

const (
	LayerBase Layer = iota
	LayerSyntax
	LayerDiagnostic
	LayerSearch
	LayerDiff
	LayerSelection
	LayerGhostText
	LayerCursor
	layerCount
)

// MergeMode controls how a span's style combines with lower layers.
type MergeMode uint8

const (
	MergeOverlay MergeMode = iota
	MergeReplace
	MergeAttributes
)

// Span is a styled column range within one line.
type Span struct {
	StartCol uint32
	EndCol   uint32
	Style    core.Style
	Layer    Layer
	Merge    MergeMode
}

// Resolver combines per-layer spans into a final cell style.
type Resolver struct {
	baseStyle core.Style
}

// NewResolver creates a resolver with the default base style.
func NewResolver() *Resolver {
	return &Resolver{baseStyle: core.DefaultStyle()}
}

// SetBaseStyle sets the style cells fall back to with no spans applied.
func (r *Resolver) SetBaseStyle(s core.Style) { r.baseStyle = s }

// Resolve returns the combined style at column col.
func (r *Resolver) Resolve(col uint32, spans []Span) core.Style {
	result := r.baseStyle
	for layer := LayerBase; layer < layerCount; layer++ {
		for _, span := range spans {
			if span.Layer != layer || col < span.StartCol || col >= span.EndCol {
				continue
			}
			result = r.mergeStyle(result, span.Style, span.Merge)
		}
	}
	return result
}

// ResolveLine returns a copy of cells with spans' styles applied.
func (r *Resolver) ResolveLine(cells []core.Cell, spans []Span) []core.Cell {
	if len(spans) == 0 {
		return cells
	}
	result := make([]core.Cell, len(cells))
	copy(result, cells)
	for i := range result {
		result[i].Style = r.Resolve(uint32(i), spans)
	}
	return result
}

func (r *Resolver) mergeStyle(base, overlay core.Style, mode MergeMode) core.Style {
	switch mode {
	case MergeReplace:
		return overlay
	case MergeAttributes:
		base.Attributes |= overlay.Attributes
		return base
	default: // MergeOverlay
		return base.Merge(overlay)
	}
}

// DefaultStyles holds the preset styles the demo host and compositor
// fall back to before a theme is loaded.
type DefaultStyles struct {
	Selection  core.Style
	DiffAdd    core.Style
	DiffDelete core.Style
	DiffModify core.Style
	GhostText  core.Style
}

// NewDefaultStyles builds the preset style set.
func NewDefaultStyles() DefaultStyles {
	return DefaultStyles{
		Selection: core.NewStyle(core.ColorDefault).
			WithBackground(core.ColorFromRGB(60, 90, 130)),
		DiffAdd: core.NewStyle(core.ColorFromRGB(80, 200, 80)).
			WithBackground(core.ColorFromRGB(30, 60, 30)),
		DiffDelete: core.NewStyle(core.ColorFromRGB(200, 80, 80)).
			WithBackground(core.ColorFromRGB(60, 30, 30)).Strikethrough(),
		DiffModify: core.NewStyle(core.ColorFromRGB(200, 200, 80)).
			WithBackground(core.ColorFromRGB(60, 60, 30)),
		GhostText: core.NewStyle(core.ColorFromRGB(128, 128, 128)).Italic(),
	}
}
