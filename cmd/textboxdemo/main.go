// Command textboxdemo hosts a single textbox.Editor in a terminal,
// demonstrating the full renderer stack (core/layout/style/linecache)
// over a tcell backend.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/textkernel/internal/measure"
	"github.com/dshills/textkernel/internal/renderer/core"
	"github.com/dshills/textkernel/internal/renderer/gutter"
	"github.com/dshills/textkernel/internal/renderer/layout"
	"github.com/dshills/textkernel/internal/renderer/linecache"
	"github.com/dshills/textkernel/internal/renderer/style"
	"github.com/dshills/textkernel/internal/textbox"
	"github.com/gdamore/encoding"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func init() {
	encoding.Register()
}

// selectionSource adapts the current Editor selection into the
// per-line style spans the line cache resolves against.
type selectionSource struct {
	ed    *textbox.Editor
	style style.Span
}

func (s *selectionSource) SelectionSpansForLine(line uint32) []style.Span {
	lineA, byteA, lineB, byteB := s.ed.GetSelection()
	if lineA == lineB && byteA == byteB {
		return nil
	}
	if lineA > lineB || (lineA == lineB && byteA > byteB) {
		lineA, byteA, lineB, byteB = lineB, byteB, lineA, byteA
	}
	if int(line) < lineA || int(line) > lineB {
		return nil
	}
	start := 0
	if int(line) == lineA {
		start = byteA
	}
	end := s.ed.LineLength(int(line))
	if int(line) == lineB {
		end = byteB
	}
	if start >= end {
		return nil
	}
	span := s.style
	span.StartCol = uint32(start)
	span.EndCol = uint32(end)
	return []style.Span{span}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "textboxdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	measurer := measure.NewMonospace(1)
	flags := textbox.Multiline | textbox.AllowTabs | textbox.Margin
	ed := textbox.New(flags, measurer)
	ed.SetSmartQuotes(true)

	accent, _ := colorful.Hex("#3c5a82")
	r, g, b := accent.RGB255()
	selSpan := style.Span{
		Layer: style.LayerSelection,
		Merge: style.MergeOverlay,
		Style: core.NewStyle(core.ColorDefault).WithBackground(core.ColorFromRGB(r, g, b)),
	}

	engine := layout.NewEngine(4)
	layoutCache := layout.NewLineCache(engine, 2000)
	cache := linecache.New(layoutCache, linecache.DefaultConfig())
	cache.SetSelectionSource(&selectionSource{ed: ed, style: selSpan})

	renderer := linecache.NewLineRenderer(cache)
	if flags.Has(textbox.Margin) {
		renderer.SetGutterWidth(gutter.CalculateWidth(uint32(ed.LineCount()), 3) + 1)
	}

	ed.SetNotifications(func() {
		cache.InvalidateAll()
	}, nil, nil)

	redraw := func() {
		width, height := screen.Size()
		renderer.SetScreenSize(width, height)
		renderer.SetViewport(0, 0)
		if flags.Has(textbox.Margin) {
			renderer.SetGutterWidth(gutter.CalculateWidth(uint32(ed.LineCount()), 3) + 1)
		}

		lines := renderer.RenderVisibleLines(func(line uint32) string {
			if int(line) >= ed.LineCount() {
				return ""
			}
			return ed.Buffer().LineText(line)
		})

		screen.Clear()
		gutterWidth := 0
		for _, rl := range lines {
			gutterWidth = len(rl.GutterCells)
			for x, cell := range rl.GutterCells {
				screen.SetContent(x, rl.ScreenRow, cell.Rune, nil, toTcellStyle(cell.Style))
			}
			for x, cell := range rl.Cells {
				screen.SetContent(gutterWidth+x, rl.ScreenRow, cell.Rune, nil, toTcellStyle(cell.Style))
			}
		}
		_, _, lineB, byteB := ed.GetSelection()
		screen.ShowCursor(gutterWidth+byteB, int(lineB))
		screen.Show()
	}

	redraw()
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			redraw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if handleTcellKey(ed, ev) {
				redraw()
			}
		}
	}
}

func handleTcellKey(ed *textbox.Editor, ev *tcell.EventKey) bool {
	mods := textbox.Modifiers(0)
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= textbox.ModShift
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= textbox.ModCtrl
	}

	var key textbox.Key
	switch ev.Key() {
	case tcell.KeyLeft:
		key = textbox.KeyLeft
	case tcell.KeyRight:
		key = textbox.KeyRight
	case tcell.KeyUp:
		key = textbox.KeyUp
	case tcell.KeyDown:
		key = textbox.KeyDown
	case tcell.KeyHome:
		key = textbox.KeyHome
	case tcell.KeyEnd:
		key = textbox.KeyEnd
	case tcell.KeyPgUp:
		key = textbox.KeyPageUp
	case tcell.KeyPgDn:
		key = textbox.KeyPageDown
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		key = textbox.KeyBackspace
	case tcell.KeyDelete:
		key = textbox.KeyDelete
	case tcell.KeyEnter:
		key = textbox.KeyEnter
	case tcell.KeyEscape:
		key = textbox.KeyEscape
	case tcell.KeyTab:
		key = textbox.KeyTab
	case tcell.KeyRune:
		key = textbox.KeyRune
	default:
		return false
	}

	handled, _ := ed.HandleKey(textbox.KeyEvent{Key: key, Mods: mods, Rune: ev.Rune()})
	return handled
}

func toTcellStyle(s core.Style) tcell.Style {
	ts := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		ts = ts.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		ts = ts.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	if s.Attributes.Has(core.AttrBold) {
		ts = ts.Bold(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		ts = ts.Underline(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		ts = ts.Italic(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		ts = ts.Reverse(true)
	}
	return ts
}
