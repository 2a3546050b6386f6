// Package layout computes the visual cell layout of a buffer line: tab
// expansion and per-rune width, cached per line so an unchanged line that
// is still in the cache is not laid out again.
package layout

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/dshills/textkernel/internal/renderer/core"
)

// LineLayout is the visual representation of one buffer line.
type LineLayout struct {
	BufferLine uint32
	Cells      []core.Cell
	Width      int
	HasTabs    bool
	HasWide    bool
}

// IsEmpty reports whether the layout represents an empty line.
func (l *LineLayout) IsEmpty() bool { return len(l.Cells) == 0 }

// Engine expands a line's runes into cells, given a tab width.
type Engine struct {
	tabWidth int
}

// NewEngine creates a layout engine with the given tab width.
func NewEngine(tabWidth int) *Engine {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &Engine{tabWidth: tabWidth}
}

// SetTabWidth changes the tab width used by subsequent Layout calls.
func (e *Engine) SetTabWidth(width int) {
	if width < 1 {
		width = 1
	}
	e.tabWidth = width
}

// Layout computes the visual layout for one line of text.
func (e *Engine) Layout(line string, bufferLine uint32) *LineLayout {
	out := &LineLayout{BufferLine: bufferLine, Cells: make([]core.Cell, 0, len(line))}
	visCol := 0
	defaultStyle := core.DefaultStyle()

	for _, r := range line {
		if r == '\t' {
			out.HasTabs = true
			stop := e.tabWidth - (visCol % e.tabWidth)
			for i := 0; i < stop; i++ {
				out.Cells = append(out.Cells, core.Cell{Rune: ' ', Width: 1, Style: defaultStyle})
				visCol++
			}
			continue
		}

		width := core.RuneWidth(r)
		if width == 0 {
			continue
		}
		if width == 2 {
			out.HasWide = true
		}
		out.Cells = append(out.Cells, core.Cell{Rune: r, Width: width, Style: defaultStyle})
		visCol++
		if width == 2 {
			out.Cells = append(out.Cells, core.ContinuationCell())
			visCol++
		}
	}

	out.Width = visCol
	return out
}

// cacheEntry is one cached layout, validated by a content hash.
type cacheEntry struct {
	layout     *LineLayout
	hash       uint64
	lastAccess time.Time
}

// LineCache caches LineLayouts per buffer line with LRU eviction,
// invalidated by content hash so a stale layout is never served.
type LineCache struct {
	mu      sync.RWMutex
	entries map[uint32]*cacheEntry
	engine  *Engine
	maxSize int
	hits    uint64
	misses  uint64
	evicts  uint64
}

// NewLineCache creates a line cache backed by engine. maxSize of 0 means
// unlimited.
func NewLineCache(engine *Engine, maxSize int) *LineCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &LineCache{entries: make(map[uint32]*cacheEntry), engine: engine, maxSize: maxSize}
}

// Get returns the cached layout for line if text is unchanged, else
// computes and caches a fresh one.
func (c *LineCache) Get(line uint32, text string) *LineLayout {
	hash := hashLine(text)

	c.mu.Lock()
	if e, ok := c.entries[line]; ok && e.hash == hash {
		e.lastAccess = time.Now()
		c.hits++
		layout := e.layout
		c.mu.Unlock()
		return layout
	}
	c.mu.Unlock()

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	layout := c.engine.Layout(text, line)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[line] = &cacheEntry{layout: layout, hash: hash, lastAccess: time.Now()}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evictLocked()
	}
	return layout
}

// Invalidate drops the cached layout for one line.
func (c *LineCache) Invalidate(line uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, line)
}

// InvalidateRange drops cached layouts for [start, end] inclusive.
func (c *LineCache) InvalidateRange(start, end uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if start > end {
		return
	}
	for line := start; line <= end; line++ {
		delete(c.entries, line)
		if line == ^uint32(0) {
			break
		}
	}
}

// InvalidateFrom drops cached layouts for every line >= start.
func (c *LineCache) InvalidateFrom(start uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range c.entries {
		if line >= start {
			delete(c.entries, line)
		}
	}
}

// InvalidateAll clears the entire cache.
func (c *LineCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint32]*cacheEntry)
}

// ShiftLines renumbers cached entries when delta lines are inserted
// (positive) or deleted (negative) starting at fromLine.
func (c *LineCache) ShiftLines(fromLine uint32, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if delta == 0 {
		return
	}
	moved := make(map[uint32]*cacheEntry)
	for line, e := range c.entries {
		if line < fromLine {
			continue
		}
		delete(c.entries, line)
		newLine := int64(line) + int64(delta)
		if newLine < 0 {
			continue
		}
		e.layout.BufferLine = uint32(newLine)
		moved[uint32(newLine)] = e
	}
	for line, e := range moved {
		c.entries[line] = e
	}
}

func (c *LineCache) evictLocked() {
	type lineTime struct {
		line uint32
		t    time.Time
	}
	entries := make([]lineTime, 0, len(c.entries))
	for line, e := range c.entries {
		entries = append(entries, lineTime{line, e.lastAccess})
	}
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].t.Before(entries[j-1].t); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	toRemove := len(entries) - c.maxSize
	for i := 0; i < toRemove; i++ {
		delete(c.entries, entries[i].line)
		c.evicts++
	}
}

// CacheStats summarizes cache hit/miss/eviction counters.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns a snapshot of the cache counters.
func (c *LineCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.hits + c.misses
	var rate float64
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Size: len(c.entries), MaxSize: c.maxSize,
		Hits: c.hits, Misses: c.misses, Evictions: c.evicts, HitRate: rate,
	}
}

func hashLine(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
