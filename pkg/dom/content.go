package dom

import (
	"strings"
	"weak"
)

// TagMarker occupies the content offset of a node boundary. Every node
// start and end owns exactly one marker.
const TagMarker = '\x00'

const initialGapSize = 64

// Position is an offset into Content that follows insertions and removals.
// Content only tracks positions weakly: a position nobody references any
// more is dropped on the next compaction.
type Position struct {
	offset int
}

func (p *Position) Offset() int {
	return p.offset
}

// Content is a gap buffer of runes holding both text and node markers.
type Content struct {
	buf      []rune
	gapStart int
	gapEnd   int

	positions []weak.Pointer[Position]
	edits     int
}

func NewContent() *Content {
	buf := make([]rune, initialGapSize)
	return &Content{buf: buf, gapStart: 0, gapEnd: len(buf)}
}

func (c *Content) gapSize() int {
	return c.gapEnd - c.gapStart
}

func (c *Content) Length() int {
	return len(c.buf) - c.gapSize()
}

func (c *Content) at(offset int) rune {
	if offset < c.gapStart {
		return c.buf[offset]
	}
	return c.buf[offset+c.gapSize()]
}

// CharAt returns the rune at offset. Markers are returned as TagMarker.
func (c *Content) CharAt(offset int) rune {
	c.checkOffset(offset)
	return c.at(offset)
}

func (c *Content) IsTagMarker(offset int) bool {
	return offset >= 0 && offset < c.Length() && c.at(offset) == TagMarker
}

func (c *Content) IsLineBreak(offset int) bool {
	return offset >= 0 && offset < c.Length() && c.at(offset) == '\n'
}

func (c *Content) checkOffset(offset int) {
	if offset < 0 || offset >= c.Length() {
		panic("dom: content offset out of range")
	}
}

func (c *Content) moveGap(to int) {
	switch {
	case to < c.gapStart:
		n := c.gapStart - to
		copy(c.buf[c.gapEnd-n:c.gapEnd], c.buf[to:c.gapStart])
		c.gapStart -= n
		c.gapEnd -= n
	case to > c.gapStart:
		n := to - c.gapStart
		copy(c.buf[c.gapStart:c.gapStart+n], c.buf[c.gapEnd:c.gapEnd+n])
		c.gapStart += n
		c.gapEnd += n
	}
}

func (c *Content) ensureGap(n int) {
	if c.gapSize() >= n {
		return
	}
	grow := max(n, len(c.buf), initialGapSize)
	next := make([]rune, len(c.buf)+grow)
	copy(next, c.buf[:c.gapStart])
	tail := len(c.buf) - c.gapEnd
	copy(next[len(next)-tail:], c.buf[c.gapEnd:])
	c.gapEnd = len(next) - tail
	c.buf = next
}

func (c *Content) insert(offset int, runes []rune) {
	if offset < 0 || offset > c.Length() {
		panic("dom: insertion offset out of range")
	}
	if len(runes) == 0 {
		return
	}
	c.ensureGap(len(runes))
	c.moveGap(offset)
	copy(c.buf[c.gapStart:], runes)
	c.gapStart += len(runes)
	c.shiftPositions(offset, len(runes))
}

// InsertText inserts text at offset. Marker runes inside text are dropped,
// they would corrupt the node structure.
func (c *Content) InsertText(offset int, text string) {
	c.insert(offset, []rune(strings.ReplaceAll(text, string(TagMarker), "")))
}

// InsertTagMarker inserts a single node boundary marker.
func (c *Content) InsertTagMarker(offset int) {
	c.insert(offset, []rune{TagMarker})
}

// Remove deletes the inclusive range. Positions inside the range collapse
// onto its start.
func (c *Content) Remove(r Range) {
	if r.Start < 0 || r.End >= c.Length() {
		panic("dom: removal range out of bounds")
	}
	c.moveGap(r.Start)
	c.gapEnd += r.Length()
	c.collapsePositions(r)
}

// Text returns the text in r with node markers removed.
func (c *Content) Text(r Range) string {
	var sb strings.Builder
	for o := r.Start; o <= r.End; o++ {
		if ch := c.at(o); ch != TagMarker {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// RawText returns the content in r, markers included.
func (c *Content) RawText(r Range) string {
	var sb strings.Builder
	for o := r.Start; o <= r.End; o++ {
		sb.WriteRune(c.at(o))
	}
	return sb.String()
}

// CreatePosition returns a position tracking offset from now on.
func (c *Content) CreatePosition(offset int) *Position {
	if offset < 0 || offset > c.Length() {
		panic("dom: position offset out of range")
	}
	p := &Position{offset: offset}
	c.positions = append(c.positions, weak.Make(p))
	return p
}

// PositionCount returns the number of live tracked positions.
func (c *Content) PositionCount() int {
	c.compact()
	return len(c.positions)
}

func (c *Content) shiftPositions(from, delta int) {
	for _, wp := range c.positions {
		if p := wp.Value(); p != nil && p.offset >= from {
			p.offset += delta
		}
	}
	c.afterEdit()
}

func (c *Content) collapsePositions(r Range) {
	for _, wp := range c.positions {
		p := wp.Value()
		if p == nil {
			continue
		}
		switch {
		case p.offset > r.End:
			p.offset -= r.Length()
		case p.offset >= r.Start:
			p.offset = r.Start
		}
	}
	c.afterEdit()
}

func (c *Content) afterEdit() {
	c.edits++
	if c.edits%64 == 0 {
		c.compact()
	}
}

func (c *Content) compact() {
	live := c.positions[:0]
	for _, wp := range c.positions {
		if wp.Value() != nil {
			live = append(live, wp)
		}
	}
	clear(c.positions[len(live):])
	c.positions = live
}

// MultilineRanges splits r at line breaks. Each returned range ends with
// its line break, the last one may not.
func (c *Content) MultilineRanges(r Range) []Range {
	var lines []Range
	start := r.Start
	for o := r.Start; o <= r.End; o++ {
		if c.at(o) == '\n' {
			lines = append(lines, NewRange(start, o))
			start = o + 1
		}
	}
	if start <= r.End {
		lines = append(lines, NewRange(start, r.End))
	}
	return lines
}
