package cursor

import (
	"vexlayout/pkg/boxes"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

var (
	selectionForeground = geom.White
	selectionBackground = geom.Color{R: 51, G: 102, B: 204}
)

// Cursor is the caret of one view. Moves are queued and applied in order
// against a laid out box tree; nothing else may change the tree while they
// are applied.
type Cursor struct {
	topology *ContentTopology
	selector *BalancingSelector

	offset     int
	box        boxes.ContentBox
	caret      Caret
	preferredX int

	pending   []pendingMove
	listeners []func(offset int)

	// Overwrite renders the caret in text as a block covering the
	// character it would replace.
	Overwrite bool
}

type pendingMove struct {
	move      Move
	selecting bool
}

func New(topology *ContentTopology, selector *BalancingSelector) *Cursor {
	return &Cursor{topology: topology, selector: selector}
}

func (c *Cursor) Offset() int { return c.offset }

func (c *Cursor) Box() boxes.ContentBox { return c.box }

func (c *Cursor) PreferredX() int { return c.preferredX }

func (c *Cursor) HasSelection() bool { return c.selector.IsActive() }

// SelectedRange returns the balanced selection. Check HasSelection first.
func (c *Cursor) SelectedRange() dom.Range { return c.selector.Range() }

// HotArea is the absolute area of the caret after the last applied move.
func (c *Cursor) HotArea() geom.Rectangle {
	if c.caret == nil {
		return geom.NullRectangle
	}
	return c.caret.HotArea()
}

// AddPositionListener registers fn to be called with the new offset after
// every applied move that changed it.
func (c *Cursor) AddPositionListener(fn func(offset int)) {
	c.listeners = append(c.listeners, fn)
}

// Move queues a move that drops the selection.
func (c *Cursor) Move(m Move) {
	c.pending = append(c.pending, pendingMove{move: m})
}

// Select queues a move that extends the selection.
func (c *Cursor) Select(m Move) {
	c.pending = append(c.pending, pendingMove{move: m, selecting: true})
}

// ApplyMoves drains the queued moves in submission order and returns the
// result of each.
func (c *Cursor) ApplyMoves(g graphics.Graphics) []MoveResult {
	var results []MoveResult
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		results = append(results, c.apply(g, next))
	}
	return results
}

func (c *Cursor) apply(g graphics.Graphics, p pendingMove) MoveResult {
	c.refresh(g)
	state := State{
		Graphics:   g,
		Topology:   c.topology,
		Offset:     c.offset,
		Box:        c.box,
		HotArea:    c.HotArea(),
		PreferredX: c.preferredX,
	}
	offset, result := p.move.CalculateNewOffset(state)
	previous := c.offset

	switch {
	case p.selecting:
		if !c.selector.IsActive() {
			c.selector.SetMark(c.offset)
		}
		if isAbsolute(p.move) {
			c.selector.SetEndAbsoluteTo(offset)
		} else {
			c.selector.MoveEndTo(offset)
		}
		offset = c.selector.CaretOffset()
	default:
		c.selector.SetMark(offset)
	}

	c.offset = offset
	c.refresh(g)
	if p.move.PreferX() {
		c.preferredX = c.HotArea().X
	}
	if c.offset != previous {
		for _, fn := range c.listeners {
			fn(c.offset)
		}
	}
	return result
}

// refresh resolves box and caret of the current offset against the tree.
func (c *Cursor) refresh(g graphics.Graphics) {
	c.box = c.topology.FindBoxForPosition(c.offset)
	c.caret = caretFor(g, c.topology, c.box, c.offset, c.Overwrite)
}

// Caret returns the caret of the current offset.
func (c *Cursor) Caret(g graphics.Graphics) Caret {
	c.refresh(g)
	return c.caret
}

// Paint draws the selection and the caret. The origin of g must be the
// origin of the root box.
func (c *Cursor) Paint(g graphics.Graphics) {
	if c.HasSelection() {
		c.paintSelection(g)
	}
	if caret := c.Caret(g); caret != nil {
		caret.Paint(g)
	}
}

func (c *Cursor) paintSelection(g graphics.Graphics) {
	root := c.topology.RootBox()
	if root == nil {
		return
	}
	selected := c.SelectedRange()
	boxes.Walk(root, func(b boxes.Box) bool {
		content, ok := b.(boxes.ContentBox)
		if !ok {
			return true
		}
		if !selected.Intersects(content.Range()) {
			return false
		}
		highlight := func() {}
		switch {
		case selected.ContainsRange(content.Range()):
			highlight = func() { content.Highlight(g, selectionForeground, selectionBackground) }
		case isText(content):
			text := content.(*boxes.TextContent)
			highlight = func() { text.HighlightInside(g, selected.Start, selected.End, selectionForeground, selectionBackground) }
		default:
			return true
		}
		graphics.Translated(g, content.AbsoluteLeft(), content.AbsoluteTop(), highlight)
		return false
	})
}

func isText(b boxes.Box) bool {
	_, ok := b.(*boxes.TextContent)
	return ok
}
