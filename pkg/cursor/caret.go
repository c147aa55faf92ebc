package cursor

import (
	"vexlayout/pkg/boxes"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

var (
	caretForeground = geom.White
	caretBackground = geom.Black
	labelFont       = geom.FontSpec{Family: "sans-serif", Size: 10, Style: geom.FontBold}
)

const (
	caretWidth   = 2
	labelPadding = 3
	labelOffset  = 5
)

// Caret is the visual mark of the cursor. Its hot area, in absolute
// coordinates, anchors vertical moves.
type Caret interface {
	HotArea() geom.Rectangle
	Paint(g graphics.Graphics)
}

// InsertBeforeNodeCaret sits on the start boundary of a node: an angle at
// the top left corner labelled with the start marker.
type InsertBeforeNodeCaret struct {
	Area geom.Rectangle
	Node dom.Node
}

func (c *InsertBeforeNodeCaret) HotArea() geom.Rectangle { return c.Area }

func (c *InsertBeforeNodeCaret) Paint(g graphics.Graphics) {
	if c.Area.IsNull() {
		return
	}
	x, y := c.Area.X, c.Area.Y
	g.SetColor(caretBackground)
	g.FillRect(x, y, c.Area.Width, caretWidth)
	g.FillRect(x, y, caretWidth, c.Area.Height)
	paintLabel(g, dom.StartMarker(c.Node), x+labelOffset, y+labelOffset)
}

// AppendNodeWithTextCaret sits on the end boundary of a node that takes
// text: a bar after the last character, or at the placeholder of an empty
// node.
type AppendNodeWithTextCaret struct {
	Area        geom.Rectangle
	Node        dom.Node
	NodeIsEmpty bool
}

func (c *AppendNodeWithTextCaret) x() int {
	if c.NodeIsEmpty {
		return c.Area.X
	}
	return c.Area.Right()
}

func (c *AppendNodeWithTextCaret) HotArea() geom.Rectangle {
	return geom.Rectangle{X: c.x(), Y: c.Area.Y, Width: caretWidth, Height: c.Area.Height}
}

func (c *AppendNodeWithTextCaret) Paint(g graphics.Graphics) {
	if c.Area.IsNull() {
		return
	}
	x, y := c.x(), c.Area.Y
	g.SetColor(caretBackground)
	g.FillRect(x, y, caretWidth, c.Area.Height)
	g.SetCurrentFont(labelFont)
	textHeight := g.FontMetrics().Height
	dy := (c.Area.Height - textHeight - labelPadding*2) / 2
	paintLabel(g, dom.EndMarker(c.Node), x+labelOffset, y+dy)
}

// AppendStructuralNodeCaret sits on the end boundary of a node that takes
// no text: an angle at the bottom right corner.
type AppendStructuralNodeCaret struct {
	Area geom.Rectangle
	Node dom.Node
}

func (c *AppendStructuralNodeCaret) HotArea() geom.Rectangle { return c.Area }

func (c *AppendStructuralNodeCaret) Paint(g graphics.Graphics) {
	if c.Area.IsNull() {
		return
	}
	x, bottom := c.Area.X, c.Area.Bottom()
	g.SetColor(caretBackground)
	g.FillRect(x, bottom, c.Area.Width, caretWidth)
	g.FillRect(c.Area.Right()-caretWidth, c.Area.Y, caretWidth, c.Area.Height)
	paintLabel(g, dom.EndMarker(c.Node), x, bottom+labelOffset)
}

// TextCaret sits between two characters. In overwrite mode it covers the
// character it would replace.
type TextCaret struct {
	Area      geom.Rectangle
	Font      geom.FontSpec
	Character string
	Overwrite bool
}

func (c *TextCaret) HotArea() geom.Rectangle { return c.Area }

func (c *TextCaret) Paint(g graphics.Graphics) {
	if c.Area.IsNull() {
		return
	}
	g.SetColor(caretBackground)
	if !c.Overwrite {
		g.FillRect(c.Area.X-1, c.Area.Y, caretWidth, c.Area.Height)
		return
	}
	g.FillRect(c.Area.X, c.Area.Y, c.Area.Width, c.Area.Height)
	g.SetCurrentFont(c.Font)
	g.SetColor(caretForeground)
	g.DrawString(c.Character, c.Area.X, c.Area.Y)
}

func paintLabel(g graphics.Graphics, label string, x, y int) {
	g.SetCurrentFont(labelFont)
	width := g.StringWidth(label)
	height := g.FontMetrics().Height
	g.SetColor(caretBackground)
	g.FillRect(x, y, width+labelPadding*2, height+labelPadding*2)
	g.SetColor(caretForeground)
	g.DrawString(label, x+labelPadding, y+labelPadding)
}

// caretFor returns the caret of offset in box, or nil if box does not own
// offset.
func caretFor(g graphics.Graphics, topology *ContentTopology, box boxes.ContentBox, offset int, overwrite bool) Caret {
	switch b := box.(type) {
	case *boxes.StructuralNodeReference, *boxes.InlineNodeReference:
		node := b.(interface{ Node() dom.Node }).Node()
		area := absolutePositionArea(g, topology, box, offset)
		switch {
		case box.IsAtStart(offset):
			return &InsertBeforeNodeCaret{Area: area, Node: node}
		case box.IsAtEnd(offset) && canContainText(box):
			return &AppendNodeWithTextCaret{Area: area, Node: node, NodeIsEmpty: box.IsEmpty() || hasEndPlaceholder(box, node)}
		case box.IsAtEnd(offset):
			return &AppendStructuralNodeCaret{Area: area, Node: node}
		}
	case *boxes.NodeEndOffsetPlaceholder:
		return &AppendNodeWithTextCaret{Area: absolutePositionArea(g, topology, box, offset), Node: b.Node(), NodeIsEmpty: true}
	case *boxes.TextContent:
		if !b.Range().Contains(offset) {
			return nil
		}
		text := []rune(b.Text())
		return &TextCaret{
			Area:      absolutePositionArea(g, topology, box, offset),
			Font:      b.Style.Font,
			Character: boxes.DisplayText(string(text[offset-b.StartOffset()])),
			Overwrite: overwrite,
		}
	}
	return nil
}

// absolutePositionArea returns the area of offset in absolute coordinates.
// The end of a node holding text takes the area of its last character.
func absolutePositionArea(g graphics.Graphics, topology *ContentTopology, box boxes.ContentBox, offset int) geom.Rectangle {
	if box == nil {
		return geom.NullRectangle
	}
	if isNodeReference(box) && box.IsAtEnd(offset) && canContainText(box) && !box.IsEmpty() {
		node := box.(interface{ Node() dom.Node }).Node()
		if !hasEndPlaceholder(box, node) {
			if last := topology.FindBoxForPosition(offset - 1); last != nil && last != box {
				return absolutePositionArea(g, topology, last, offset-1)
			}
		}
	}
	return box.PositionArea(g, offset).Translate(box.AbsoluteLeft(), box.AbsoluteTop())
}

func isNodeReference(b boxes.Box) bool {
	switch b.(type) {
	case *boxes.StructuralNodeReference, *boxes.InlineNodeReference:
		return true
	}
	return false
}

func canContainText(b boxes.Box) bool {
	switch b := b.(type) {
	case *boxes.StructuralNodeReference:
		return b.CanContainText
	case *boxes.InlineNodeReference:
		return b.CanContainText
	}
	return false
}

// hasEndPlaceholder reports whether the end of node is shown by a
// placeholder below b, as for text ending with a line break.
func hasEndPlaceholder(b boxes.Box, node dom.Node) bool {
	return boxes.FindFirst(b, func(candidate boxes.Box) bool {
		p, ok := candidate.(*boxes.NodeEndOffsetPlaceholder)
		return ok && p.Node() == node
	}) != nil
}
