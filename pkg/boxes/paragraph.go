package boxes

import (
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// Line is one line of a laid out Paragraph. Top is relative to the
// paragraph, Baseline relative to Top.
type Line struct {
	Top      int
	Height   int
	Baseline int
	Width    int
	Boxes    []InlineBox
}

// Paragraph breaks its inline children into lines of its own width.
type Paragraph struct {
	base
	children []InlineBox
	lines    []Line

	TextAlign geom.TextAlign
}

func NewParagraph(children ...InlineBox) *Paragraph {
	p := &Paragraph{}
	for _, child := range children {
		p.AppendChild(child)
	}
	return p
}

func (p *Paragraph) SetWidth(width int) { p.width = max(0, width) }

func (p *Paragraph) AppendChild(child InlineBox) {
	p.children = appendChild(p, p.children, child)
}

func (p *Paragraph) PrependChild(child InlineBox) {
	p.children = prependChild(p, p.children, child)
}

// Children returns the inline boxes of all lines in order. After layout
// these may be fragments of the boxes that were appended.
func (p *Paragraph) Children() []InlineBox { return p.children }

func (p *Paragraph) Lines() []Line { return p.lines }

// LineOf returns the index of the line holding the direct child b, or -1.
func (p *Paragraph) LineOf(b Box) int {
	for i, line := range p.lines {
		for _, candidate := range line.Boxes {
			if Box(candidate) == b {
				return i
			}
		}
	}
	return -1
}

func (p *Paragraph) Layout(g graphics.Graphics) {
	p.joinChildren()
	p.arrangeLines(g)
}

// ReconcileLayout breaks the lines again; only the height of the paragraph
// matters to the parent.
func (p *Paragraph) ReconcileLayout(g graphics.Graphics) []Box {
	old := p.height
	p.joinChildren()
	p.arrangeLines(g)
	return invalidateParentIf(p, old != p.height)
}

func (p *Paragraph) Paint(g graphics.Graphics) { paintChildren(g, p.children) }

func (p *Paragraph) Accept(v Visitor) { v.VisitParagraph(p) }

// joinChildren merges the fragments a previous layout split apart, so that
// every layout starts from the same boxes.
func (p *Paragraph) joinChildren() {
	var joined []InlineBox
	for _, child := range p.children {
		if n := len(joined); n > 0 && joined[n-1].CanJoin(child) && joined[n-1].Join(child) {
			release(child)
			continue
		}
		joined = append(joined, child)
	}
	p.children = joined
}

type lineBuilder struct {
	paragraph *Paragraph
	g         graphics.Graphics
	current   []InlineBox
	x         int
	top       int
}

func (b *lineBuilder) last() InlineBox {
	if len(b.current) == 0 {
		return nil
	}
	return b.current[len(b.current)-1]
}

func (b *lineBuilder) place(child InlineBox) {
	adopt(b.paragraph, child)
	b.current = append(b.current, child)
	b.x += child.Width()
}

func (b *lineBuilder) takeLast() InlineBox {
	child := b.current[len(b.current)-1]
	b.current = b.current[:len(b.current)-1]
	b.x -= child.Width()
	return child
}

// flush aligns the current line on its baseline and starts a new one.
func (b *lineBuilder) flush() {
	if len(b.current) == 0 {
		return
	}
	p := b.paragraph
	line := Line{Top: b.top, Boxes: b.current}
	descent := 0
	for _, child := range b.current {
		line.Baseline = max(line.Baseline, child.Baseline())
		descent = max(descent, child.Height()-child.Baseline())
	}
	line.Height = line.Baseline + descent
	line.Width = b.x - b.last().InvisibleGapAtEnd(b.g)

	left := 0
	switch p.TextAlign {
	case geom.AlignCenter:
		left = max(0, (p.width-line.Width)/2)
	case geom.AlignRight:
		left = max(0, p.width-line.Width)
	}
	for _, child := range b.current {
		child.SetPosition(line.Top+line.Baseline-child.Baseline(), left)
		left += child.Width()
	}

	p.children = append(p.children, b.current...)
	p.lines = append(p.lines, line)
	b.top += line.Height
	b.current = nil
	b.x = 0
}

// arrangeLines accumulates children left to right and splits the first
// child that crosses the width. A child that cannot be split moves to the
// next line as a whole; only a child that would be alone on its line is
// split by force or left overflowing.
func (p *Paragraph) arrangeLines(g graphics.Graphics) {
	queue := p.children
	p.children = nil
	p.lines = nil
	b := &lineBuilder{paragraph: p, g: g}

	for len(queue) > 0 {
		child := queue[0]
		child.SetMaxWidth(p.width)
		child.Layout(g)

		if prev := b.last(); prev != nil {
			if geom.CombineWrapping(prev.LineWrappingAtEnd(), child.LineWrappingAtStart()) == geom.WrapRequired {
				b.flush()
				continue
			}
		}

		if b.x+child.Width()-child.InvisibleGapAtEnd(g) <= p.width && !breaksInside(child) {
			b.place(child)
			queue = queue[1:]
			continue
		}

		if child.CanSplit() {
			if tail := child.SplitTail(g, p.width-b.x, len(b.current) == 0); tail != nil {
				b.place(child)
				queue[0] = tail
				b.flush()
				continue
			}
		}

		if len(b.current) == 0 {
			b.place(child)
			queue = queue[1:]
			b.flush()
			continue
		}

		prev := b.last()
		if len(b.current) > 1 && geom.CombineWrapping(prev.LineWrappingAtEnd(), child.LineWrappingAtStart()) == geom.WrapNotAllowed {
			queue = append([]InlineBox{b.takeLast()}, queue...)
		}
		b.flush()
	}
	b.flush()
	p.height = b.top
}

// breaksInside reports whether a line break is required somewhere within b
// rather than after it.
func breaksInside(b InlineBox) bool {
	switch b := b.(type) {
	case *InlineContainer:
		for i, child := range b.children {
			if breaksInside(child) {
				return true
			}
			if i+1 < len(b.children) && child.LineWrappingAtEnd() == geom.WrapRequired {
				return true
			}
		}
	case *InlineFrame:
		return b.component != nil && breaksInside(b.component)
	case *InlineNodeReference:
		return b.component != nil && breaksInside(b.component)
	}
	return false
}
