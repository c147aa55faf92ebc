// Package boxes is the render tree of the editor: positioned, sized boxes
// built from a document, laid out against a width and painted through a
// graphics context.
//
// Boxes come in two families. Structural boxes stack children vertically
// and are offered a width by their parent. Inline boxes are arranged on a
// shared baseline by a Paragraph and may be split and joined while lines
// are broken. Content boxes additionally map a range of document offsets.
package boxes

import (
	"fmt"

	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// Box is a node of the render tree. Positions are relative to the parent;
// absolute positions are derived by walking the parent chain.
type Box interface {
	Parent() Box
	SetParent(parent Box)
	Top() int
	Left() int
	SetPosition(top, left int)
	Width() int
	Height() int
	Bounds() geom.Rectangle
	AbsoluteTop() int
	AbsoluteLeft() int

	// Layout recomputes the size of the box and the positions of its
	// children. Calling it twice without changes produces the same result.
	Layout(g graphics.Graphics)
	// ReconcileLayout recomputes the bounds from already laid out children
	// and returns the boxes that must reconcile next because the outer
	// bounds changed.
	ReconcileLayout(g graphics.Graphics) []Box
	Paint(g graphics.Graphics)
	Accept(v Visitor)

	box()
}

// StructuralBox is offered a width by its parent; its height follows from
// its content.
type StructuralBox interface {
	Box
	SetWidth(width int)
}

// InlineBox is arranged within a line.
type InlineBox interface {
	Box
	Baseline() int
	MaxWidth() int
	SetMaxWidth(width int)
	InvisibleGapAtStart(g graphics.Graphics) int
	InvisibleGapAtEnd(g graphics.Graphics) int
	LineWrappingAtStart() geom.LineWrappingRule
	LineWrappingAtEnd() geom.LineWrappingRule

	CanJoin(other InlineBox) bool
	// Join merges other into this box. other must not be used afterwards.
	Join(other InlineBox) bool
	CanSplit() bool
	// SplitTail keeps in this box what fits into headWidth and returns the
	// rest as a new box, or nil if no split is possible. With force set the
	// split may cut an unbreakable run.
	SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox
}

// ContentBox is a box associated with a range of document offsets.
type ContentBox interface {
	Box
	Content() *dom.Content
	StartOffset() int
	EndOffset() int
	Range() dom.Range
	IsEmpty() bool
	IsAtStart(offset int) bool
	IsAtEnd(offset int) bool
	// PositionArea returns the area of offset relative to the box.
	PositionArea(g graphics.Graphics, offset int) geom.Rectangle
	// OffsetForCoordinates maps a point relative to the box to an offset.
	OffsetForCoordinates(g graphics.Graphics, x, y int) int

	// The following take absolute coordinates.
	ContainsCoordinates(x, y int) bool
	IsLeftOf(x int) bool
	IsRightOf(x int) bool
	IsAbove(y int) bool
	IsBelow(y int) bool

	Highlight(g graphics.Graphics, foreground, background geom.Color)
}

// base holds the geometry every box shares.
type base struct {
	parent Box
	top    int
	left   int
	width  int
	height int
}

func (b *base) box() {}

func (b *base) Parent() Box { return b.parent }

func (b *base) SetParent(parent Box) { b.parent = parent }

func (b *base) Top() int { return b.top }

func (b *base) Left() int { return b.left }

func (b *base) SetPosition(top, left int) {
	b.top = top
	b.left = left
}

func (b *base) Width() int { return b.width }

func (b *base) Height() int { return b.height }

func (b *base) Bounds() geom.Rectangle {
	return geom.Rectangle{X: b.left, Y: b.top, Width: b.width, Height: b.height}
}

func (b *base) AbsoluteTop() int {
	if b.parent == nil {
		return b.top
	}
	return b.parent.AbsoluteTop() + b.top
}

func (b *base) AbsoluteLeft() int {
	if b.parent == nil {
		return b.left
	}
	return b.parent.AbsoluteLeft() + b.left
}

// AbsoluteBounds returns the bounds of b in root coordinates.
func AbsoluteBounds(b Box) geom.Rectangle {
	return geom.Rectangle{X: b.AbsoluteLeft(), Y: b.AbsoluteTop(), Width: b.Width(), Height: b.Height()}
}

// adopt makes parent the owner of child. A box has exactly one owner;
// adopting a box that belongs to another parent is a defect.
func adopt(parent, child Box) {
	if child == nil {
		return
	}
	if p := child.Parent(); p != nil && p != parent {
		panic(fmt.Sprintf("boxes: %T is already owned by %T", child, p))
	}
	child.SetParent(parent)
}

// release orphans child so that it can be adopted elsewhere.
func release(child Box) {
	if child != nil {
		child.SetParent(nil)
	}
}

func appendChild[T Box](owner Box, list []T, child T) []T {
	adopt(owner, child)
	return append(list, child)
}

func prependChild[T Box](owner Box, list []T, child T) []T {
	adopt(owner, child)
	return append([]T{child}, list...)
}

func removeChild[T Box](list []T, child Box) []T {
	for i, c := range list {
		if Box(c) == child {
			release(c)
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func replaceChild[T Box](owner Box, list []T, old Box, replacement T) bool {
	for i, c := range list {
		if Box(c) == old {
			release(c)
			adopt(owner, replacement)
			list[i] = replacement
			return true
		}
	}
	return false
}

// moveChildren transfers list[from:] to destination and returns what is
// left in the source.
func moveChildren[T Box](list []T, from int, destination Box, into []T) ([]T, []T) {
	for _, c := range list[from:] {
		release(c)
		adopt(destination, c)
		into = append(into, c)
	}
	clear(list[from:])
	return list[:from], into
}

func boxesOf[T Box](list []T) []Box {
	result := make([]Box, len(list))
	for i, c := range list {
		result[i] = c
	}
	return result
}

// paintChildren paints each child translated to its position.
func paintChildren[T Box](g graphics.Graphics, children []T) {
	for _, child := range children {
		paintChild(g, child)
	}
}

func paintChild(g graphics.Graphics, child Box) {
	if child == nil {
		return
	}
	graphics.Translated(g, child.Left(), child.Top(), func() {
		child.Paint(g)
	})
}

// invalidateParentIf returns the parent of b when changed is set.
func invalidateParentIf(b Box, changed bool) []Box {
	if !changed || b.Parent() == nil {
		return nil
	}
	return []Box{b.Parent()}
}
