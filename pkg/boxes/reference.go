package boxes

import (
	"vexlayout/pkg/dom"
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// markerSize is the thickness of the area reported for a node boundary.
const markerSize = 2

// ParentContentBox returns the nearest ancestor of b that is a content box.
// Decorating boxes in between are skipped.
func ParentContentBox(b Box) ContentBox {
	for p := b.Parent(); p != nil; p = p.Parent() {
		if content, ok := p.(ContentBox); ok {
			return content
		}
	}
	return nil
}

// nodeReference holds what structural and inline node references share.
type nodeReference struct {
	node dom.Node

	// CanContainText is set when the validator allows text in the node.
	CanContainText bool
	// ContainsInlineContent is set when the node is rendered inline or its
	// content consists of inline boxes only.
	ContainsInlineContent bool
}

func (r *nodeReference) Node() dom.Node { return r.node }

func (r *nodeReference) Content() *dom.Content { return r.node.Document().Content() }

func (r *nodeReference) StartOffset() int { return r.node.StartOffset() }

func (r *nodeReference) EndOffset() int { return r.node.EndOffset() }

func (r *nodeReference) Range() dom.Range { return r.node.Range() }

func (r *nodeReference) IsEmpty() bool { return dom.IsEmpty(r.node) }

// endPlaceholder finds the placeholder of the referenced node below b.
func endPlaceholder(b Box, node dom.Node) *NodeEndOffsetPlaceholder {
	var found *NodeEndOffsetPlaceholder
	Walk(b, func(candidate Box) bool {
		if found != nil {
			return false
		}
		if p, ok := candidate.(*NodeEndOffsetPlaceholder); ok && p.node == node {
			found = p
			return false
		}
		return true
	})
	return found
}

// relativeArea translates the area of inner into the coordinates of outer.
func relativeArea(outer, inner Box, area geom.Rectangle) geom.Rectangle {
	return area.Translate(inner.AbsoluteLeft()-outer.AbsoluteLeft(), inner.AbsoluteTop()-outer.AbsoluteTop())
}

// StructuralNodeReference maps a block level node onto its visual
// representation.
type StructuralNodeReference struct {
	base
	nodeReference
	component StructuralBox
}

func NewStructuralNodeReference(node dom.Node, component StructuralBox) *StructuralNodeReference {
	r := &StructuralNodeReference{nodeReference: nodeReference{node: node}}
	if component != nil {
		r.SetComponent(component)
	}
	return r
}

func (r *StructuralNodeReference) SetWidth(width int) { r.width = max(0, width) }

func (r *StructuralNodeReference) Component() StructuralBox { return r.component }

func (r *StructuralNodeReference) SetComponent(component StructuralBox) {
	adopt(r, component)
	r.component = component
}

func (r *StructuralNodeReference) IsAtStart(offset int) bool { return offset == r.StartOffset() }

func (r *StructuralNodeReference) IsAtEnd(offset int) bool { return offset == r.EndOffset() }

func (r *StructuralNodeReference) Layout(g graphics.Graphics) {
	if r.component == nil {
		r.height = 0
		return
	}
	r.component.SetPosition(0, 0)
	r.component.SetWidth(r.width)
	r.component.Layout(g)
	r.height = r.component.Height()
}

func (r *StructuralNodeReference) ReconcileLayout(g graphics.Graphics) []Box {
	old := r.height
	if r.component != nil {
		r.height = r.component.Height()
	}
	return invalidateParentIf(r, old != r.height)
}

func (r *StructuralNodeReference) Paint(g graphics.Graphics) {
	if r.component != nil {
		paintChild(g, r.component)
	}
}

// PositionArea is a thin strip at the top for the start offset and at the
// bottom for the end offset, unless the node shows a placeholder for its
// end. Inner offsets map to the whole box.
func (r *StructuralNodeReference) PositionArea(g graphics.Graphics, offset int) geom.Rectangle {
	switch offset {
	case r.StartOffset():
		return geom.Rectangle{Width: r.width, Height: min(markerSize, r.height)}
	case r.EndOffset():
		if p := endPlaceholder(r.component, r.node); p != nil {
			return relativeArea(r, p, p.PositionArea(g, offset))
		}
		return geom.Rectangle{Y: max(0, r.height-markerSize), Width: r.width, Height: min(markerSize, r.height)}
	}
	return geom.Rectangle{Width: r.width, Height: r.height}
}

// OffsetForCoordinates is only used for references without nested content
// boxes: the upper half maps to the start, the lower half to the end.
func (r *StructuralNodeReference) OffsetForCoordinates(g graphics.Graphics, x, y int) int {
	if y < r.height/2 {
		return r.StartOffset()
	}
	return r.EndOffset()
}

func (r *StructuralNodeReference) ContainsCoordinates(x, y int) bool {
	return AbsoluteBounds(r).Contains(x, y)
}

func (r *StructuralNodeReference) IsLeftOf(x int) bool { return r.AbsoluteLeft()+r.width <= x }

func (r *StructuralNodeReference) IsRightOf(x int) bool { return r.AbsoluteLeft() > x }

func (r *StructuralNodeReference) IsAbove(y int) bool { return r.AbsoluteTop()+r.height <= y }

func (r *StructuralNodeReference) IsBelow(y int) bool { return r.AbsoluteTop() > y }

func (r *StructuralNodeReference) Highlight(g graphics.Graphics, foreground, background geom.Color) {
	g.SetColor(background)
	g.FillRect(0, 0, r.width, r.height)
	r.Paint(g)
}

func (r *StructuralNodeReference) Accept(v Visitor) { v.VisitStructuralNodeReference(r) }

// InlineNodeReference maps an inline node onto its visual representation.
// When line breaking splits the reference, only the first part contains
// the start of the node and only the last part contains its end.
type InlineNodeReference struct {
	base
	nodeReference
	component     InlineBox
	maxWidth      int
	containsStart bool
	containsEnd   bool
}

func NewInlineNodeReference(node dom.Node, component InlineBox) *InlineNodeReference {
	r := &InlineNodeReference{nodeReference: nodeReference{node: node}, containsStart: true, containsEnd: true}
	if component != nil {
		r.SetComponent(component)
	}
	return r
}

func (r *InlineNodeReference) Component() InlineBox { return r.component }

func (r *InlineNodeReference) SetComponent(component InlineBox) {
	adopt(r, component)
	r.component = component
}

func (r *InlineNodeReference) ContainsStart() bool { return r.containsStart }

func (r *InlineNodeReference) ContainsEnd() bool { return r.containsEnd }

func (r *InlineNodeReference) IsAtStart(offset int) bool {
	return r.containsStart && offset == r.StartOffset()
}

func (r *InlineNodeReference) IsAtEnd(offset int) bool {
	return r.containsEnd && offset == r.EndOffset()
}

func (r *InlineNodeReference) Baseline() int {
	if r.component == nil {
		return 0
	}
	return r.component.Top() + r.component.Baseline()
}

func (r *InlineNodeReference) MaxWidth() int { return r.maxWidth }

func (r *InlineNodeReference) SetMaxWidth(width int) { r.maxWidth = width }

func (r *InlineNodeReference) Layout(g graphics.Graphics) {
	if r.component == nil {
		r.width, r.height = 0, 0
		return
	}
	r.component.SetPosition(0, 0)
	r.component.SetMaxWidth(r.maxWidth)
	r.component.Layout(g)
	r.width = r.component.Width()
	r.height = r.component.Height()
}

func (r *InlineNodeReference) ReconcileLayout(g graphics.Graphics) []Box {
	oldWidth, oldHeight := r.width, r.height
	if r.component != nil {
		r.width = r.component.Width()
		r.height = r.component.Height()
	}
	return invalidateParentIf(r, oldWidth != r.width || oldHeight != r.height)
}

func (r *InlineNodeReference) Paint(g graphics.Graphics) {
	if r.component != nil {
		paintChild(g, r.component)
	}
}

func (r *InlineNodeReference) InvisibleGapAtStart(g graphics.Graphics) int {
	if r.component == nil {
		return 0
	}
	return r.component.InvisibleGapAtStart(g)
}

func (r *InlineNodeReference) InvisibleGapAtEnd(g graphics.Graphics) int {
	if r.component == nil {
		return 0
	}
	return r.component.InvisibleGapAtEnd(g)
}

func (r *InlineNodeReference) LineWrappingAtStart() geom.LineWrappingRule {
	if r.component == nil {
		return geom.WrapAllowed
	}
	return r.component.LineWrappingAtStart()
}

func (r *InlineNodeReference) LineWrappingAtEnd() geom.LineWrappingRule {
	if r.component == nil {
		return geom.WrapAllowed
	}
	return r.component.LineWrappingAtEnd()
}

func (r *InlineNodeReference) CanJoin(other InlineBox) bool {
	o, ok := other.(*InlineNodeReference)
	if !ok || o.node != r.node || r.containsEnd || o.containsStart {
		return false
	}
	if r.component == nil || o.component == nil {
		return true
	}
	return r.component.CanJoin(o.component)
}

func (r *InlineNodeReference) Join(other InlineBox) bool {
	if !r.CanJoin(other) {
		return false
	}
	o := other.(*InlineNodeReference)
	switch {
	case r.component == nil:
		if o.component != nil {
			c := o.component
			release(c)
			o.component = nil
			r.SetComponent(c)
		}
	case o.component != nil:
		r.component.Join(o.component)
		release(o.component)
		o.component = nil
	}
	r.containsEnd = o.containsEnd
	if r.component != nil {
		r.width = r.component.Width()
		r.height = r.component.Height()
	}
	return true
}

func (r *InlineNodeReference) CanSplit() bool {
	return r.component != nil && r.component.CanSplit()
}

func (r *InlineNodeReference) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox {
	if !r.CanSplit() {
		return nil
	}
	tailComponent := r.component.SplitTail(g, headWidth, force)
	if tailComponent == nil {
		return nil
	}
	tail := &InlineNodeReference{
		nodeReference: r.nodeReference,
		containsStart: false,
		containsEnd:   r.containsEnd,
	}
	r.containsEnd = false
	tail.SetComponent(tailComponent)
	tail.SetMaxWidth(r.maxWidth)
	tail.Layout(g)
	r.width = r.component.Width()
	r.height = r.component.Height()
	return tail
}

// PositionArea is a thin bar at the left edge for the start offset and at
// the right edge for the end offset.
func (r *InlineNodeReference) PositionArea(g graphics.Graphics, offset int) geom.Rectangle {
	switch {
	case r.IsAtStart(offset):
		return geom.Rectangle{Width: min(markerSize, r.width), Height: r.height}
	case r.IsAtEnd(offset):
		if p := endPlaceholder(r.component, r.node); p != nil {
			return relativeArea(r, p, p.PositionArea(g, offset))
		}
		return geom.Rectangle{X: max(0, r.width-markerSize), Width: min(markerSize, r.width), Height: r.height}
	}
	return geom.Rectangle{Width: r.width, Height: r.height}
}

func (r *InlineNodeReference) OffsetForCoordinates(g graphics.Graphics, x, y int) int {
	if x < r.width/2 {
		return r.StartOffset()
	}
	return r.EndOffset()
}

func (r *InlineNodeReference) ContainsCoordinates(x, y int) bool {
	return AbsoluteBounds(r).Contains(x, y)
}

func (r *InlineNodeReference) IsLeftOf(x int) bool { return r.AbsoluteLeft()+r.width <= x }

func (r *InlineNodeReference) IsRightOf(x int) bool { return r.AbsoluteLeft() > x }

func (r *InlineNodeReference) IsAbove(y int) bool { return r.AbsoluteTop()+r.height <= y }

func (r *InlineNodeReference) IsBelow(y int) bool { return r.AbsoluteTop() > y }

func (r *InlineNodeReference) Highlight(g graphics.Graphics, foreground, background geom.Color) {
	g.SetColor(background)
	g.FillRect(0, 0, r.width, r.height)
	r.Paint(g)
}

func (r *InlineNodeReference) Accept(v Visitor) { v.VisitInlineNodeReference(r) }

// NodeEndOffsetPlaceholder gives the end offset of a node a visible
// position when no text precedes it on the line, for example inside an
// empty element.
type NodeEndOffsetPlaceholder struct {
	base
	node     dom.Node
	maxWidth int
	baseline int

	Style TextStyle
}

func NewNodeEndOffsetPlaceholder(node dom.Node, style TextStyle) *NodeEndOffsetPlaceholder {
	return &NodeEndOffsetPlaceholder{node: node, Style: style}
}

func (p *NodeEndOffsetPlaceholder) Node() dom.Node { return p.node }

func (p *NodeEndOffsetPlaceholder) Content() *dom.Content { return p.node.Document().Content() }

func (p *NodeEndOffsetPlaceholder) StartOffset() int { return p.node.EndOffset() }

func (p *NodeEndOffsetPlaceholder) EndOffset() int { return p.node.EndOffset() }

func (p *NodeEndOffsetPlaceholder) Range() dom.Range {
	return dom.NewRange(p.node.EndOffset(), p.node.EndOffset())
}

// IsEmpty is always true: the placeholder shows no content.
func (p *NodeEndOffsetPlaceholder) IsEmpty() bool { return true }

func (p *NodeEndOffsetPlaceholder) IsAtStart(offset int) bool { return offset == p.StartOffset() }

func (p *NodeEndOffsetPlaceholder) IsAtEnd(offset int) bool { return offset == p.EndOffset() }

func (p *NodeEndOffsetPlaceholder) Baseline() int { return p.baseline }

func (p *NodeEndOffsetPlaceholder) MaxWidth() int { return p.maxWidth }

func (p *NodeEndOffsetPlaceholder) SetMaxWidth(width int) { p.maxWidth = width }

func (p *NodeEndOffsetPlaceholder) Layout(g graphics.Graphics) {
	m := p.Style.apply(g)
	p.width = 1
	p.height, p.baseline = p.Style.lineMetrics(m)
}

func (p *NodeEndOffsetPlaceholder) ReconcileLayout(g graphics.Graphics) []Box {
	old := p.height
	p.Layout(g)
	return invalidateParentIf(p, old != p.height)
}

func (p *NodeEndOffsetPlaceholder) Paint(g graphics.Graphics) {}

func (p *NodeEndOffsetPlaceholder) Accept(v Visitor) { v.VisitNodeEndOffsetPlaceholder(p) }

// The placeholder never causes a line to overflow.
func (p *NodeEndOffsetPlaceholder) InvisibleGapAtStart(g graphics.Graphics) int { return 0 }

func (p *NodeEndOffsetPlaceholder) InvisibleGapAtEnd(g graphics.Graphics) int { return p.width }

func (p *NodeEndOffsetPlaceholder) LineWrappingAtStart() geom.LineWrappingRule {
	return geom.WrapNotAllowed
}

func (p *NodeEndOffsetPlaceholder) LineWrappingAtEnd() geom.LineWrappingRule {
	return geom.WrapAllowed
}

func (p *NodeEndOffsetPlaceholder) CanJoin(other InlineBox) bool { return false }

func (p *NodeEndOffsetPlaceholder) Join(other InlineBox) bool { return false }

func (p *NodeEndOffsetPlaceholder) CanSplit() bool { return false }

func (p *NodeEndOffsetPlaceholder) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox {
	return nil
}

func (p *NodeEndOffsetPlaceholder) PositionArea(g graphics.Graphics, offset int) geom.Rectangle {
	return geom.Rectangle{Width: p.width, Height: p.height}
}

func (p *NodeEndOffsetPlaceholder) OffsetForCoordinates(g graphics.Graphics, x, y int) int {
	return p.EndOffset()
}

func (p *NodeEndOffsetPlaceholder) ContainsCoordinates(x, y int) bool {
	return AbsoluteBounds(p).Contains(x, y)
}

func (p *NodeEndOffsetPlaceholder) IsLeftOf(x int) bool { return p.AbsoluteLeft()+p.width <= x }

func (p *NodeEndOffsetPlaceholder) IsRightOf(x int) bool { return p.AbsoluteLeft() > x }

func (p *NodeEndOffsetPlaceholder) IsAbove(y int) bool { return p.AbsoluteTop()+p.height <= y }

func (p *NodeEndOffsetPlaceholder) IsBelow(y int) bool { return p.AbsoluteTop() > y }

func (p *NodeEndOffsetPlaceholder) Highlight(g graphics.Graphics, foreground, background geom.Color) {
	g.SetColor(background)
	g.FillRect(0, 0, p.width, p.height)
}
