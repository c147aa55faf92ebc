package boxes

import (
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// RootBox is the top of a box tree. It stacks its children like a
// VerticalBlock and never has a parent.
type RootBox struct {
	base
	children []StructuralBox
}

func NewRootBox() *RootBox {
	return &RootBox{}
}

func (b *RootBox) SetWidth(width int) { b.width = max(0, width) }

func (b *RootBox) AppendChild(child StructuralBox) {
	b.children = appendChild(b, b.children, child)
}

func (b *RootBox) Children() []StructuralBox { return b.children }

func (b *RootBox) Layout(g graphics.Graphics) {
	b.height = stackChildren(g, b.children, b.width)
}

func (b *RootBox) ReconcileLayout(g graphics.Graphics) []Box {
	b.height = restackChildren(b.children)
	return nil
}

func (b *RootBox) Paint(g graphics.Graphics) { paintChildren(g, b.children) }

func (b *RootBox) Accept(v Visitor) { v.VisitRootBox(b) }

// VerticalBlock arranges its children in one column of its own width. Its
// height is the sum of the heights of the children.
type VerticalBlock struct {
	base
	children []StructuralBox
}

func NewVerticalBlock() *VerticalBlock {
	return &VerticalBlock{}
}

func (b *VerticalBlock) SetWidth(width int) { b.width = max(0, width) }

func (b *VerticalBlock) AppendChild(child StructuralBox) {
	b.children = appendChild(b, b.children, child)
}

func (b *VerticalBlock) PrependChild(child StructuralBox) {
	b.children = prependChild(b, b.children, child)
}

func (b *VerticalBlock) RemoveChild(child StructuralBox) {
	b.children = removeChild(b.children, child)
}

func (b *VerticalBlock) Children() []StructuralBox { return b.children }

func (b *VerticalBlock) HasChildren() bool { return len(b.children) > 0 }

func (b *VerticalBlock) Layout(g graphics.Graphics) {
	b.height = stackChildren(g, b.children, b.width)
}

func (b *VerticalBlock) ReconcileLayout(g graphics.Graphics) []Box {
	old := b.height
	b.height = restackChildren(b.children)
	return invalidateParentIf(b, old != b.height)
}

func (b *VerticalBlock) Paint(g graphics.Graphics) { paintChildren(g, b.children) }

func (b *VerticalBlock) Accept(v Visitor) { v.VisitVerticalBlock(b) }

func stackChildren[T StructuralBox](g graphics.Graphics, children []T, width int) int {
	height := 0
	for _, child := range children {
		child.SetPosition(height, 0)
		child.SetWidth(width)
		child.Layout(g)
		height += child.Height()
	}
	return height
}

// restackChildren repositions already laid out children.
func restackChildren[T Box](children []T) int {
	height := 0
	for _, child := range children {
		child.SetPosition(height, child.Left())
		height += child.Height()
	}
	return height
}

// StructuralFrame decorates a single structural component with margin,
// border, padding and background.
type StructuralFrame struct {
	base
	component StructuralBox

	Margin          geom.Margin
	Border          geom.Border
	Padding         geom.Padding
	BackgroundColor *geom.Color
}

func NewStructuralFrame(component StructuralBox) *StructuralFrame {
	f := &StructuralFrame{}
	if component != nil {
		f.SetComponent(component)
	}
	return f
}

func (f *StructuralFrame) SetWidth(width int) { f.width = max(0, width) }

func (f *StructuralFrame) Component() StructuralBox { return f.component }

func (f *StructuralFrame) SetComponent(component StructuralBox) {
	adopt(f, component)
	f.component = component
}

func (f *StructuralFrame) insets() geom.Insets {
	return geom.FrameInsets(f.Margin, f.Border, f.Padding, f.width)
}

func (f *StructuralFrame) Layout(g graphics.Graphics) {
	if f.component == nil {
		f.height = f.insets().Vertical()
		return
	}
	insets := f.insets()
	f.component.SetPosition(insets.Top, insets.Left)
	f.component.SetWidth(f.width - insets.Horizontal())
	f.component.Layout(g)
	f.height = insets.Vertical() + f.component.Height()
}

func (f *StructuralFrame) ReconcileLayout(g graphics.Graphics) []Box {
	old := f.height
	insets := f.insets()
	f.height = insets.Vertical()
	if f.component != nil {
		f.height += f.component.Height()
	}
	return invalidateParentIf(f, old != f.height)
}

func (f *StructuralFrame) Paint(g graphics.Graphics) {
	paintDecoration(g, f.width, f.height, f.Margin, f.Border, f.width, f.BackgroundColor)
	if f.component != nil {
		paintChild(g, f.component)
	}
}

func (f *StructuralFrame) Accept(v Visitor) { v.VisitStructuralFrame(f) }

// HorizontalBar is a rule of fixed height across the offered width.
type HorizontalBar struct {
	base
	Thickness int
	Color     geom.Color
}

func NewHorizontalBar(thickness int, color geom.Color) *HorizontalBar {
	return &HorizontalBar{Thickness: thickness, Color: color}
}

func (b *HorizontalBar) SetWidth(width int) { b.width = max(0, width) }

func (b *HorizontalBar) Layout(g graphics.Graphics) {
	b.height = b.Thickness
}

func (b *HorizontalBar) ReconcileLayout(g graphics.Graphics) []Box {
	old := b.height
	b.height = b.Thickness
	return invalidateParentIf(b, old != b.height)
}

func (b *HorizontalBar) Paint(g graphics.Graphics) {
	g.SetColor(b.Color)
	g.FillRect(0, 0, b.width, b.height)
}

func (b *HorizontalBar) Accept(v Visitor) { v.VisitHorizontalBar(b) }
