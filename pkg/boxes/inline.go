package boxes

import (
	"vexlayout/pkg/geom"
	"vexlayout/pkg/graphics"
)

// InlineContainer arranges inline children side by side on a common
// baseline.
type InlineContainer struct {
	base
	children []InlineBox
	maxWidth int
	baseline int
}

func NewInlineContainer(children ...InlineBox) *InlineContainer {
	c := &InlineContainer{}
	for _, child := range children {
		c.AppendChild(child)
	}
	return c
}

func (c *InlineContainer) AppendChild(child InlineBox) {
	c.children = appendChild(c, c.children, child)
}

func (c *InlineContainer) PrependChild(child InlineBox) {
	c.children = prependChild(c, c.children, child)
}

func (c *InlineContainer) Children() []InlineBox { return c.children }

func (c *InlineContainer) HasChildren() bool { return len(c.children) > 0 }

func (c *InlineContainer) Baseline() int { return c.baseline }

func (c *InlineContainer) MaxWidth() int { return c.maxWidth }

func (c *InlineContainer) SetMaxWidth(width int) { c.maxWidth = width }

func (c *InlineContainer) Layout(g graphics.Graphics) {
	for _, child := range c.children {
		child.SetMaxWidth(c.maxWidth)
		child.Layout(g)
	}
	c.calculateBoundsAndBaseline()
	c.arrangeChildrenOnBaseline()
}

func (c *InlineContainer) calculateBoundsAndBaseline() {
	c.width, c.baseline = 0, 0
	descent := 0
	for _, child := range c.children {
		c.width += child.Width()
		descent = max(descent, child.Height()-child.Baseline())
		c.baseline = max(c.baseline, child.Baseline())
	}
	c.height = c.baseline + descent
}

func (c *InlineContainer) arrangeChildrenOnBaseline() {
	left := 0
	for _, child := range c.children {
		child.SetPosition(c.baseline-child.Baseline(), left)
		left += child.Width()
	}
}

func (c *InlineContainer) ReconcileLayout(g graphics.Graphics) []Box {
	oldWidth, oldHeight, oldBaseline := c.width, c.height, c.baseline
	c.calculateBoundsAndBaseline()
	c.arrangeChildrenOnBaseline()
	return invalidateParentIf(c, oldWidth != c.width || oldHeight != c.height || oldBaseline != c.baseline)
}

func (c *InlineContainer) Paint(g graphics.Graphics) { paintChildren(g, c.children) }

func (c *InlineContainer) Accept(v Visitor) { v.VisitInlineContainer(c) }

func (c *InlineContainer) InvisibleGapAtStart(g graphics.Graphics) int {
	if len(c.children) == 0 {
		return 0
	}
	return c.children[0].InvisibleGapAtStart(g)
}

func (c *InlineContainer) InvisibleGapAtEnd(g graphics.Graphics) int {
	if len(c.children) == 0 {
		return 0
	}
	return c.children[len(c.children)-1].InvisibleGapAtEnd(g)
}

func (c *InlineContainer) LineWrappingAtStart() geom.LineWrappingRule {
	if len(c.children) == 0 {
		return geom.WrapAllowed
	}
	return c.children[0].LineWrappingAtStart()
}

func (c *InlineContainer) LineWrappingAtEnd() geom.LineWrappingRule {
	if len(c.children) == 0 {
		return geom.WrapAllowed
	}
	return c.children[len(c.children)-1].LineWrappingAtEnd()
}

func (c *InlineContainer) CanJoin(other InlineBox) bool {
	_, ok := other.(*InlineContainer)
	return ok
}

// Join appends the children of other and joins the two children that
// meet at the seam if they allow it.
func (c *InlineContainer) Join(other InlineBox) bool {
	if !c.CanJoin(other) {
		return false
	}
	o := other.(*InlineContainer)
	seam := len(c.children) - 1
	o.children, c.children = moveChildren(o.children, 0, c, c.children)

	if seam >= 0 && seam < len(c.children)-1 {
		left, right := c.children[seam], c.children[seam+1]
		if left.Join(right) {
			c.children = removeChild(c.children, right)
		}
	}
	c.calculateBoundsAndBaseline()
	c.arrangeChildrenOnBaseline()
	return true
}

func (c *InlineContainer) CanSplit() bool { return len(c.children) > 0 }

func (c *InlineContainer) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox {
	splitIndex, inside := c.findRequiredBreak(g, headWidth)
	if splitIndex == -1 {
		splitIndex, inside = c.findChildIndexToSplitAt(headWidth), true
	}
	if splitIndex == -1 {
		return nil
	}
	splitChild := c.children[splitIndex]
	var splitChildTail InlineBox
	if inside && splitChild.CanSplit() {
		splitChildTail = splitChild.SplitTail(g, headWidth-splitChild.Left(), force && splitIndex == 0)
	}
	if splitChildTail == nil && splitIndex == 0 {
		return nil
	}

	tail := &InlineContainer{maxWidth: c.maxWidth}
	if splitChildTail == nil {
		c.children, tail.children = moveChildren(c.children, splitIndex, tail, tail.children)
	} else {
		tail.AppendChild(splitChildTail)
		c.children, tail.children = moveChildren(c.children, splitIndex+1, tail, tail.children)
	}

	c.calculateBoundsAndBaseline()
	c.arrangeChildrenOnBaseline()
	tail.calculateBoundsAndBaseline()
	tail.arrangeChildrenOnBaseline()
	return tail
}

// findRequiredBreak looks for a line break that the children demand
// before headWidth is reached. It returns the index of the child to split
// inside, or of the first child of the tail, or -1.
func (c *InlineContainer) findRequiredBreak(g graphics.Graphics, headWidth int) (int, bool) {
	for i, child := range c.children {
		if child.Left()+child.Width()-child.InvisibleGapAtEnd(g) > headWidth {
			return -1, false
		}
		if breaksInside(child) {
			return i, true
		}
		if child.LineWrappingAtEnd() == geom.WrapRequired && i+1 < len(c.children) {
			return i + 1, false
		}
	}
	return -1, false
}

func (c *InlineContainer) findChildIndexToSplitAt(headWidth int) int {
	for i, child := range c.children {
		if child.Left()+child.Width() > headWidth {
			return i
		}
	}
	return -1
}

// InlineFrame decorates a single inline component with margin, border,
// padding and background.
type InlineFrame struct {
	base
	component InlineBox
	maxWidth  int

	Margin          geom.Margin
	Border          geom.Border
	Padding         geom.Padding
	BackgroundColor *geom.Color
}

func NewInlineFrame(component InlineBox) *InlineFrame {
	f := &InlineFrame{}
	if component != nil {
		f.SetComponent(component)
	}
	return f
}

func (f *InlineFrame) Component() InlineBox { return f.component }

func (f *InlineFrame) SetComponent(component InlineBox) {
	adopt(f, component)
	f.component = component
}

func (f *InlineFrame) insets() geom.Insets {
	return geom.FrameInsets(f.Margin, f.Border, f.Padding, f.maxWidth)
}

func (f *InlineFrame) Baseline() int {
	if f.component == nil {
		return 0
	}
	return f.component.Top() + f.component.Baseline()
}

func (f *InlineFrame) MaxWidth() int { return f.maxWidth }

func (f *InlineFrame) SetMaxWidth(width int) { f.maxWidth = width }

func (f *InlineFrame) Layout(g graphics.Graphics) {
	if f.component == nil {
		f.width, f.height = 0, 0
		return
	}
	insets := f.insets()
	f.component.SetMaxWidth(f.maxWidth - insets.Horizontal())
	f.component.Layout(g)
	f.component.SetPosition(insets.Top, insets.Left)
	f.calculateBounds()
}

func (f *InlineFrame) calculateBounds() {
	if f.component == nil || f.component.Width() == 0 || f.component.Height() == 0 {
		f.width, f.height = 0, 0
		return
	}
	insets := f.insets()
	f.width = insets.Horizontal() + f.component.Width()
	f.height = insets.Vertical() + f.component.Height()
}

func (f *InlineFrame) ReconcileLayout(g graphics.Graphics) []Box {
	oldWidth, oldHeight := f.width, f.height
	f.calculateBounds()
	return invalidateParentIf(f, oldWidth != f.width || oldHeight != f.height)
}

func (f *InlineFrame) Paint(g graphics.Graphics) {
	if f.component == nil {
		return
	}
	paintDecoration(g, f.width, f.height, f.Margin, f.Border, f.maxWidth, f.BackgroundColor)
	paintChild(g, f.component)
}

func (f *InlineFrame) Accept(v Visitor) { v.VisitInlineFrame(f) }

func (f *InlineFrame) InvisibleGapAtStart(g graphics.Graphics) int {
	if f.component == nil {
		return 0
	}
	return f.component.InvisibleGapAtStart(g)
}

func (f *InlineFrame) InvisibleGapAtEnd(g graphics.Graphics) int {
	if f.component == nil {
		return 0
	}
	return f.component.InvisibleGapAtEnd(g)
}

func (f *InlineFrame) LineWrappingAtStart() geom.LineWrappingRule {
	if f.component == nil {
		return geom.WrapAllowed
	}
	return f.component.LineWrappingAtStart()
}

func (f *InlineFrame) LineWrappingAtEnd() geom.LineWrappingRule {
	if f.component == nil {
		return geom.WrapAllowed
	}
	return f.component.LineWrappingAtEnd()
}

func (f *InlineFrame) CanJoin(other InlineBox) bool {
	o, ok := other.(*InlineFrame)
	if !ok {
		return false
	}
	if f.Margin != o.Margin || f.Border != o.Border || f.Padding != o.Padding {
		return false
	}
	if (f.BackgroundColor == nil) != (o.BackgroundColor == nil) {
		return false
	}
	if f.BackgroundColor != nil && *f.BackgroundColor != *o.BackgroundColor {
		return false
	}
	if f.component == nil || o.component == nil {
		return true
	}
	return f.component.CanJoin(o.component)
}

func (f *InlineFrame) Join(other InlineBox) bool {
	if !f.CanJoin(other) {
		return false
	}
	o := other.(*InlineFrame)
	switch {
	case f.component == nil:
		if o.component != nil {
			c := o.component
			release(c)
			o.component = nil
			f.SetComponent(c)
		}
	case o.component != nil:
		f.component.Join(o.component)
		release(o.component)
		o.component = nil
	}
	f.calculateBounds()
	return true
}

func (f *InlineFrame) CanSplit() bool {
	return f.component != nil && f.component.CanSplit()
}

// SplitTail splits the component within the space left by the frame. If
// not even the leading edge of the frame fits, only a forced split is
// attempted.
func (f *InlineFrame) SplitTail(g graphics.Graphics, headWidth int, force bool) InlineBox {
	if !f.CanSplit() {
		return nil
	}
	componentHeadWidth := headWidth - f.insets().Left
	if componentHeadWidth < 0 {
		if !force {
			return nil
		}
		componentHeadWidth = 0
	}
	tailComponent := f.component.SplitTail(g, componentHeadWidth, force)
	if tailComponent == nil {
		return nil
	}

	tail := &InlineFrame{
		maxWidth:        f.maxWidth,
		Margin:          f.Margin,
		Border:          f.Border,
		Padding:         f.Padding,
		BackgroundColor: f.BackgroundColor,
	}
	tail.SetComponent(tailComponent)
	tail.Layout(g)
	f.calculateBounds()
	return tail
}
