package boxes

// Visitor dispatches over the closed set of box variants.
type Visitor interface {
	VisitRootBox(b *RootBox)
	VisitVerticalBlock(b *VerticalBlock)
	VisitStructuralFrame(b *StructuralFrame)
	VisitStructuralNodeReference(b *StructuralNodeReference)
	VisitHorizontalBar(b *HorizontalBar)
	VisitList(b *List)
	VisitListItem(b *ListItem)
	VisitParagraph(b *Paragraph)
	VisitTable(b *Table)
	VisitTableRowGroup(b *TableRowGroup)
	VisitTableColumnSpec(b *TableColumnSpec)
	VisitTableRow(b *TableRow)
	VisitTableCell(b *TableCell)
	VisitInlineContainer(b *InlineContainer)
	VisitInlineFrame(b *InlineFrame)
	VisitInlineNodeReference(b *InlineNodeReference)
	VisitTextContent(b *TextContent)
	VisitStaticText(b *StaticText)
	VisitNodeEndOffsetPlaceholder(b *NodeEndOffsetPlaceholder)
	VisitImage(b *Image)
	VisitSquare(b *Square)
}

// BaseVisitor ignores every box. Embed it to handle a subset of variants.
type BaseVisitor struct{}

func (BaseVisitor) VisitRootBox(*RootBox)                                   {}
func (BaseVisitor) VisitVerticalBlock(*VerticalBlock)                       {}
func (BaseVisitor) VisitStructuralFrame(*StructuralFrame)                   {}
func (BaseVisitor) VisitStructuralNodeReference(*StructuralNodeReference)   {}
func (BaseVisitor) VisitHorizontalBar(*HorizontalBar)                       {}
func (BaseVisitor) VisitList(*List)                                         {}
func (BaseVisitor) VisitListItem(*ListItem)                                 {}
func (BaseVisitor) VisitParagraph(*Paragraph)                               {}
func (BaseVisitor) VisitTable(*Table)                                       {}
func (BaseVisitor) VisitTableRowGroup(*TableRowGroup)                       {}
func (BaseVisitor) VisitTableColumnSpec(*TableColumnSpec)                   {}
func (BaseVisitor) VisitTableRow(*TableRow)                                 {}
func (BaseVisitor) VisitTableCell(*TableCell)                               {}
func (BaseVisitor) VisitInlineContainer(*InlineContainer)                   {}
func (BaseVisitor) VisitInlineFrame(*InlineFrame)                           {}
func (BaseVisitor) VisitInlineNodeReference(*InlineNodeReference)           {}
func (BaseVisitor) VisitTextContent(*TextContent)                           {}
func (BaseVisitor) VisitStaticText(*StaticText)                             {}
func (BaseVisitor) VisitNodeEndOffsetPlaceholder(*NodeEndOffsetPlaceholder) {}
func (BaseVisitor) VisitImage(*Image)                                       {}
func (BaseVisitor) VisitSquare(*Square)                                     {}

// Children returns the direct children of b in document order. Decorators
// report their component as their only child.
func Children(b Box) []Box {
	switch b := b.(type) {
	case *RootBox:
		return boxesOf(b.children)
	case *VerticalBlock:
		return boxesOf(b.children)
	case *StructuralFrame:
		return single(b.component)
	case *StructuralNodeReference:
		return single(b.component)
	case *List:
		return single(b.component)
	case *ListItem:
		var result []Box
		if b.bullet != nil {
			result = append(result, b.bullet)
		}
		return append(result, single(b.component)...)
	case *Paragraph:
		return boxesOf(b.children)
	case *Table:
		return boxesOf(b.children)
	case *TableRowGroup:
		return boxesOf(b.children)
	case *TableRow:
		return boxesOf(b.children)
	case *TableCell:
		return boxesOf(b.children)
	case *InlineContainer:
		return boxesOf(b.children)
	case *InlineFrame:
		return single(b.component)
	case *InlineNodeReference:
		return single(b.component)
	}
	return nil
}

func single[T Box](component T) []Box {
	var b Box = component
	if b == nil {
		return nil
	}
	return []Box{b}
}

// Walk visits b and its descendants depth-first in pre-order. Returning
// false from fn skips the children of the box just visited.
func Walk(b Box, fn func(Box) bool) {
	if b == nil || !fn(b) {
		return
	}
	for _, child := range Children(b) {
		Walk(child, fn)
	}
}

// FindFirst returns the first box in pre-order that satisfies match.
func FindFirst(b Box, match func(Box) bool) Box {
	var found Box
	Walk(b, func(candidate Box) bool {
		if found != nil {
			return false
		}
		if match(candidate) {
			found = candidate
			return false
		}
		return true
	})
	return found
}

// Ancestors returns the parents of b, nearest first.
func Ancestors(b Box) []Box {
	var result []Box
	for p := b.Parent(); p != nil; p = p.Parent() {
		result = append(result, p)
	}
	return result
}

// Depth returns the number of ancestors of b.
func Depth(b Box) int {
	depth := 0
	for p := b.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

// ReplaceChild puts replacement where old is in the children of its
// parent. It reports false if old has no parent that holds it.
func ReplaceChild(old, replacement Box) bool {
	switch p := old.Parent().(type) {
	case *RootBox:
		r, ok := replacement.(StructuralBox)
		return ok && replaceChild(p, p.children, old, r)
	case *VerticalBlock:
		r, ok := replacement.(StructuralBox)
		return ok && replaceChild(p, p.children, old, r)
	case *TableCell:
		r, ok := replacement.(StructuralBox)
		return ok && replaceChild(p, p.children, old, r)
	case *TableRowGroup:
		r, ok := replacement.(StructuralBox)
		return ok && replaceChild(p, p.children, old, r)
	case *TableRow:
		r, ok := replacement.(StructuralBox)
		return ok && replaceChild(p, p.children, old, r)
	case *Table:
		r, ok := replacement.(StructuralBox)
		return ok && replaceChild(p, p.children, old, r)
	case *Paragraph:
		r, ok := replacement.(InlineBox)
		return ok && replaceChild(p, p.children, old, r)
	case *InlineContainer:
		r, ok := replacement.(InlineBox)
		return ok && replaceChild(p, p.children, old, r)
	case *StructuralFrame:
		r, ok := replacement.(StructuralBox)
		if !ok || Box(p.component) != old {
			return false
		}
		release(old)
		p.SetComponent(r)
		return true
	case *StructuralNodeReference:
		r, ok := replacement.(StructuralBox)
		if !ok || Box(p.component) != old {
			return false
		}
		release(old)
		p.SetComponent(r)
		return true
	case *List:
		r, ok := replacement.(StructuralBox)
		if !ok || Box(p.component) != old {
			return false
		}
		release(old)
		p.SetComponent(r)
		return true
	case *ListItem:
		r, ok := replacement.(StructuralBox)
		if !ok || Box(p.component) != old {
			return false
		}
		release(old)
		p.SetComponent(r)
		return true
	case *InlineFrame:
		r, ok := replacement.(InlineBox)
		if !ok || Box(p.component) != old {
			return false
		}
		release(old)
		p.SetComponent(r)
		return true
	case *InlineNodeReference:
		r, ok := replacement.(InlineBox)
		if !ok || Box(p.component) != old {
			return false
		}
		release(old)
		p.SetComponent(r)
		return true
	}
	return false
}
