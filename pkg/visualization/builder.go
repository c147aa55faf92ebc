// Package visualization turns a document into a box tree, guided by the
// resolved styles of its nodes.
package visualization

import (
	"fmt"
	"log"

	"vexlayout/pkg/boxes"
	"vexlayout/pkg/css"
	"vexlayout/pkg/dom"
	"vexlayout/pkg/images"
)

// CSSBasedBuilder builds boxes from styles. Every node becomes a node
// reference around a frame around the content; runs of inline children of
// a block are collected into paragraphs.
type CSSBasedBuilder struct {
	Styles css.StyleLookup
	Images *images.Cache
	Logger *log.Logger
}

func NewCSSBasedBuilder(styles css.StyleLookup, cache *images.Cache) *CSSBasedBuilder {
	return &CSSBasedBuilder{Styles: styles, Images: cache}
}

// VisualizeRoot builds the box tree of the whole document of node.
func (b *CSSBasedBuilder) VisualizeRoot(node dom.Node) *boxes.RootBox {
	root := boxes.NewRootBox()
	root.AppendChild(b.asStructural(b.visualize(node.Document(), css.DisplayBlock)))
	return root
}

// VisualizeStructure builds the boxes of node as a block.
func (b *CSSBasedBuilder) VisualizeStructure(node dom.Node) boxes.StructuralBox {
	return b.asStructural(b.visualize(node, b.parentDisplay(node)))
}

// VisualizeInline builds the boxes of node as inline content.
func (b *CSSBasedBuilder) VisualizeInline(node dom.Node) boxes.InlineBox {
	return b.asInline(b.visualize(node, b.parentDisplay(node)))
}

func (b *CSSBasedBuilder) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// result is the outcome of the first pass: the classified node and its
// classified children. Boxes are built on demand, because only the parent
// knows whether a child is needed as block or as inline content.
type result struct {
	node     dom.Node
	styles   *css.Styles
	display  css.Display
	inline   bool
	children []*result
}

func (b *CSSBasedBuilder) parentDisplay(node dom.Node) css.Display {
	if node.Parent() == nil {
		return css.DisplayBlock
	}
	return b.Styles.Styles(node.Parent()).Display
}

func (b *CSSBasedBuilder) visualize(node dom.Node, parentDisplay css.Display) *result {
	styles := b.Styles.Styles(node)
	r := &result{node: node, styles: styles, display: effectiveDisplay(styles.Display, parentDisplay)}
	switch node.(type) {
	case *dom.Document:
		r.display = css.DisplayBlock
	case *dom.Text:
		r.display = css.DisplayInline
	}
	r.inline = r.display == css.DisplayInline
	if p, ok := node.(dom.ParentNode); ok && r.display != css.DisplayNone {
		for _, child := range p.Children() {
			childResult := b.visualize(child, r.display)
			if childResult.display != css.DisplayNone {
				r.children = append(r.children, childResult)
			}
		}
	}
	return r
}

// effectiveDisplay degrades table parts that are not inside the matching
// table structure to blocks.
func effectiveDisplay(display, parent css.Display) css.Display {
	switch display {
	case css.DisplayTableRowGroup, css.DisplayTableCaption:
		if parent == css.DisplayTable {
			return display
		}
	case css.DisplayTableRow:
		if parent == css.DisplayTable || parent == css.DisplayTableRowGroup {
			return display
		}
	case css.DisplayTableCell:
		if parent == css.DisplayTableRow {
			return display
		}
	case css.DisplayTableColumn:
		if parent == css.DisplayTable || parent == css.DisplayTableColumnGroup {
			return display
		}
	case css.DisplayTableColumnGroup:
		if parent == css.DisplayTable {
			return display
		}
	default:
		return display
	}
	return css.DisplayBlock
}

func containsInlineContent(results []*result) bool {
	for _, r := range results {
		if r.inline {
			return true
		}
	}
	return false
}

func isListRoot(r *result) bool {
	if r.styles.ListStyleType == css.ListStyleNone {
		return false
	}
	for _, child := range r.children {
		if child.display == css.DisplayListItem {
			return true
		}
	}
	return false
}

func mayContainText(node dom.Node) bool {
	switch n := node.(type) {
	case *dom.Element:
		return dom.CanContainText(n.Document().Validator(), n)
	case *dom.Comment, *dom.ProcessingInstruction:
		return true
	}
	return false
}

// isElementWithNoContentAllowed reports whether the schema forbids any
// content in an element that is indeed empty.
func isElementWithNoContentAllowed(element *dom.Element) bool {
	v := element.Document().Validator()
	return v != nil && len(v.ValidItems(element)) == 0 && dom.IsEmpty(element)
}

func (b *CSSBasedBuilder) asStructural(r *result) boxes.StructuralBox {
	if r.inline {
		return b.visualizeAsBlock(r)
	}
	switch r.display {
	case css.DisplayTable:
		table := boxes.NewTable()
		b.visualizeChildrenAsStructure(r, table)
		return b.wrapUp(r, table)
	case css.DisplayTableRowGroup:
		group := boxes.NewTableRowGroup()
		b.visualizeChildrenAsStructure(r, group)
		return b.wrapUp(r, group)
	case css.DisplayTableRow:
		row := boxes.NewTableRow()
		b.visualizeChildrenAsStructure(r, row)
		return b.wrapUp(r, row)
	case css.DisplayTableCell:
		cell := boxes.NewTableCell()
		cell.RowSpan, cell.ColSpan = r.styles.RowSpan, r.styles.ColSpan
		cell.AppendChild(b.visualizeStructuralContent(r))
		return b.wrapUp(r, cell)
	case css.DisplayTableColumn, css.DisplayTableColumnGroup:
		return b.wrapUp(r, boxes.NewTableColumnSpec())
	case css.DisplayListItem:
		return b.wrapUp(r, boxes.NewListItem(b.visualizeStructuralContent(r)))
	}
	if isListRoot(r) {
		return boxes.NewList(b.visualizeAsBlock(r), bulletStyle(r.styles))
	}
	return b.visualizeAsBlock(r)
}

func (b *CSSBasedBuilder) visualizeAsBlock(r *result) boxes.StructuralBox {
	switch n := r.node.(type) {
	case *dom.Document:
		block := boxes.NewVerticalBlock()
		b.visualizeChildrenAsStructure(r, block)
		return boxes.NewStructuralNodeReference(n, block)
	case *dom.Element:
		return b.wrapUp(r, b.visualizeStructuralContent(r))
	case *dom.Comment, *dom.ProcessingInstruction:
		p := newParagraph(r.styles)
		if dom.IsEmpty(n) {
			placeholderForEmptyNode(n, r.styles, p)
		} else {
			p.AppendChild(visualizeText(n.Document().Content(), innerRange(n), n, r.styles))
		}
		return b.wrapUp(r, p)
	case *dom.IncludeNode:
		p := newParagraph(r.styles)
		p.AppendChild(b.visualizeReference(n))
		return b.wrapUp(r, p)
	case *dom.Text:
		p := newParagraph(r.styles)
		p.AppendChild(b.asInline(r))
		return p
	}
	panic(fmt.Sprintf("visualization: unexpected node %T", r.node))
}

func (b *CSSBasedBuilder) visualizeStructuralContent(r *result) boxes.StructuralBox {
	element, ok := r.node.(*dom.Element)
	switch {
	case ok && isElementWithNoContentAllowed(element):
		p := newParagraph(r.styles)
		p.AppendChild(b.visualizeInlineWithNoContentAllowed(r))
		return p
	case dom.IsEmpty(r.node):
		return placeholderForEmptyNode(r.node, r.styles, newParagraph(r.styles))
	}
	block := boxes.NewVerticalBlock()
	b.visualizeChildrenAsStructure(r, block)
	return block
}

type structuralParent interface {
	AppendChild(child boxes.StructuralBox)
}

type inlineParent interface {
	AppendChild(child boxes.InlineBox)
	PrependChild(child boxes.InlineBox)
}

// visualizeChildrenAsStructure appends block children as they are and
// gathers runs of inline children into paragraphs.
func (b *CSSBasedBuilder) visualizeChildrenAsStructure(r *result, parent structuralParent) {
	var pending []*result
	flush := func() {
		if len(pending) == 0 {
			return
		}
		p := newParagraph(r.styles)
		for _, child := range pending {
			p.AppendChild(b.asInline(child))
		}
		parent.AppendChild(p)
		pending = nil
	}
	for _, child := range r.children {
		if child.inline {
			pending = append(pending, child)
			continue
		}
		flush()
		parent.AppendChild(b.asStructural(child))
	}
	flush()
}

// wrapUp puts the pseudo-elements around content, frames it and attaches
// it to its node.
func (b *CSSBasedBuilder) wrapUp(r *result, content boxes.StructuralBox) boxes.StructuralBox {
	content = b.surroundWithPseudoElements(r, content)
	content = structuralFrame(content, r.styles)
	ref := boxes.NewStructuralNodeReference(r.node, content)
	ref.CanContainText = mayContainText(r.node)
	ref.ContainsInlineContent = containsInlineContent(r.children)
	return ref
}

// surroundWithPseudoElements stacks ::before and ::after as paragraphs
// above and below the content of a block.
func (b *CSSBasedBuilder) surroundWithPseudoElements(r *result, content boxes.StructuralBox) boxes.StructuralBox {
	before := b.pseudoElementAsBlock(r, "before")
	after := b.pseudoElementAsBlock(r, "after")
	if before == nil && after == nil {
		return content
	}
	block := boxes.NewVerticalBlock()
	if before != nil {
		block.AppendChild(before)
	}
	block.AppendChild(content)
	if after != nil {
		block.AppendChild(after)
	}
	return block
}

func (b *CSSBasedBuilder) pseudoElementAsBlock(r *result, name string) boxes.StructuralBox {
	styles := r.styles.PseudoElement(name)
	if styles == nil {
		return nil
	}
	p := newParagraph(styles)
	b.visualizeContentProperty(r.node, styles, p)
	return structuralFrame(p, styles)
}

func (b *CSSBasedBuilder) pseudoElementInline(r *result, name string) boxes.InlineBox {
	styles := r.styles.PseudoElement(name)
	if styles == nil {
		return nil
	}
	c := boxes.NewInlineContainer()
	b.visualizeContentProperty(r.node, styles, c)
	return inlineFrame(c, styles)
}

func (b *CSSBasedBuilder) surroundWithInlinePseudoElements(r *result, parent inlineParent) {
	if before := b.pseudoElementInline(r, "before"); before != nil {
		parent.PrependChild(before)
	}
	if after := b.pseudoElementInline(r, "after"); after != nil {
		parent.AppendChild(after)
	}
}

// visualizeContentProperty appends the generated content of styles.
func (b *CSSBasedBuilder) visualizeContentProperty(node dom.Node, styles *css.Styles, parent inlineParent) {
	for _, part := range styles.Content {
		value := part.Resolve(node)
		if part.Kind != css.ContentURI {
			parent.AppendChild(boxes.NewStaticText(value, textStyle(styles)))
			continue
		}
		if b.Images == nil {
			continue
		}
		img, err := b.Images.Load(value)
		if err != nil {
			b.logf("visualization: %v", err)
			parent.AppendChild(boxes.NewStaticText(err.Error(), textStyle(styles)))
			continue
		}
		parent.AppendChild(boxes.NewImage(img))
	}
}

func (b *CSSBasedBuilder) visualizeInlineWithNoContentAllowed(r *result) boxes.InlineBox {
	if !r.styles.IsContentDefined() {
		return nodeTag(r.node, r.styles)
	}
	c := boxes.NewInlineContainer()
	b.visualizeContentProperty(r.node, r.styles, c)
	return c
}

func (b *CSSBasedBuilder) asInline(r *result) boxes.InlineBox {
	switch n := r.node.(type) {
	case *dom.Text:
		return visualizeText(n.Document().Content(), n.Range(), n.Parent(), r.styles)
	case *dom.Element:
		c := boxes.NewInlineContainer()
		if isElementWithNoContentAllowed(n) {
			c.AppendChild(b.visualizeInlineWithNoContentAllowed(r))
			b.surroundWithInlinePseudoElements(r, c)
			return b.inlineReference(r, c)
		}
		b.visualizeContentProperty(n, r.styles, c)
		if len(r.children) == 0 {
			placeholderForEmptyNode(n, r.styles, c)
		}
		for _, child := range r.children {
			c.AppendChild(b.asInline(child))
		}
		b.surroundWithInlinePseudoElements(r, c)
		if r.styles.InlineMarker {
			style := textStyle(r.styles)
			c.PrependChild(boxes.NewStaticText("<"+n.Name()+">", style))
			c.AppendChild(boxes.NewStaticText("</"+n.Name()+">", style))
		}
		return b.inlineReference(r, c)
	case *dom.Comment, *dom.ProcessingInstruction:
		c := boxes.NewInlineContainer()
		if dom.IsEmpty(n) {
			placeholderForEmptyNode(n, r.styles, c)
		} else {
			c.AppendChild(visualizeText(n.Document().Content(), innerRange(n), n, r.styles))
		}
		b.surroundWithInlinePseudoElements(r, c)
		return b.inlineReference(r, c)
	case *dom.IncludeNode:
		return b.inlineReference(r, boxes.NewInlineContainer(b.visualizeReference(n)))
	}
	// A document cannot be inline; show its root element instead.
	return b.asInline(b.visualize(r.node.Document().RootElement(), css.DisplayInline))
}

func (b *CSSBasedBuilder) inlineReference(r *result, content boxes.InlineBox) boxes.InlineBox {
	ref := boxes.NewInlineNodeReference(r.node, inlineFrame(content, r.styles))
	ref.CanContainText = mayContainText(r.node)
	ref.ContainsInlineContent = true
	return ref
}

// visualizeText shows normal text as one box. Preformatted text gets one
// box per line, each requiring a break after its line break, and a
// placeholder when it ends its node with a line break so that the empty
// last line can take the caret.
func visualizeText(content *dom.Content, r dom.Range, parent dom.Node, styles *css.Styles) boxes.InlineBox {
	style := textStyle(styles)
	if styles.WhiteSpace != css.WhiteSpacePre {
		return boxes.NewTextContent(content, r, style)
	}
	lines := boxes.NewInlineContainer()
	for _, line := range content.MultilineRanges(r) {
		lines.AppendChild(boxes.NewTextContent(content, line, style))
	}
	if parent != nil && r.End == parent.EndOffset()-1 && content.IsLineBreak(r.End) {
		lines.AppendChild(boxes.NewNodeEndOffsetPlaceholder(parent, style))
	}
	return lines
}

func placeholderForEmptyNode[P inlineParent](node dom.Node, styles *css.Styles, parent P) P {
	parent.AppendChild(boxes.NewNodeEndOffsetPlaceholder(node, textStyle(styles)))
	return parent
}

func innerRange(n dom.Node) dom.Range {
	return dom.NewRange(n.StartOffset()+1, n.EndOffset()-1)
}

func nodeTag(node dom.Node, styles *css.Styles) boxes.InlineBox {
	label := dom.StartMarker(node)
	if el, ok := node.(*dom.Element); ok {
		label = "<" + el.Name() + "/>"
	}
	return boxes.NewStaticText(label, textStyle(styles))
}

// visualizeReference shows the element an include was read from, styled
// by its own rules. Without generated content it shows the include tag.
// The reference element only yields static boxes; the include's node
// reference owns the offsets.
func (b *CSSBasedBuilder) visualizeReference(n *dom.IncludeNode) boxes.InlineBox {
	r := b.visualize(n.Reference(), css.DisplayInline)
	c := boxes.NewInlineContainer()
	if r.styles.IsContentDefined() {
		b.visualizeContentProperty(r.node, r.styles, c)
	} else {
		c.AppendChild(boxes.NewStaticText(includeTag(n), textStyle(r.styles)))
	}
	b.surroundWithInlinePseudoElements(r, c)
	return inlineFrame(c, r.styles)
}

func includeTag(n *dom.IncludeNode) string {
	return fmt.Sprintf("<xi:include href=%q/>", n.Href())
}
