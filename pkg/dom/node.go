package dom

import "strings"

// Node is one of the closed set of document node kinds: *Document,
// *Element, *Text, *Comment, *ProcessingInstruction and *IncludeNode.
type Node interface {
	// Parent returns nil for the document and for detached nodes.
	Parent() Node
	Document() *Document
	StartOffset() int
	EndOffset() int
	Range() Range
	// Text returns the textual content between the node's own markers.
	Text() string
	Accept(v NodeVisitor)

	node()
}

// ParentNode is implemented by nodes that hold other nodes.
type ParentNode interface {
	Node
	// ChildNodes returns the structural children, no text.
	ChildNodes() []Node
	// Children returns the children in document order, with the text
	// between structural children exposed as *Text nodes.
	Children() []Node
}

type container interface {
	Node
	childList() *[]Node
}

type nodeBase struct {
	parent Node
	doc    *Document
	start  *Position
	end    *Position
}

func (n *nodeBase) node() {}

func (n *nodeBase) Parent() Node {
	return n.parent
}

func (n *nodeBase) Document() *Document {
	return n.doc
}

func (n *nodeBase) StartOffset() int {
	return n.start.Offset()
}

func (n *nodeBase) EndOffset() int {
	return n.end.Offset()
}

func (n *nodeBase) Range() Range {
	return NewRange(n.StartOffset(), n.EndOffset())
}

// IsEmpty reports whether nothing lies between the node's two markers.
func (n *nodeBase) IsEmpty() bool {
	return n.EndOffset()-n.StartOffset() == 1
}

func (n *nodeBase) innerText() string {
	if n.doc == nil || n.EndOffset()-n.StartOffset() < 2 {
		return ""
	}
	return n.doc.content.Text(NewRange(n.StartOffset()+1, n.EndOffset()-1))
}

// Attribute is a single name/value pair; element attributes keep their
// document order.
type Attribute struct {
	Name  string
	Value string
}

type Element struct {
	nodeBase
	name       string
	attributes []Attribute
	children   []Node
}

// Name returns the qualified name, including a prefix when present.
func (e *Element) Name() string {
	return e.name
}

func (e *Element) LocalName() string {
	if _, local, ok := strings.Cut(e.name, ":"); ok {
		return local
	}
	return e.name
}

func (e *Element) Prefix() string {
	if prefix, _, ok := strings.Cut(e.name, ":"); ok {
		return prefix
	}
	return ""
}

func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) Attributes() []Attribute {
	return append([]Attribute(nil), e.attributes...)
}

func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.attributes {
		if a.Name == name {
			e.attributes[i].Value = value
			return
		}
	}
	e.attributes = append(e.attributes, Attribute{Name: name, Value: value})
}

func (e *Element) Text() string { return e.innerText() }

func (e *Element) Accept(v NodeVisitor) { v.VisitElement(e) }

func (e *Element) childList() *[]Node { return &e.children }

func (e *Element) ChildNodes() []Node {
	return append([]Node(nil), e.children...)
}

func (e *Element) Children() []Node {
	return withText(e, e.children)
}

// ParentElement returns the closest ancestor element, or nil below the root.
func (e *Element) ParentElement() *Element {
	for p := e.parent; p != nil; p = p.Parent() {
		if el, ok := p.(*Element); ok {
			return el
		}
	}
	return nil
}

// Text is a run of characters between structural siblings. Text nodes are
// derived on demand and are snapshots: their offsets do not follow edits.
type Text struct {
	parent Node
	doc    *Document
	r      Range
}

func (t *Text) node()               {}
func (t *Text) Parent() Node        { return t.parent }
func (t *Text) Document() *Document { return t.doc }
func (t *Text) StartOffset() int    { return t.r.Start }
func (t *Text) EndOffset() int      { return t.r.End }
func (t *Text) Range() Range        { return t.r }
func (t *Text) Text() string        { return t.doc.content.Text(t.r) }
func (t *Text) Accept(v NodeVisitor) {
	v.VisitText(t)
}

type Comment struct {
	nodeBase
}

func (c *Comment) Text() string         { return c.innerText() }
func (c *Comment) Accept(v NodeVisitor) { v.VisitComment(c) }

type ProcessingInstruction struct {
	nodeBase
	target string
}

func (pi *ProcessingInstruction) Target() string       { return pi.target }
func (pi *ProcessingInstruction) Text() string         { return pi.innerText() }
func (pi *ProcessingInstruction) Accept(v NodeVisitor) { v.VisitProcessingInstruction(pi) }

// IncludeNode stands for an external inclusion (xi:include). It has no
// editable content of its own.
type IncludeNode struct {
	nodeBase
	reference *Element
}

// Reference returns the xi:include element the node was read from. It
// occupies the same offsets as the node but is not part of the tree, so
// styles resolve against it while the content stays untouched.
func (i *IncludeNode) Reference() *Element {
	i.reference.nodeBase = i.nodeBase
	return i.reference
}

func (i *IncludeNode) Href() string {
	href, _ := i.reference.Attribute("href")
	return href
}

func (i *IncludeNode) Text() string         { return "" }
func (i *IncludeNode) Accept(v NodeVisitor) { v.VisitInclude(i) }

func withText(p Node, childNodes []Node) []Node {
	doc := p.Document()
	var result []Node
	next := p.StartOffset() + 1
	for _, child := range childNodes {
		if child.StartOffset() > next {
			result = append(result, &Text{parent: p, doc: doc, r: NewRange(next, child.StartOffset()-1)})
		}
		result = append(result, child)
		next = child.EndOffset() + 1
	}
	if p.EndOffset() > next {
		result = append(result, &Text{parent: p, doc: doc, r: NewRange(next, p.EndOffset()-1)})
	}
	return result
}

// Ancestors returns the chain of parents of n, nearest first.
func Ancestors(n Node) []Node {
	var result []Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		result = append(result, p)
	}
	return result
}

// ChildAt returns the child of p (text included) that covers offset, or nil.
func ChildAt(p ParentNode, offset int) Node {
	for _, child := range p.Children() {
		if child.Range().Contains(offset) {
			return child
		}
	}
	return nil
}

// IsEmpty reports whether n has nothing between its markers. Text nodes are
// never empty.
func IsEmpty(n Node) bool {
	if _, ok := n.(*Text); ok {
		return false
	}
	return n.EndOffset()-n.StartOffset() == 1
}

// NodeVisitor dispatches over the node kinds.
type NodeVisitor interface {
	VisitDocument(d *Document)
	VisitElement(e *Element)
	VisitText(t *Text)
	VisitComment(c *Comment)
	VisitProcessingInstruction(pi *ProcessingInstruction)
	VisitInclude(i *IncludeNode)
}

// BaseNodeVisitor ignores every node; embed it to handle only some kinds.
type BaseNodeVisitor struct{}

func (BaseNodeVisitor) VisitDocument(*Document)                            {}
func (BaseNodeVisitor) VisitElement(*Element)                              {}
func (BaseNodeVisitor) VisitText(*Text)                                    {}
func (BaseNodeVisitor) VisitComment(*Comment)                              {}
func (BaseNodeVisitor) VisitProcessingInstruction(*ProcessingInstruction) {}
func (BaseNodeVisitor) VisitInclude(*IncludeNode)                          {}

// StartMarker is the label an editor shows for the start of n.
func StartMarker(n Node) string {
	switch n := n.(type) {
	case *Document:
		return "DOCUMENT"
	case *Element:
		return "<" + n.Name() + "..."
	case *Comment:
		return "<!--"
	case *ProcessingInstruction:
		return "<?" + n.Target() + "..."
	case *IncludeNode:
		return "<xi:include..."
	}
	return ""
}

// EndMarker is the label an editor shows for the end of n.
func EndMarker(n Node) string {
	switch n := n.(type) {
	case *Document:
		return "DOCUMENT"
	case *Element:
		return "</" + n.Name() + ">"
	case *Comment:
		return "-->"
	case *ProcessingInstruction:
		return "?>"
	case *IncludeNode:
		return "/>"
	}
	return ""
}
