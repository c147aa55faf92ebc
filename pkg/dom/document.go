package dom

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidOffset is returned for offsets outside the editable content.
	ErrInvalidOffset = errors.New("dom: invalid offset")
	// ErrNotInsertable is returned when the node at the offset cannot take
	// the requested content.
	ErrNotInsertable = errors.New("dom: cannot insert here")
	// ErrInvalidRange is returned for ranges that would cut through a node
	// boundary.
	ErrInvalidRange = errors.New("dom: range is not balanced")
)

type ChangeKind int

const (
	TextInserted ChangeKind = iota
	NodeInserted
	ContentRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case TextInserted:
		return "text-inserted"
	case NodeInserted:
		return "node-inserted"
	default:
		return "content-removed"
	}
}

// Change describes one edit. Parent is the node whose content changed and
// Range the affected offsets as they were at the time of the edit.
type Change struct {
	Kind   ChangeKind
	Parent Node
	Range  Range
	Node   Node
}

// Document owns the content buffer and the node tree. The document itself
// spans the whole content: a start marker at 0, the root element, and an
// end marker at the last offset.
type Document struct {
	nodeBase
	content   *Content
	children  []Node
	root      *Element
	validator Validator
	listeners []func(Change)
}

// NewDocument creates a document whose root element has the given name.
func NewDocument(rootName string) *Document {
	d := &Document{content: NewContent()}
	d.doc = d
	d.content.InsertTagMarker(0)
	d.content.InsertTagMarker(1)
	d.start = d.content.CreatePosition(0)
	d.end = d.content.CreatePosition(1)

	root := &Element{name: rootName}
	d.attach(d, root, 1)
	d.root = root
	return d
}

func (d *Document) Content() *Content { return d.content }

func (d *Document) RootElement() *Element { return d.root }

func (d *Document) Length() int { return d.content.Length() }

func (d *Document) Text() string { return d.root.Text() }

func (d *Document) Accept(v NodeVisitor) { v.VisitDocument(d) }

func (d *Document) childList() *[]Node { return &d.children }

func (d *Document) ChildNodes() []Node {
	return append([]Node(nil), d.children...)
}

func (d *Document) Children() []Node {
	return d.ChildNodes()
}

// TextIn returns the text of r without node markers.
func (d *Document) TextIn(r Range) string {
	return d.content.Text(r.TrimTo(d.Range()))
}

func (d *Document) SetValidator(v Validator) { d.validator = v }

func (d *Document) Validator() Validator { return d.validator }

// AddChangeListener registers fn to be called after every edit.
func (d *Document) AddChangeListener(fn func(Change)) {
	d.listeners = append(d.listeners, fn)
}

func (d *Document) fire(c Change) {
	for _, fn := range d.listeners {
		fn(c)
	}
}

// NodeForInsertionAt returns the deepest node n with
// n.StartOffset() < offset <= n.EndOffset(): the node that would receive
// content inserted at offset.
func (d *Document) NodeForInsertionAt(offset int) Node {
	if offset <= 0 || offset >= d.Length() {
		return nil
	}
	var current Node = d
	for {
		c, ok := current.(container)
		if !ok {
			return current
		}
		var next Node
		for _, child := range *c.childList() {
			if child.StartOffset() < offset && offset <= child.EndOffset() {
				next = child
				break
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
}

// ElementForInsertionAt is NodeForInsertionAt restricted to elements.
func (d *Document) ElementForInsertionAt(offset int) *Element {
	for n := d.NodeForInsertionAt(offset); n != nil; n = n.Parent() {
		if el, ok := n.(*Element); ok {
			return el
		}
	}
	return nil
}

// NodeAt returns the innermost node covering offset, text nodes included.
func (d *Document) NodeAt(offset int) Node {
	if offset < 0 || offset >= d.Length() {
		return nil
	}
	var current Node = d
	for {
		p, ok := current.(ParentNode)
		if !ok {
			return current
		}
		next := ChildAt(p, offset)
		if next == nil {
			return current
		}
		current = next
	}
}

func (d *Document) attach(parent container, n Node, offset int) {
	d.content.InsertTagMarker(offset)
	d.content.InsertTagMarker(offset + 1)
	base := baseOf(n)
	base.parent = parent
	base.doc = d
	base.start = d.content.CreatePosition(offset)
	base.end = d.content.CreatePosition(offset + 1)

	children := parent.childList()
	i := slices.IndexFunc(*children, func(child Node) bool { return child.StartOffset() > offset })
	if i < 0 {
		*children = append(*children, n)
	} else {
		*children = slices.Insert(*children, i, n)
	}
}

func baseOf(n Node) *nodeBase {
	switch n := n.(type) {
	case *Element:
		return &n.nodeBase
	case *Comment:
		return &n.nodeBase
	case *ProcessingInstruction:
		return &n.nodeBase
	case *IncludeNode:
		return &n.nodeBase
	}
	panic(fmt.Sprintf("dom: %T cannot be attached", n))
}

// CanInsertElement reports whether an element called name may be inserted
// at offset.
func (d *Document) CanInsertElement(offset int, name string) bool {
	parent, ok := d.NodeForInsertionAt(offset).(*Element)
	if !ok {
		return false
	}
	if d.validator == nil {
		return true
	}
	return slices.Contains(d.validator.ValidItems(parent), name)
}

// CanInsertText reports whether text may be inserted at offset.
func (d *Document) CanInsertText(offset int) bool {
	switch parent := d.NodeForInsertionAt(offset).(type) {
	case *Element:
		return CanContainText(d.validator, parent)
	case *Comment, *ProcessingInstruction:
		return true
	}
	return false
}

// InsertElement inserts an empty element at offset. The new element starts
// at offset; everything at or after offset moves two offsets further.
func (d *Document) InsertElement(offset int, name string) (*Element, error) {
	if offset <= 0 || offset >= d.Length() {
		return nil, fmt.Errorf("insert element %q at %d: %w", name, offset, ErrInvalidOffset)
	}
	if !d.CanInsertElement(offset, name) {
		return nil, fmt.Errorf("insert element %q at %d: %w", name, offset, ErrNotInsertable)
	}
	parent := d.NodeForInsertionAt(offset).(*Element)
	el := &Element{name: name}
	d.attach(parent, el, offset)
	d.fire(Change{Kind: NodeInserted, Parent: parent, Range: el.Range(), Node: el})
	return el, nil
}

// InsertComment inserts an empty comment at offset.
func (d *Document) InsertComment(offset int) (*Comment, error) {
	parent, err := d.structuralParentAt(offset)
	if err != nil {
		return nil, fmt.Errorf("insert comment at %d: %w", offset, err)
	}
	c := &Comment{}
	d.attach(parent, c, offset)
	d.fire(Change{Kind: NodeInserted, Parent: parent, Range: c.Range(), Node: c})
	return c, nil
}

// InsertProcessingInstruction inserts an empty processing instruction.
func (d *Document) InsertProcessingInstruction(offset int, target string) (*ProcessingInstruction, error) {
	parent, err := d.structuralParentAt(offset)
	if err != nil {
		return nil, fmt.Errorf("insert processing instruction at %d: %w", offset, err)
	}
	pi := &ProcessingInstruction{target: target}
	d.attach(parent, pi, offset)
	d.fire(Change{Kind: NodeInserted, Parent: parent, Range: pi.Range(), Node: pi})
	return pi, nil
}

// InsertInclude inserts an inclusion reference.
func (d *Document) InsertInclude(offset int, href string) (*IncludeNode, error) {
	return d.insertInclude(offset, []Attribute{{Name: "href", Value: href}})
}

func (d *Document) insertInclude(offset int, attributes []Attribute) (*IncludeNode, error) {
	parent, err := d.structuralParentAt(offset)
	if err != nil {
		return nil, fmt.Errorf("insert include at %d: %w", offset, err)
	}
	if _, ok := parent.(*Document); ok {
		return nil, fmt.Errorf("insert include at %d: %w", offset, ErrNotInsertable)
	}
	inc := &IncludeNode{reference: &Element{name: IncludeElementName, attributes: attributes}}
	d.attach(parent, inc, offset)
	d.fire(Change{Kind: NodeInserted, Parent: parent, Range: inc.Range(), Node: inc})
	return inc, nil
}

func (d *Document) structuralParentAt(offset int) (container, error) {
	if offset <= 0 || offset >= d.Length() {
		return nil, ErrInvalidOffset
	}
	parent, ok := d.NodeForInsertionAt(offset).(container)
	if !ok {
		return nil, ErrNotInsertable
	}
	return parent, nil
}

// InsertText inserts text at offset.
func (d *Document) InsertText(offset int, text string) error {
	if offset <= 0 || offset >= d.Length() {
		return fmt.Errorf("insert text at %d: %w", offset, ErrInvalidOffset)
	}
	if !d.CanInsertText(offset) {
		return fmt.Errorf("insert text at %d: %w", offset, ErrNotInsertable)
	}
	if text == "" {
		return nil
	}
	parent := d.NodeForInsertionAt(offset)
	before := d.Length()
	d.content.InsertText(offset, text)
	inserted := d.Length() - before
	if inserted == 0 {
		return nil
	}
	d.fire(Change{Kind: TextInserted, Parent: parent, Range: NewRange(offset, offset+inserted-1)})
	return nil
}

// Delete removes the content of r. Every node touched by r must either lie
// completely inside r or completely contain it.
func (d *Document) Delete(r Range) error {
	if r.Start <= d.root.StartOffset() || r.End >= d.root.EndOffset() {
		return fmt.Errorf("delete %v: %w", r, ErrInvalidRange)
	}
	parent := d.commonParent(r)
	if parent == nil || !isBalanced(parent, r) {
		return fmt.Errorf("delete %v: %w", r, ErrInvalidRange)
	}
	if c, ok := parent.(container); ok {
		children := c.childList()
		*children = slices.DeleteFunc(*children, func(child Node) bool {
			if r.ContainsRange(child.Range()) {
				baseOf(child).parent = nil
				return true
			}
			return false
		})
	}
	d.content.Remove(r)
	d.fire(Change{Kind: ContentRemoved, Parent: parent, Range: r})
	return nil
}

// commonParent returns the deepest node whose inner content covers r.
func (d *Document) commonParent(r Range) Node {
	var current Node = d
	for {
		c, ok := current.(container)
		if !ok {
			return current
		}
		var next Node
		for _, child := range *c.childList() {
			if child.StartOffset() < r.Start && r.End < child.EndOffset() {
				next = child
				break
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
}

func isBalanced(parent Node, r Range) bool {
	c, ok := parent.(container)
	if !ok {
		return true
	}
	for _, child := range *c.childList() {
		cr := child.Range()
		if !cr.Intersects(r) || r.ContainsRange(cr) {
			continue
		}
		return false
	}
	return true
}

// FindElements returns all elements in document order for which match
// returns true.
func (d *Document) FindElements(match func(*Element) bool) []*Element {
	var result []*Element
	var walk func(n Node)
	walk = func(n Node) {
		if el, ok := n.(*Element); ok && match(el) {
			result = append(result, el)
		}
		if c, ok := n.(container); ok {
			for _, child := range *c.childList() {
				walk(child)
			}
		}
	}
	walk(d)
	return result
}
