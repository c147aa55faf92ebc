package cursor

import "vexlayout/pkg/dom"

// BalancingSelector keeps a selection between a fixed mark and a moving
// end balanced: a node is either selected with both of its boundaries or
// not at all.
//
// The mark always snaps outward. The moving end snaps outward while the
// selection grows or crosses the mark, and inward while it shrinks, so
// that moving back over a boundary deselects the node again.
type BalancingSelector struct {
	doc *dom.Document

	mark int
	end  int

	start, stop int // balanced bounds, start <= stop
	caret       int
}

func NewBalancingSelector(doc *dom.Document) *BalancingSelector {
	s := &BalancingSelector{}
	s.SetDocument(doc)
	return s
}

func (s *BalancingSelector) SetDocument(doc *dom.Document) {
	s.doc = doc
	s.SetMark(0)
}

// SetMark starts a new selection at offset.
func (s *BalancingSelector) SetMark(offset int) {
	s.mark, s.end = offset, offset
	s.start, s.stop, s.caret = offset, offset, offset
}

// MoveEndTo moves the end of the selection to offset, snapping depending
// on the direction of the movement.
func (s *BalancingSelector) MoveEndTo(offset int) {
	outward := s.isGrowing(offset) || s.isCrossing(offset)
	s.balance(offset, outward)
}

// SetEndAbsoluteTo moves the end of the selection to offset, always
// snapping outward.
func (s *BalancingSelector) SetEndAbsoluteTo(offset int) {
	s.balance(offset, true)
}

func (s *BalancingSelector) isGrowing(offset int) bool {
	before, after := s.end-s.mark, offset-s.mark
	return before >= 0 && after > before || before <= 0 && after < before
}

func (s *BalancingSelector) isCrossing(offset int) bool {
	return s.end < s.mark && offset > s.mark || s.end > s.mark && offset < s.mark
}

func (s *BalancingSelector) balance(offset int, outward bool) {
	if offset == s.mark || s.doc == nil {
		s.end = offset
		s.start, s.stop, s.caret = offset, offset, offset
		return
	}
	lo, hi := min(s.mark, offset), max(s.mark, offset)
	ancestor := commonAncestor(s.insertionParent(lo), s.insertionParent(hi))
	markIsLow := s.mark == lo

	if child := childContaining(ancestor, lo); child != nil && (markIsLow || outward) {
		lo = child.StartOffset()
	} else if child != nil {
		lo = child.EndOffset() + 1
	}
	if child := childContaining(ancestor, hi); child != nil && (!markIsLow || outward) {
		hi = child.EndOffset() + 1
	} else if child != nil {
		hi = child.StartOffset()
	}
	if lo > hi {
		lo = hi
	}

	s.start, s.stop = lo, hi
	if markIsLow {
		s.caret = hi
	} else {
		s.caret = lo
	}
	s.end = s.caret
}

// insertionParent is the node that content inserted at offset goes into.
func (s *BalancingSelector) insertionParent(offset int) dom.Node {
	if n := s.doc.NodeForInsertionAt(offset); n != nil {
		return n
	}
	return s.doc
}

func commonAncestor(a, b dom.Node) dom.Node {
	seen := make(map[dom.Node]bool)
	for n := a; n != nil; n = n.Parent() {
		seen[n] = true
	}
	for n := b; n != nil; n = n.Parent() {
		if seen[n] {
			return n
		}
	}
	return a.Document()
}

// childContaining returns the structural child of parent that offset
// falls into, counting the position right after its end marker as outside.
func childContaining(parent dom.Node, offset int) dom.Node {
	p, ok := parent.(dom.ParentNode)
	if !ok {
		return nil
	}
	for _, child := range p.ChildNodes() {
		if child.StartOffset() < offset && offset <= child.EndOffset() {
			return child
		}
	}
	return nil
}

// Range returns the selected content. It is only meaningful while the
// selector is active.
func (s *BalancingSelector) Range() dom.Range {
	return dom.NewRange(s.start, max(s.start, s.stop-1))
}

// StartOffset is the lower balanced bound.
func (s *BalancingSelector) StartOffset() int { return s.start }

// EndOffset is the upper balanced bound, just after the selected content.
func (s *BalancingSelector) EndOffset() int { return s.stop }

// CaretOffset is the balanced position of the moving end.
func (s *BalancingSelector) CaretOffset() int { return s.caret }

func (s *BalancingSelector) Mark() int { return s.mark }

func (s *BalancingSelector) IsActive() bool { return s.start != s.stop }
