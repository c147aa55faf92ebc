package cursor

import (
	"vexlayout/pkg/boxes"
)

// MoveDown goes to the row below the hot area at the preferred horizontal
// position. Entering a block stops at its start boundary first.
type MoveDown struct{}

func (MoveDown) CalculateNewOffset(s State) (int, MoveResult) {
	box, offset := s.Box, s.Offset
	if box == nil {
		return offset, AtBoundary
	}
	if isNodeReference(box) && box.IsAtStart(offset) && box.IsEmpty() {
		return box.EndOffset(), Moved
	}
	if isNodeReference(box) && box.IsAtStart(offset) {
		if first := firstContentChild(box); first != nil {
			if !canContainText(box) {
				return first.StartOffset(), Moved
			}
			if leaf := firstLeaf(box); leaf != nil {
				return landBelow(s, leaf, leaf.AbsoluteTop()), Moved
			}
		}
	}

	y := s.HotArea.Bottom() - 1
	target := s.Topology.FindClosestBoxBelow(s.PreferredX, y)
	if target == nil {
		for parent := boxes.ParentContentBox(box); parent != nil; parent = boxes.ParentContentBox(parent) {
			if parent.EndOffset() > offset {
				return parent.EndOffset(), NoNeighbour
			}
		}
		return offset, AtBoundary
	}
	return landBelow(s, target, target.AbsoluteTop()), Moved
}

func (MoveDown) PreferX() bool { return false }

// landBelow lands in target coming from above. If that enters node
// references, the caret stops at the start of the outermost one.
func landBelow(s State, target boxes.ContentBox, y int) int {
	entered := -1
	for _, b := range append([]boxes.Box{target}, boxes.Ancestors(target)...) {
		if ref, ok := b.(*boxes.StructuralNodeReference); ok && ref.StartOffset() > s.Offset {
			entered = ref.StartOffset()
		}
	}
	if entered >= 0 {
		return entered
	}
	return landOn(s.Graphics, target, s.PreferredX, y)
}

// MoveUp goes to the row above the hot area at the preferred horizontal
// position. Leaving a block stops at its start boundary first.
type MoveUp struct{}

func (MoveUp) CalculateNewOffset(s State) (int, MoveResult) {
	box, offset := s.Box, s.Offset
	if box == nil {
		return offset, AtBoundary
	}
	if isNodeReference(box) && box.IsAtEnd(offset) && box.IsEmpty() {
		return box.StartOffset(), Moved
	}
	if isNodeReference(box) && box.IsAtEnd(offset) {
		if last := lastContentChild(box); last != nil && !canContainText(box) {
			return last.EndOffset(), Moved
		}
	}

	target := s.Topology.FindClosestBoxAbove(s.PreferredX, s.HotArea.Y)
	if target == nil {
		for parent := boxes.ParentContentBox(box); parent != nil; parent = boxes.ParentContentBox(parent) {
			if parent.StartOffset() < offset {
				return parent.StartOffset(), NoNeighbour
			}
		}
		return offset, AtBoundary
	}
	landed := landOn(s.Graphics, target, s.PreferredX, target.AbsoluteTop())
	// Leaving a node reference upwards stops at its start.
	left := -1
	for _, b := range append([]boxes.Box{box}, boxes.Ancestors(box)...) {
		if ref, ok := b.(*boxes.StructuralNodeReference); ok && landed < ref.StartOffset() && ref.StartOffset() < offset {
			left = ref.StartOffset()
		}
	}
	if left >= 0 {
		return left, Moved
	}
	return landed, Moved
}

func (MoveUp) PreferX() bool { return false }

// firstContentChild returns the first content box nested in parent.
func firstContentChild(parent boxes.ContentBox) boxes.ContentBox {
	var first boxes.ContentBox
	for _, child := range boxes.Children(parent) {
		if first != nil {
			break
		}
		boxes.Walk(child, func(b boxes.Box) bool {
			if first != nil {
				return false
			}
			if c, ok := b.(boxes.ContentBox); ok {
				first = c
				return false
			}
			return true
		})
	}
	return first
}

// lastContentChild returns the last content box directly nested in parent.
func lastContentChild(parent boxes.ContentBox) boxes.ContentBox {
	var last boxes.ContentBox
	for _, child := range boxes.Children(parent) {
		boxes.Walk(child, func(b boxes.Box) bool {
			if c, ok := b.(boxes.ContentBox); ok {
				last = c
				return false
			}
			return true
		})
	}
	return last
}

func firstLeaf(parent boxes.ContentBox) boxes.ContentBox {
	var first boxes.ContentBox
	collectLeaves(parent, nil, func(b boxes.ContentBox) {
		if first == nil && b != parent {
			first = b
		}
	})
	return first
}
