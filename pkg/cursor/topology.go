// Package cursor maps document offsets to boxes and coordinates, moves the
// caret through a laid out box tree and keeps selections balanced.
package cursor

import (
	"slices"

	"vexlayout/pkg/boxes"
	"vexlayout/pkg/dom"
)

// ContentTopology answers offset and coordinate queries against one box
// tree. It only caches the outermost content box of the tree.
type ContentTopology struct {
	root    *boxes.RootBox
	outmost boxes.ContentBox
}

func NewContentTopology(root *boxes.RootBox) *ContentTopology {
	t := &ContentTopology{}
	t.SetRootBox(root)
	return t
}

func (t *ContentTopology) SetRootBox(root *boxes.RootBox) {
	t.root = root
	t.outmost = nil
	if root == nil {
		return
	}
	if b := boxes.FindFirst(root, isContentBox); b != nil {
		t.outmost = b.(boxes.ContentBox)
	}
}

func (t *ContentTopology) RootBox() *boxes.RootBox { return t.root }

func (t *ContentTopology) OutmostContentBox() boxes.ContentBox { return t.outmost }

// FirstOffset is the smallest offset the caret can take.
func (t *ContentTopology) FirstOffset() int {
	if t.outmost == nil {
		return 0
	}
	return t.outmost.StartOffset()
}

// LastOffset is the largest offset the caret can take.
func (t *ContentTopology) LastOffset() int {
	if t.outmost == nil {
		return 0
	}
	return t.outmost.EndOffset()
}

func isContentBox(b boxes.Box) bool {
	_, ok := b.(boxes.ContentBox)
	return ok
}

// FindBoxForPosition returns the innermost content box owning offset. A
// node reference owns the offsets of its own boundaries; text owns the
// offsets of its characters.
func (t *ContentTopology) FindBoxForPosition(offset int) boxes.ContentBox {
	if t.root == nil {
		return nil
	}
	return findBoxForPosition(t.root, offset)
}

func findBoxForPosition(b boxes.Box, offset int) boxes.ContentBox {
	switch b := b.(type) {
	case *boxes.StructuralNodeReference, *boxes.InlineNodeReference:
		ref := b.(boxes.ContentBox)
		if ref.IsAtStart(offset) || ref.IsAtEnd(offset) {
			return ref
		}
		if offset <= ref.StartOffset() || offset >= ref.EndOffset() {
			return nil
		}
	case *boxes.TextContent:
		if b.Range().Contains(offset) {
			return b
		}
		return nil
	case *boxes.NodeEndOffsetPlaceholder:
		if offset == b.EndOffset() {
			return b
		}
		return nil
	}
	for _, child := range boxes.Children(b) {
		if found := findBoxForPosition(child, offset); found != nil {
			return found
		}
	}
	return nil
}

// FindBoxForRange returns the innermost content box whose range covers r.
func (t *ContentTopology) FindBoxForRange(r dom.Range) boxes.ContentBox {
	if t.root == nil {
		return nil
	}
	return findBoxForRange(t.root, r)
}

func findBoxForRange(b boxes.Box, r dom.Range) boxes.ContentBox {
	content, isContent := b.(boxes.ContentBox)
	if isContent && !content.Range().ContainsRange(r) {
		return nil
	}
	for _, child := range boxes.Children(b) {
		if found := findBoxForRange(child, r); found != nil {
			return found
		}
	}
	if isContent {
		return content
	}
	return nil
}

// FindBoxForCoordinates returns the innermost content box containing the
// absolute point. Subtrees not containing the point are skipped.
func (t *ContentTopology) FindBoxForCoordinates(x, y int) boxes.ContentBox {
	if t.outmost == nil {
		return nil
	}
	return findBoxForCoordinates(t.outmost, x, y)
}

func findBoxForCoordinates(b boxes.Box, x, y int) boxes.ContentBox {
	if !boxes.AbsoluteBounds(b).Contains(x, y) {
		return nil
	}
	for _, child := range boxes.Children(b) {
		if found := findBoxForCoordinates(child, x, y); found != nil {
			return found
		}
	}
	if content, ok := b.(boxes.ContentBox); ok {
		return content
	}
	return nil
}

// collectLeaves calls fn for every content box below b that holds no other
// content box. Subtrees for which skip returns true are not entered and
// count as holding content.
func collectLeaves(b boxes.Box, skip func(boxes.Box) bool, fn func(boxes.ContentBox)) bool {
	if skip != nil && skip(b) {
		return true
	}
	hasContent := false
	for _, child := range boxes.Children(b) {
		if collectLeaves(child, skip, fn) {
			hasContent = true
		}
	}
	content, ok := b.(boxes.ContentBox)
	if !ok {
		return hasContent
	}
	if !hasContent {
		fn(content)
	}
	return true
}

// LeafContentBoxes returns the content boxes that hold no other content
// boxes, in document order.
func (t *ContentTopology) LeafContentBoxes() []boxes.ContentBox {
	var leaves []boxes.ContentBox
	if t.root != nil {
		collectLeaves(t.root, nil, func(b boxes.ContentBox) { leaves = append(leaves, b) })
	}
	return leaves
}

// FindClosestBoxByCoordinates returns the leaf content box nearest to the
// absolute point, vertical distance first.
func (t *ContentTopology) FindClosestBoxByCoordinates(x, y int) boxes.ContentBox {
	var closest boxes.ContentBox
	bestV, bestH := 0, 0
	for _, candidate := range t.LeafContentBoxes() {
		v, h := VerticalDistance(candidate, y), HorizontalDistance(candidate, x)
		if closest == nil || v < bestV || v == bestV && h < bestH {
			closest, bestV, bestH = candidate, v, h
		}
	}
	return closest
}

// FindClosestBoxBelow returns the leaf content box of the nearest row
// starting below y that is closest to x, or nil at the bottom.
func (t *ContentTopology) FindClosestBoxBelow(x, y int) boxes.ContentBox {
	if t.root == nil {
		return nil
	}
	var candidates []boxes.ContentBox
	skip := func(b boxes.Box) bool { return boxes.AbsoluteBounds(b).Bottom() <= y }
	collectLeaves(t.root, skip, func(b boxes.ContentBox) {
		if b.AbsoluteTop() > y {
			candidates = append(candidates, b)
		}
	})
	if len(candidates) == 0 {
		return nil
	}
	nearest := slices.MinFunc(candidates, func(a, b boxes.ContentBox) int { return a.AbsoluteTop() - b.AbsoluteTop() })
	bottom := boxes.AbsoluteBounds(nearest).Bottom()
	row := slices.DeleteFunc(candidates, func(b boxes.ContentBox) bool {
		return b.AbsoluteTop() >= bottom && b != nearest
	})
	return FindHorizontallyClosestContentBox(row, x)
}

// FindClosestBoxAbove returns the leaf content box of the nearest row
// ending above y that is closest to x, or nil at the top.
func (t *ContentTopology) FindClosestBoxAbove(x, y int) boxes.ContentBox {
	if t.root == nil {
		return nil
	}
	var candidates []boxes.ContentBox
	skip := func(b boxes.Box) bool { return b.AbsoluteTop() > y }
	collectLeaves(t.root, skip, func(b boxes.ContentBox) {
		if boxes.AbsoluteBounds(b).Bottom() <= y {
			candidates = append(candidates, b)
		}
	})
	if len(candidates) == 0 {
		return nil
	}
	nearest := slices.MaxFunc(candidates, func(a, b boxes.ContentBox) int {
		return boxes.AbsoluteBounds(a).Bottom() - boxes.AbsoluteBounds(b).Bottom()
	})
	top := nearest.AbsoluteTop()
	row := slices.DeleteFunc(candidates, func(b boxes.ContentBox) bool {
		return boxes.AbsoluteBounds(b).Bottom() <= top && b != nearest
	})
	return FindHorizontallyClosestContentBox(row, x)
}

// FindLineBoxes returns the leaf content boxes crossing the horizontal line
// at y, left to right.
func (t *ContentTopology) FindLineBoxes(y int) []boxes.ContentBox {
	if t.root == nil {
		return nil
	}
	var line []boxes.ContentBox
	skip := func(b boxes.Box) bool {
		bounds := boxes.AbsoluteBounds(b)
		return y < bounds.Y || y >= bounds.Bottom()
	}
	collectLeaves(t.root, skip, func(b boxes.ContentBox) { line = append(line, b) })
	slices.SortStableFunc(line, func(a, b boxes.ContentBox) int { return a.AbsoluteLeft() - b.AbsoluteLeft() })
	return line
}

// VerticalDistance is zero if y lies within the rows of b, otherwise the
// distance to its nearest row.
func VerticalDistance(b boxes.Box, y int) int {
	bounds := boxes.AbsoluteBounds(b)
	switch {
	case y < bounds.Y:
		return bounds.Y - y
	case y >= bounds.Bottom():
		return y - bounds.Bottom() + 1
	}
	return 0
}

// HorizontalDistance is zero if x lies within the columns of b, otherwise
// the distance to its nearest column.
func HorizontalDistance(b boxes.Box, x int) int {
	bounds := boxes.AbsoluteBounds(b)
	switch {
	case x < bounds.X:
		return bounds.X - x
	case x >= bounds.Right():
		return x - bounds.Right() + 1
	}
	return 0
}

// FindHorizontallyClosestContentBox returns the first candidate with the
// smallest horizontal distance to x.
func FindHorizontallyClosestContentBox(candidates []boxes.ContentBox, x int) boxes.ContentBox {
	var closest boxes.ContentBox
	best := 0
	for _, candidate := range candidates {
		if d := HorizontalDistance(candidate, x); closest == nil || d < best {
			closest, best = candidate, d
		}
	}
	return closest
}

// ParentContentBox returns the nearest content box enclosing b.
func ParentContentBox(b boxes.Box) boxes.ContentBox {
	return boxes.ParentContentBox(b)
}
