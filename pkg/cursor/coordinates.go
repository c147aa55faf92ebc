package cursor

import "vexlayout/pkg/boxes"

// MoveToAbsoluteCoordinates puts the caret at the content closest to a
// point, as for a mouse click.
type MoveToAbsoluteCoordinates struct {
	X, Y int
}

func (m MoveToAbsoluteCoordinates) CalculateNewOffset(s State) (int, MoveResult) {
	box := s.Topology.FindClosestBoxByCoordinates(m.X, m.Y)
	if box == nil {
		return s.Offset, AtBoundary
	}
	switch {
	case box.ContainsCoordinates(m.X, m.Y):
		return box.OffsetForCoordinates(s.Graphics, m.X-box.AbsoluteLeft(), m.Y-box.AbsoluteTop()), Moved
	case box.IsLeftOf(m.X):
		end := box.EndOffset()
		if parent := boxes.ParentContentBox(box); parent == nil || end == parent.EndOffset()-1 {
			end++
		}
		return end, Moved
	case box.IsRightOf(m.X):
		return box.StartOffset(), Moved
	}
	return landOn(s.Graphics, box, m.X, m.Y), Moved
}

func (MoveToAbsoluteCoordinates) PreferX() bool { return true }

// isAbsolute reports whether a selecting move should snap the selection
// outward regardless of its direction.
func isAbsolute(m Move) bool {
	_, ok := m.(MoveToAbsoluteCoordinates)
	return ok
}
