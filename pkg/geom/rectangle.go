package geom

import "fmt"

// Rectangle is an integer pixel rectangle. Coordinates are relative to
// whatever the caller says they are relative to; boxes use parent-relative
// rectangles and the cursor works with absolute ones.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// NullRectangle marks "no area". A caret without a resolvable box reports it.
var NullRectangle = Rectangle{}

func (r Rectangle) IsNull() bool {
	return r == NullRectangle
}

func (r Rectangle) Right() int {
	return r.X + r.Width
}

func (r Rectangle) Bottom() int {
	return r.Y + r.Height
}

// Contains reports whether the point lies within the half-open area
// [X, X+Width) x [Y, Y+Height).
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func (r Rectangle) Intersects(other Rectangle) bool {
	return r.X < other.Right() && other.X < r.Right() && r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Union returns the smallest rectangle covering both. A null rectangle is
// the identity element.
func (r Rectangle) Union(other Rectangle) Rectangle {
	if r.IsNull() {
		return other
	}
	if other.IsNull() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  max(r.Right(), other.Right()) - x,
		Height: max(r.Bottom(), other.Bottom()) - y,
	}
}

func (r Rectangle) Translate(dx, dy int) Rectangle {
	return Rectangle{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle{x: %d, y: %d, width: %d, height: %d}", r.X, r.Y, r.Width, r.Height)
}
