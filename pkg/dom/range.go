package dom

import "fmt"

// Range is an inclusive span of content offsets. Start <= End always holds;
// constructing a reversed range is a programming error.
type Range struct {
	Start int
	End   int
}

// NewRange panics if end < start.
func NewRange(start, end int) Range {
	if end < start {
		panic(fmt.Sprintf("dom: invalid range [%d, %d]: end before start", start, end))
	}
	return Range{Start: start, End: end}
}

// Length counts the offsets in the range, both bounds included.
func (r Range) Length() int {
	return r.End - r.Start + 1
}

// Contains reports whether offset lies within [Start, End].
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

// ContainsRange reports whether every offset of other lies within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Intersects reports whether the two ranges share at least one offset.
func (r Range) Intersects(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Intersection returns the overlap of both ranges. The ranges must intersect.
func (r Range) Intersection(other Range) Range {
	return NewRange(max(r.Start, other.Start), min(r.End, other.End))
}

// TrimTo cuts r down to the bounds of limit.
func (r Range) TrimTo(limit Range) Range {
	return r.Intersection(limit)
}

// MoveBy shifts both bounds by delta.
func (r Range) MoveBy(delta int) Range {
	return NewRange(r.Start+delta, r.End+delta)
}

// MoveBounds shifts each bound independently.
func (r Range) MoveBounds(deltaStart, deltaEnd int) Range {
	return NewRange(r.Start+deltaStart, r.End+deltaEnd)
}

// ResizeBy moves only the end bound.
func (r Range) ResizeBy(delta int) Range {
	return NewRange(r.Start, r.End+delta)
}

func (r Range) String() string {
	return fmt.Sprintf("Range[%d, %d]", r.Start, r.End)
}
