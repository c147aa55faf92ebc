package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRangeRejectsEndBeforeStart(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for reversed range")
		}
	}()
	NewRange(2, 1)
}

func TestRangeLength(t *testing.T) {
	if got := NewRange(0, 0).Length(); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := NewRange(3, 7).Length(); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestRangeContainsRange(t *testing.T) {
	outer := NewRange(1, 5)
	inner := NewRange(2, 4)
	if !outer.ContainsRange(inner) {
		t.Errorf("expected %v to contain %v", outer, inner)
	}
	if inner.ContainsRange(outer) {
		t.Errorf("expected %v not to contain %v", inner, outer)
	}
	if !outer.ContainsRange(outer) {
		t.Errorf("a range must contain itself")
	}
	if outer.ContainsRange(NewRange(0, 3)) || outer.ContainsRange(NewRange(4, 6)) {
		t.Errorf("overlapping ranges must not be contained")
	}
}

// Containment must agree with checking every single offset.
func TestRangeContainsRangeMatchesOffsets(t *testing.T) {
	for as := 0; as < 6; as++ {
		for ae := as; ae < 6; ae++ {
			for bs := 0; bs < 6; bs++ {
				for be := bs; be < 6; be++ {
					a, b := NewRange(as, ae), NewRange(bs, be)
					all := true
					for o := b.Start; o <= b.End; o++ {
						all = all && a.Contains(o)
					}
					if a.ContainsRange(b) != all {
						t.Fatalf("%v contains %v: expected %v", a, b, all)
					}
					if a != b && a.ContainsRange(b) && b.ContainsRange(a) {
						t.Fatalf("containment must be antisymmetric for %v and %v", a, b)
					}
				}
			}
		}
	}
}

func TestRangeContainsOffset(t *testing.T) {
	r := NewRange(1, 5)
	for _, o := range []int{1, 3, 5} {
		if !r.Contains(o) {
			t.Errorf("expected %v to contain %d", r, o)
		}
	}
	for _, o := range []int{0, 6} {
		if r.Contains(o) {
			t.Errorf("expected %v not to contain %d", r, o)
		}
	}
}

func TestRangeTrimTo(t *testing.T) {
	tests := []struct {
		r, limit, want Range
	}{
		{NewRange(1, 5), NewRange(2, 6), NewRange(2, 5)},
		{NewRange(1, 5), NewRange(0, 4), NewRange(1, 4)},
		{NewRange(1, 5), NewRange(0, 9), NewRange(1, 5)},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.r.TrimTo(tt.limit)); diff != "" {
			t.Errorf("%v.TrimTo(%v) mismatch (-want +got):\n%s", tt.r, tt.limit, diff)
		}
	}
}

func TestRangeMoveBounds(t *testing.T) {
	if got := NewRange(3, 5).MoveBounds(-2, 3); got != NewRange(1, 8) {
		t.Errorf("expected Range[1, 8], got %v", got)
	}
	if got := NewRange(3, 5).MoveBy(2); got != NewRange(5, 7) {
		t.Errorf("expected Range[5, 7], got %v", got)
	}
	if got := NewRange(3, 5).ResizeBy(-1); got != NewRange(3, 4) {
		t.Errorf("expected Range[3, 4], got %v", got)
	}
}

func TestRangeIsComparable(t *testing.T) {
	seen := map[Range]bool{NewRange(1, 2): true}
	if !seen[NewRange(1, 2)] {
		t.Errorf("equal ranges must hash equally")
	}
}
