package boxes

import "vexlayout/pkg/graphics"

// Reconcile settles the layout after the boxes in invalidated were laid
// out again. The deepest pending box reconciles first, so a parent sees the
// final sizes of all its invalidated children; every box it reports is
// added to the pending set until nothing is left.
func Reconcile(g graphics.Graphics, invalidated ...Box) {
	pending := make(map[Box]int)
	for _, b := range invalidated {
		if b != nil {
			pending[b] = Depth(b)
		}
	}
	for len(pending) > 0 {
		var deepest Box
		depth := -1
		for b, d := range pending {
			if d > depth {
				deepest, depth = b, d
			}
		}
		delete(pending, deepest)
		for _, next := range deepest.ReconcileLayout(g) {
			if next != nil {
				pending[next] = Depth(next)
			}
		}
	}
}
