package view

import (
	"fmt"

	"vexlayout/pkg/boxes"
	"vexlayout/pkg/cursor"
	"vexlayout/pkg/dom"
)

// InsertText inserts text at offset and updates the tree.
func (v *View) InsertText(offset int, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.doc.InsertText(offset, text); err != nil {
		return err
	}
	v.update()
	return nil
}

// InsertElement inserts an empty element at offset and updates the tree.
func (v *View) InsertElement(offset int, name string) (*dom.Element, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	el, err := v.doc.InsertElement(offset, name)
	if err != nil {
		return nil, err
	}
	v.update()
	return el, nil
}

// Delete removes r from the document and updates the tree.
func (v *View) Delete(r dom.Range) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.doc.Delete(r); err != nil {
		return err
	}
	v.update()
	return nil
}

// Type inserts text at the caret and puts the caret after it. A selection
// is replaced.
func (v *View) Type(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cursor.HasSelection() {
		if err := v.deleteSelection(); err != nil {
			return err
		}
	}
	if err := v.doc.InsertText(v.cursor.Offset(), text); err != nil {
		return err
	}
	v.update()
	return nil
}

// DeleteSelection removes the selected content. It is a no-op without a
// selection.
func (v *View) DeleteSelection() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.cursor.HasSelection() {
		return nil
	}
	return v.deleteSelection()
}

func (v *View) deleteSelection() error {
	selected := v.cursor.SelectedRange()
	if err := v.doc.Delete(selected); err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	v.update()
	return nil
}

// update brings the tree and the caret up to date with the changes made
// to the document since the last update.
func (v *View) update() {
	changes := v.changes
	v.changes = nil
	if len(changes) == 0 {
		return
	}
	v.styles.Flush()

	offset := v.cursor.Offset()
	for _, c := range changes {
		offset = shiftOffset(offset, c)
	}

	if !v.laidOut {
		v.rebuild()
	} else {
		var invalidated []boxes.Box
		for _, c := range changes {
			parent, ok := v.rebuildNode(c.Parent)
			if !ok {
				v.logf("view: no box to update for %v, rebuilding", c.Kind)
				v.rebuild()
				invalidated = nil
				break
			}
			invalidated = append(invalidated, parent)
		}
		boxes.Reconcile(v.g, invalidated...)
		v.topology.SetRootBox(v.root)
	}

	v.cursor.Move(cursor.MoveToOffset{Offset: offset})
	v.cursor.ApplyMoves(v.g)
}

// rebuildNode replaces the boxes of the nearest block around n by freshly
// built ones and lays them out. It returns the box whose layout needs to be
// reconciled.
func (v *View) rebuildNode(n dom.Node) (boxes.Box, bool) {
	for ; n != nil; n = n.Parent() {
		if v.styles.Styles(n).Display.IsTablePart() {
			continue
		}
		old := v.structuralReference(n)
		if old == nil {
			continue
		}
		replacement := v.builder.VisualizeStructure(n)
		if !boxes.ReplaceChild(old, replacement) {
			return nil, false
		}
		replacement.SetPosition(old.Top(), old.Left())
		replacement.SetWidth(old.Width())
		replacement.Layout(v.g)
		return replacement.Parent(), true
	}
	return nil, false
}

func (v *View) structuralReference(n dom.Node) *boxes.StructuralNodeReference {
	found := boxes.FindFirst(v.root, func(b boxes.Box) bool {
		ref, ok := b.(*boxes.StructuralNodeReference)
		return ok && ref.Node() == n
	})
	if found == nil {
		return nil
	}
	return found.(*boxes.StructuralNodeReference)
}

// shiftOffset maps an offset from before c to after it.
func shiftOffset(offset int, c dom.Change) int {
	switch c.Kind {
	case dom.TextInserted, dom.NodeInserted:
		if offset >= c.Range.Start {
			return offset + c.Range.Length()
		}
	case dom.ContentRemoved:
		switch {
		case offset > c.Range.End:
			return offset - c.Range.Length()
		case offset >= c.Range.Start:
			return c.Range.Start
		}
	}
	return offset
}
