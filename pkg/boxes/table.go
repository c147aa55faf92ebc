package boxes

import (
	"slices"

	"vexlayout/pkg/graphics"
)

// Table lays out its rows on a grid shared by all row groups and rows
// below it. Column widths divide the width of the table evenly.
type Table struct {
	base
	children []StructuralBox
	grid     *TableLayoutGrid
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) SetWidth(width int) { t.width = max(0, width) }

func (t *Table) AppendChild(child StructuralBox) {
	t.children = appendChild(t, t.children, child)
}

func (t *Table) Children() []StructuralBox { return t.children }

// Grid returns the grid of the last layout.
func (t *Table) Grid() *TableLayoutGrid { return t.grid }

func (t *Table) Layout(g graphics.Graphics) {
	grid := t.setupLayoutGrid()
	grid.setColumnWidths(t.width)
	stackChildren(g, t.children, t.width)
	t.extendSpanningRows(g, grid)
	t.height = restackChildren(t.children)
}

// ReconcileLayout lays out the whole table again: a changed cell may change
// the height of several rows.
func (t *Table) ReconcileLayout(g graphics.Graphics) []Box {
	old := t.height
	t.Layout(g)
	return invalidateParentIf(t, old != t.height)
}

func (t *Table) Paint(g graphics.Graphics) { paintChildren(g, t.children) }

func (t *Table) Accept(v Visitor) { v.VisitTable(t) }

// setupLayoutGrid walks row groups and rows in document order and places
// every cell. Cells with explicit columns keep them unless the area is
// taken; all others take the next free column.
func (t *Table) setupLayoutGrid() *TableLayoutGrid {
	grid := NewTableLayoutGrid()
	var visit func(b Box)
	visit = func(b Box) {
		switch b := b.(type) {
		case *Table:
			if b != t {
				return
			}
		case *TableRow:
			b.grid = grid
			b.extra = 0
			grid.AddNextRow(b)
			for _, child := range b.children {
				cell := cellIn(child)
				if cell == nil {
					continue
				}
				if cell.StartColumn > 0 && cell.EndColumn > 0 && grid.AddCellOnCurrentRow(cell, cell.StartColumn, cell.EndColumn) {
					continue
				}
				grid.AddNextCellOnCurrentRow(cell)
			}
			return
		}
		for _, child := range Children(b) {
			visit(child)
		}
	}
	visit(t)
	t.grid = grid
	return grid
}

// extendSpanningRows makes the last row spanned by a cell tall enough for
// the cell.
func (t *Table) extendSpanningRows(g graphics.Graphics, grid *TableLayoutGrid) {
	var spanning []*TableCell
	for cell := range grid.cellIDs {
		if cell.area.EndRow > cell.area.StartRow {
			spanning = append(spanning, cell)
		}
	}
	slices.SortFunc(spanning, func(a, b *TableCell) int {
		return grid.cellIDs[a] - grid.cellIDs[b]
	})
	for _, cell := range spanning {
		child := grid.RowChild(GridPosition{Row: cell.area.StartRow, Column: cell.area.StartColumn})
		last := grid.Row(min(cell.area.EndRow, grid.Rows()))
		if child == nil || last == nil {
			continue
		}
		rowsHeight := 0
		for row := cell.area.StartRow; row <= cell.area.EndRow; row++ {
			if r := grid.Row(row); r != nil {
				rowsHeight += r.Height()
			}
		}
		if missing := child.Height() - rowsHeight; missing > 0 {
			last.extra += missing
			last.height += missing
			for b := last.Parent(); b != nil && b != Box(t); b = b.Parent() {
				b.ReconcileLayout(g)
			}
		}
	}
}

// enclosingTable returns the nearest Table above b.
func enclosingTable(b Box) *Table {
	for p := b.Parent(); p != nil; p = p.Parent() {
		if t, ok := p.(*Table); ok {
			return t
		}
	}
	return nil
}

// invalidateTableIf hands reconciliation of a table part to its table.
func invalidateTableIf(b Box, changed bool) []Box {
	if !changed {
		return nil
	}
	if t := enclosingTable(b); t != nil {
		return []Box{t}
	}
	return invalidateParentIf(b, true)
}

// cellIn finds the cell a row child wraps.
func cellIn(b Box) *TableCell {
	var found *TableCell
	Walk(b, func(candidate Box) bool {
		if found != nil {
			return false
		}
		switch c := candidate.(type) {
		case *TableCell:
			found = c
			return false
		case *Table, *TableRow:
			return false
		}
		return true
	})
	return found
}

// TableRowGroup stacks rows.
type TableRowGroup struct {
	base
	children []StructuralBox
}

func NewTableRowGroup() *TableRowGroup {
	return &TableRowGroup{}
}

func (rg *TableRowGroup) SetWidth(width int) { rg.width = max(0, width) }

func (rg *TableRowGroup) AppendChild(child StructuralBox) {
	rg.children = appendChild(rg, rg.children, child)
}

func (rg *TableRowGroup) Children() []StructuralBox { return rg.children }

func (rg *TableRowGroup) Layout(g graphics.Graphics) {
	rg.height = stackChildren(g, rg.children, rg.width)
}

func (rg *TableRowGroup) ReconcileLayout(g graphics.Graphics) []Box {
	old := rg.height
	rg.height = restackChildren(rg.children)
	return invalidateTableIf(rg, old != rg.height)
}

func (rg *TableRowGroup) Paint(g graphics.Graphics) { paintChildren(g, rg.children) }

func (rg *TableRowGroup) Accept(v Visitor) { v.VisitTableRowGroup(rg) }

// TableColumnSpec stands for a column element. It takes no space.
type TableColumnSpec struct {
	base
}

func NewTableColumnSpec() *TableColumnSpec {
	return &TableColumnSpec{}
}

func (c *TableColumnSpec) SetWidth(width int) { c.width = max(0, width) }

func (c *TableColumnSpec) Layout(g graphics.Graphics) { c.height = 0 }

func (c *TableColumnSpec) ReconcileLayout(g graphics.Graphics) []Box { return nil }

func (c *TableColumnSpec) Paint(g graphics.Graphics) {}

func (c *TableColumnSpec) Accept(v Visitor) { v.VisitTableColumnSpec(c) }

// TableRow places its cells at the columns the grid assigned to them. Its
// height is the height of its tallest cell that spans no other row.
type TableRow struct {
	base
	children []StructuralBox
	grid     *TableLayoutGrid
	rowIndex int
	extra    int
}

func NewTableRow() *TableRow {
	return &TableRow{}
}

func (r *TableRow) SetWidth(width int) { r.width = max(0, width) }

func (r *TableRow) AppendChild(child StructuralBox) {
	r.children = appendChild(r, r.children, child)
}

func (r *TableRow) Children() []StructuralBox { return r.children }

// RowIndex is the row of the grid, counting from one.
func (r *TableRow) RowIndex() int { return r.rowIndex }

func (r *TableRow) Layout(g graphics.Graphics) {
	grid := r.grid
	if grid == nil {
		grid = NewTableLayoutGrid()
		grid.AddNextRow(r)
		for _, child := range r.children {
			if cell := cellIn(child); cell != nil {
				grid.AddNextCellOnCurrentRow(cell)
			}
		}
		grid.setColumnWidths(r.width)
	}
	for _, child := range r.children {
		cell := cellIn(child)
		if cell == nil {
			child.SetPosition(0, 0)
			child.SetWidth(r.width)
		} else {
			child.SetPosition(0, grid.ColumnLeft(cell.area.StartColumn))
			child.SetWidth(grid.SpanWidth(cell.area.StartColumn, cell.area.EndColumn))
		}
		child.Layout(g)
	}
	r.height = r.calculateHeight()
}

func (r *TableRow) calculateHeight() int {
	height := 0
	for _, child := range r.children {
		if cell := cellIn(child); cell != nil && cell.area.EndRow > cell.area.StartRow {
			continue
		}
		height = max(height, child.Height())
	}
	return height + r.extra
}

func (r *TableRow) ReconcileLayout(g graphics.Graphics) []Box {
	old := r.height
	r.height = r.calculateHeight()
	return invalidateTableIf(r, old != r.height)
}

func (r *TableRow) Paint(g graphics.Graphics) { paintChildren(g, r.children) }

func (r *TableRow) Accept(v Visitor) { v.VisitTableRow(r) }

// TableCell stacks its content like a VerticalBlock. StartColumn and
// EndColumn request explicit columns when both are set; spans default to
// one.
type TableCell struct {
	base
	children []StructuralBox
	area     GridArea

	StartColumn int
	EndColumn   int
	ColSpan     int
	RowSpan     int
}

func NewTableCell() *TableCell {
	return &TableCell{}
}

func (c *TableCell) SetWidth(width int) { c.width = max(0, width) }

func (c *TableCell) AppendChild(child StructuralBox) {
	c.children = appendChild(c, c.children, child)
}

func (c *TableCell) Children() []StructuralBox { return c.children }

// GridArea returns the area assigned by the last grid setup.
func (c *TableCell) GridArea() GridArea { return c.area }

func (c *TableCell) verticalSpan() int { return max(1, c.RowSpan) }

func (c *TableCell) horizontalSpan() int { return max(1, c.ColSpan) }

func (c *TableCell) Layout(g graphics.Graphics) {
	c.height = stackChildren(g, c.children, c.width)
}

func (c *TableCell) ReconcileLayout(g graphics.Graphics) []Box {
	old := c.height
	c.height = restackChildren(c.children)
	return invalidateParentIf(c, old != c.height)
}

func (c *TableCell) Paint(g graphics.Graphics) { paintChildren(g, c.children) }

func (c *TableCell) Accept(v Visitor) { v.VisitTableCell(c) }
