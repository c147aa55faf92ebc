package boxes

import (
	"fmt"
	"strings"
)

type GridPosition struct {
	Row, Column int
}

// GridArea is a rectangle of grid positions, both ends inclusive. Rows and
// columns count from one.
type GridArea struct {
	StartRow, StartColumn int
	EndRow, EndColumn     int
}

func (a GridArea) Positions() []GridPosition {
	var positions []GridPosition
	for row := a.StartRow; row <= a.EndRow; row++ {
		for column := a.StartColumn; column <= a.EndColumn; column++ {
			positions = append(positions, GridPosition{Row: row, Column: column})
		}
	}
	return positions
}

func (a GridArea) String() string {
	return fmt.Sprintf("GridArea[%d,%d - %d,%d]", a.StartRow, a.StartColumn, a.EndRow, a.EndColumn)
}

// TableLayoutGrid assigns the cells of a table to grid areas. It is a
// sparse map from position to the occupying cell, filled row by row.
type TableLayoutGrid struct {
	grid         map[GridPosition]*TableCell
	cellIDs      map[*TableCell]int
	rows         []*TableRow
	currentRow   int
	nextColumn   int
	maxColumn    int
	columnWidths []int
}

func NewTableLayoutGrid() *TableLayoutGrid {
	return &TableLayoutGrid{
		grid:       make(map[GridPosition]*TableCell),
		cellIDs:    make(map[*TableCell]int),
		nextColumn: 1,
	}
}

func (t *TableLayoutGrid) Rows() int { return t.currentRow }

func (t *TableLayoutGrid) Columns() int { return t.maxColumn }

// AddNextRow starts a new row and returns its index.
func (t *TableLayoutGrid) AddNextRow(row *TableRow) int {
	t.currentRow++
	t.rows = append(t.rows, row)
	if row != nil {
		row.rowIndex = t.currentRow
	}
	t.nextColumn = 1
	t.updateNextColumn()
	return t.currentRow
}

// AddCellOnCurrentRow places cell at the given columns of the current row,
// spanning down as many rows as the cell asks for. It refuses, without
// changing anything, if any position of the area is taken.
func (t *TableLayoutGrid) AddCellOnCurrentRow(cell *TableCell, startColumn, endColumn int) bool {
	if startColumn < 1 || endColumn < startColumn {
		return false
	}
	area := GridArea{
		StartRow:    t.currentRow,
		StartColumn: startColumn,
		EndRow:      t.currentRow + cell.verticalSpan() - 1,
		EndColumn:   endColumn,
	}
	if t.isAreaOccupied(area) {
		return false
	}
	t.occupy(area, cell)
	t.updateNextColumn()
	return true
}

// AddNextCellOnCurrentRow places cell at the first free columns right of
// the last placed cell.
func (t *TableLayoutGrid) AddNextCellOnCurrentRow(cell *TableCell) {
	span := cell.horizontalSpan()
	column := t.nextColumn
	for {
		area := GridArea{
			StartRow:    t.currentRow,
			StartColumn: column,
			EndRow:      t.currentRow + cell.verticalSpan() - 1,
			EndColumn:   column + span - 1,
		}
		if !t.isAreaOccupied(area) {
			t.occupy(area, cell)
			break
		}
		column++
	}
	t.updateNextColumn()
}

func (t *TableLayoutGrid) updateNextColumn() {
	for t.isOccupied(GridPosition{Row: t.currentRow, Column: t.nextColumn}) {
		t.nextColumn++
	}
}

func (t *TableLayoutGrid) occupy(area GridArea, cell *TableCell) {
	for _, position := range area.Positions() {
		t.grid[position] = cell
		t.maxColumn = max(t.maxColumn, position.Column)
	}
	cell.area = area
	if _, ok := t.cellIDs[cell]; !ok {
		t.cellIDs[cell] = len(t.cellIDs) + 1
	}
}

func (t *TableLayoutGrid) isAreaOccupied(area GridArea) bool {
	for _, position := range area.Positions() {
		if t.isOccupied(position) {
			return true
		}
	}
	return false
}

func (t *TableLayoutGrid) isOccupied(position GridPosition) bool {
	_, ok := t.grid[position]
	return ok
}

// Cell returns the cell at position, or nil.
func (t *TableLayoutGrid) Cell(position GridPosition) *TableCell {
	return t.grid[position]
}

// Row returns the row with the given index, or nil.
func (t *TableLayoutGrid) Row(index int) *TableRow {
	if index < 1 || index > len(t.rows) {
		return nil
	}
	return t.rows[index-1]
}

// RowChild returns the direct child of a table row that contains the cell
// at position. Cells are usually wrapped into node references and frames.
func (t *TableLayoutGrid) RowChild(position GridPosition) Box {
	cell := t.grid[position]
	if cell == nil {
		return nil
	}
	var b Box = cell
	for b.Parent() != nil {
		if _, ok := b.Parent().(*TableRow); ok {
			return b
		}
		b = b.Parent()
	}
	return nil
}

// setColumnWidths divides width evenly over the columns, giving the
// remainder to the leftmost columns.
func (t *TableLayoutGrid) setColumnWidths(width int) {
	columns := max(1, t.maxColumn)
	t.columnWidths = make([]int, columns)
	for i := range t.columnWidths {
		t.columnWidths[i] = width / columns
		if i < width%columns {
			t.columnWidths[i]++
		}
	}
}

// ColumnLeft returns the left edge of a column.
func (t *TableLayoutGrid) ColumnLeft(column int) int {
	return sum(t.columnWidths[:min(max(column-1, 0), len(t.columnWidths))])
}

// SpanWidth returns the width of the columns from start to end.
func (t *TableLayoutGrid) SpanWidth(start, end int) int {
	from := min(max(start-1, 0), len(t.columnWidths))
	to := min(max(end, from), len(t.columnWidths))
	return sum(t.columnWidths[from:to])
}

// String draws the occupation of the grid, one three line block per row.
func (t *TableLayoutGrid) String() string {
	var sb strings.Builder
	for row := 1; row <= t.currentRow; row++ {
		var top, middle, bottom strings.Builder
		for column := 1; column <= t.maxColumn; column++ {
			cell := t.grid[GridPosition{Row: row, Column: column}]
			if cell == nil {
				top.WriteString("     ")
				middle.WriteString("     ")
				bottom.WriteString("     ")
				continue
			}
			area := cell.area
			if row == area.StartRow {
				top.WriteString("-----")
			} else {
				top.WriteString("     ")
			}
			if row == area.EndRow {
				bottom.WriteString("-----")
			} else {
				bottom.WriteString("     ")
			}
			if column == area.StartColumn {
				middle.WriteString("|")
			} else {
				middle.WriteString(" ")
			}
			fmt.Fprintf(&middle, "%3d", t.cellIDs[cell])
			if column == area.EndColumn {
				middle.WriteString("|")
			} else {
				middle.WriteString(" ")
			}
		}
		sb.WriteString(top.String() + "\n")
		sb.WriteString(middle.String() + "\n")
		sb.WriteString(bottom.String() + "\n")
	}
	return sb.String()
}
