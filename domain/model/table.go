package model

import (
	"fmt"
	"slices"
)

// NoPrimaryKey is the primary key column index of a table without one.
const NoPrimaryKey = -1

// MinMax is the numeric range of a column.
type MinMax struct {
	Min float64
	Max float64
}

// cellKey packs a cell address into a single map key.
func cellKey(row, col int) uint64 {
	return uint64(uint32(row))<<32 | uint64(uint32(col))
}

// splitKey unpacks a key produced by cellKey.
func splitKey(k uint64) (row, col int) {
	return int(uint32(k >> 32)), int(uint32(k))
}

// Table is a flat, row-major table of cell values with per-column, per-row
// and sparse per-cell metadata.
//
// A Table has a single owner and is not safe for concurrent use. Use Clone
// to hand out an independent copy.
type Table struct {
	rows int
	cols int
	// data holds rows*cols values, row by row.
	data []Value

	colNames   []string
	colNumeric []bool
	colMinMax  []MinMax
	primaryKey int

	rowBarColors []Color
	rowVisible   []bool

	// cellColors and cellTextColors only contain explicitly colored cells.
	cellColors     map[uint64]Color
	cellTextColors map[uint64]Color

	source *sourceBinding
}

// NewTable creates a table with the given dimensions. All values are Float(0),
// all columns are numeric and all rows are visible.
func NewTable(rows, cols int) *Table {
	t := &Table{primaryKey: NoPrimaryKey}
	t.Resize(rows, cols)
	return t
}

// Resize reallocates the value buffer and every metadata array. Existing
// content is discarded. Negative dimensions are treated as zero.
func (t *Table) Resize(rows, cols int) {
	rows = max(rows, 0)
	cols = max(cols, 0)
	t.rows = rows
	t.cols = cols
	t.data = make([]Value, rows*cols)
	t.colNames = make([]string, cols)
	t.colNumeric = make([]bool, cols)
	for i := range t.colNumeric {
		t.colNumeric[i] = true
	}
	t.colMinMax = make([]MinMax, cols)
	t.rowBarColors = make([]Color, rows)
	t.rowVisible = make([]bool, rows)
	for i := range t.rowVisible {
		t.rowVisible[i] = true
	}
	t.cellColors = make(map[uint64]Color)
	t.cellTextColors = make(map[uint64]Color)
	t.primaryKey = NoPrimaryKey
	t.source = nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return t.cols
}

// IsEmpty reports whether the table has no cells.
func (t *Table) IsEmpty() bool {
	return t.rows == 0 || t.cols == 0
}

// inRange reports whether (row, col) addresses a cell.
func (t *Table) inRange(row, col int) bool {
	return row >= 0 && row < t.rows && col >= 0 && col < t.cols
}

// Lookup returns the value at (row, col) or ErrOutOfRange.
func (t *Table) Lookup(row, col int) (Value, error) {
	if !t.inRange(row, col) {
		return Value{}, fmt.Errorf("%w: (%d, %d) in %dx%d table", ErrOutOfRange, row, col, t.rows, t.cols)
	}
	return t.data[row*t.cols+col], nil
}

// Get returns the value at (row, col). Reading outside the table is a
// programming error and panics.
func (t *Table) Get(row, col int) Value {
	v, err := t.Lookup(row, col)
	if err != nil {
		panic(err)
	}
	return v
}

// Set stores v at (row, col). Writing outside the table panics.
func (t *Table) Set(row, col int, v Value) {
	if !t.inRange(row, col) {
		panic(fmt.Errorf("%w: (%d, %d) in %dx%d table", ErrOutOfRange, row, col, t.rows, t.cols))
	}
	t.data[row*t.cols+col] = v
}

// SetColumnName sets the display name of a column.
func (t *Table) SetColumnName(col int, name string) {
	if col >= 0 && col < t.cols {
		t.colNames[col] = name
	}
}

// ColumnName returns the name of a column, or "" when out of range.
func (t *Table) ColumnName(col int) string {
	if col >= 0 && col < t.cols {
		return t.colNames[col]
	}
	return ""
}

// ColumnNames returns a copy of all column names.
func (t *Table) ColumnNames() []string {
	return slices.Clone(t.colNames)
}

// ColumnIndex returns the first column with the given name, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.colNames, name)
}

// SetColumnNumeric marks a column as numeric or text.
func (t *Table) SetColumnNumeric(col int, numeric bool) {
	if col >= 0 && col < t.cols {
		t.colNumeric[col] = numeric
	}
}

// ColumnIsNumeric reports whether a column is numeric. Out of range columns report true.
func (t *Table) ColumnIsNumeric(col int) bool {
	if col >= 0 && col < t.cols {
		return t.colNumeric[col]
	}
	return true
}

// SetColumnMinMax stores the numeric range of a column.
func (t *Table) SetColumnMinMax(col int, minVal, maxVal float64) {
	if col >= 0 && col < t.cols {
		t.colMinMax[col] = MinMax{Min: minVal, Max: maxVal}
	}
}

// ColumnMinMax returns the numeric range of a column, or (0, 0) when out of range.
func (t *Table) ColumnMinMax(col int) (minVal, maxVal float64) {
	if col >= 0 && col < t.cols {
		return t.colMinMax[col].Min, t.colMinMax[col].Max
	}
	return 0, 0
}

// SetPrimaryKeyColumn designates the primary key column. An invalid index clears it.
func (t *Table) SetPrimaryKeyColumn(col int) {
	if col >= 0 && col < t.cols {
		t.primaryKey = col
		return
	}
	t.primaryKey = NoPrimaryKey
}

// PrimaryKeyColumn returns the primary key column or NoPrimaryKey.
func (t *Table) PrimaryKeyColumn() int {
	return t.primaryKey
}

// IsPrimaryKeyColumn reports whether col is the primary key column.
func (t *Table) IsPrimaryKeyColumn(col int) bool {
	return t.primaryKey != NoPrimaryKey && col == t.primaryKey
}

// Row returns a copy of one row, or nil when out of range.
func (t *Table) Row(row int) []Value {
	if row < 0 || row >= t.rows {
		return nil
	}
	return slices.Clone(t.data[row*t.cols : (row+1)*t.cols])
}

// Column returns a copy of one column, or nil when out of range.
func (t *Table) Column(col int) []Value {
	if col < 0 || col >= t.cols {
		return nil
	}
	out := make([]Value, t.rows)
	for r := range t.rows {
		out[r] = t.data[r*t.cols+col]
	}
	return out
}

// Rows returns every row.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, t.rows)
	for r := range t.rows {
		out[r] = t.Row(r)
	}
	return out
}

// Columns returns every column.
func (t *Table) Columns() [][]Value {
	out := make([][]Value, t.cols)
	for c := range t.cols {
		out[c] = t.Column(c)
	}
	return out
}

// SetRowBarColor sets the color shared by all bars of a row.
func (t *Table) SetRowBarColor(row int, c Color) {
	if row >= 0 && row < t.rows {
		t.rowBarColors[row] = c
	}
}

// RowBarColor returns the bar color of a row, or an invalid color.
func (t *Table) RowBarColor(row int) Color {
	if row >= 0 && row < t.rows {
		return t.rowBarColors[row]
	}
	return Color{}
}

// SetAllRowBarColors replaces every row bar color. The slice is truncated or
// padded with invalid colors to the row count.
func (t *Table) SetAllRowBarColors(colors []Color) {
	t.rowBarColors = make([]Color, t.rows)
	copy(t.rowBarColors, colors)
}

// RowBarColors returns a copy of all row bar colors.
func (t *Table) RowBarColors() []Color {
	return slices.Clone(t.rowBarColors)
}

// SetRowVisible shows or hides a row for filtering.
func (t *Table) SetRowVisible(row int, visible bool) {
	if row >= 0 && row < t.rows {
		t.rowVisible[row] = visible
	}
}

// IsRowVisible reports whether a row is visible. Out of range rows report true.
func (t *Table) IsRowVisible(row int) bool {
	if row >= 0 && row < t.rows {
		return t.rowVisible[row]
	}
	return true
}

// VisibleRows returns the indices of all visible rows.
func (t *Table) VisibleRows() []int {
	out := make([]int, 0, t.rows)
	for r, v := range t.rowVisible {
		if v {
			out = append(out, r)
		}
	}
	return out
}

// ClearRowFilter makes every row visible.
func (t *Table) ClearRowFilter() {
	for i := range t.rowVisible {
		t.rowVisible[i] = true
	}
}

// SetCellColor overrides the background of one cell. An invalid color removes the override.
func (t *Table) SetCellColor(row, col int, c Color) {
	if !t.inRange(row, col) {
		return
	}
	if !c.Valid {
		delete(t.cellColors, cellKey(row, col))
		return
	}
	t.cellColors[cellKey(row, col)] = c
}

// CellColor returns the background override of a cell, or an invalid color.
func (t *Table) CellColor(row, col int) Color {
	if !t.inRange(row, col) {
		return Color{}
	}
	return t.cellColors[cellKey(row, col)]
}

// HasCellColor reports whether a cell has a background override.
func (t *Table) HasCellColor(row, col int) bool {
	_, ok := t.cellColors[cellKey(row, col)]
	return ok && t.inRange(row, col)
}

// SetCellTextColor overrides the text color of one cell. An invalid color removes the override.
func (t *Table) SetCellTextColor(row, col int, c Color) {
	if !t.inRange(row, col) {
		return
	}
	if !c.Valid {
		delete(t.cellTextColors, cellKey(row, col))
		return
	}
	t.cellTextColors[cellKey(row, col)] = c
}

// CellTextColor returns the text color override of a cell, or an invalid color.
func (t *Table) CellTextColor(row, col int) Color {
	if !t.inRange(row, col) {
		return Color{}
	}
	return t.cellTextColors[cellKey(row, col)]
}

// HasCellTextColor reports whether a cell has a text color override.
func (t *Table) HasCellTextColor(row, col int) bool {
	_, ok := t.cellTextColors[cellKey(row, col)]
	return ok && t.inRange(row, col)
}

// AddColumn appends a column and fills every existing row with defaultValue.
// The column is numeric when defaultValue is numeric.
func (t *Table) AddColumn(name string, defaultValue Value) {
	newCols := t.cols + 1
	data := make([]Value, t.rows*newCols)
	for r := range t.rows {
		copy(data[r*newCols:r*newCols+t.cols], t.data[r*t.cols:(r+1)*t.cols])
		data[r*newCols+t.cols] = defaultValue
	}
	t.data = data
	t.colNames = append(t.colNames, name)
	t.colNumeric = append(t.colNumeric, defaultValue.IsNumeric())
	t.colMinMax = append(t.colMinMax, MinMax{})
	if t.source != nil {
		t.source.addLocal(defaultValue)
	}
	t.cols = newCols
}

// RemoveColumn removes the first column called name. It returns false, leaving
// the table untouched, when no column has that name.
func (t *Table) RemoveColumn(name string) bool {
	col := t.ColumnIndex(name)
	if col < 0 {
		return false
	}
	t.removeColumnAt(col)
	return true
}

// removeColumnAt deletes one column and keeps every parallel structure aligned.
func (t *Table) removeColumnAt(col int) {
	newCols := t.cols - 1
	data := make([]Value, t.rows*newCols)
	for r := range t.rows {
		src := t.data[r*t.cols : (r+1)*t.cols]
		dst := data[r*newCols : (r+1)*newCols]
		copy(dst, src[:col])
		copy(dst[col:], src[col+1:])
	}
	t.data = data
	t.colNames = slices.Delete(t.colNames, col, col+1)
	t.colNumeric = slices.Delete(t.colNumeric, col, col+1)
	t.colMinMax = slices.Delete(t.colMinMax, col, col+1)
	t.cellColors = shiftColumns(t.cellColors, col, -1)
	t.cellTextColors = shiftColumns(t.cellTextColors, col, -1)

	switch {
	case t.primaryKey == col:
		t.primaryKey = NoPrimaryKey
	case t.primaryKey > col:
		t.primaryKey--
	}
	if t.source != nil {
		t.source.remove(col)
	}
	t.cols = newCols
}

// shiftColumns moves overrides at or after col by delta columns. With a
// negative delta the overrides of col itself are dropped.
func shiftColumns(m map[uint64]Color, col, delta int) map[uint64]Color {
	out := make(map[uint64]Color, len(m))
	for k, c := range m {
		r, cc := splitKey(k)
		switch {
		case cc < col:
			out[k] = c
		case cc == col && delta < 0:
		default:
			out[cellKey(r, cc+delta)] = c
		}
	}
	return out
}

// shiftRows moves every override by delta rows.
func shiftRows(m map[uint64]Color, delta int) map[uint64]Color {
	out := make(map[uint64]Color, len(m))
	for k, c := range m {
		r, cc := splitKey(k)
		out[cellKey(r+delta, cc)] = c
	}
	return out
}

// Clear drops all data and metadata.
func (t *Table) Clear() {
	t.Resize(0, 0)
}

// Clone returns an independent deep copy, including any attached page source binding.
func (t *Table) Clone() *Table {
	c := &Table{
		rows:           t.rows,
		cols:           t.cols,
		data:           slices.Clone(t.data),
		colNames:       slices.Clone(t.colNames),
		colNumeric:     slices.Clone(t.colNumeric),
		colMinMax:      slices.Clone(t.colMinMax),
		primaryKey:     t.primaryKey,
		rowBarColors:   slices.Clone(t.rowBarColors),
		rowVisible:     slices.Clone(t.rowVisible),
		cellColors:     make(map[uint64]Color, len(t.cellColors)),
		cellTextColors: make(map[uint64]Color, len(t.cellTextColors)),
	}
	for k, v := range t.cellColors {
		c.cellColors[k] = v
	}
	for k, v := range t.cellTextColors {
		c.cellTextColors[k] = v
	}
	if t.source != nil {
		c.source = t.source.clone()
	}
	return c
}

// Permute returns a new table whose row i is row order[i] of t. Per-cell
// overrides, bar colors and visibility travel with their row. order must be a
// permutation of [0, RowCount).
func (t *Table) Permute(order []int) *Table {
	p := t.Clone()
	p.cellColors = make(map[uint64]Color, len(t.cellColors))
	p.cellTextColors = make(map[uint64]Color, len(t.cellTextColors))

	// newIndex maps an old row to its new position.
	newIndex := make([]int, t.rows)
	for newRow, oldRow := range order {
		copy(p.data[newRow*t.cols:(newRow+1)*t.cols], t.data[oldRow*t.cols:(oldRow+1)*t.cols])
		p.rowBarColors[newRow] = t.rowBarColors[oldRow]
		p.rowVisible[newRow] = t.rowVisible[oldRow]
		newIndex[oldRow] = newRow
	}
	for k, c := range t.cellColors {
		r, col := splitKey(k)
		p.cellColors[cellKey(newIndex[r], col)] = c
	}
	for k, c := range t.cellTextColors {
		r, col := splitKey(k)
		p.cellTextColors[cellKey(newIndex[r], col)] = c
	}
	return p
}
