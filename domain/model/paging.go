package model

import (
	"context"
	"fmt"
	"slices"
)

// ColumnInfo describes one column of a page source.
type ColumnInfo struct {
	Name    string
	Numeric bool
	Min     float64
	Max     float64
}

// PageSource is a larger backing table that a Table can page through.
// Size must not block; Columns and Block may.
type PageSource interface {
	// Size returns the full dimensions of the source.
	Size() (rows, cols int)
	// Columns describes n columns starting at col.
	Columns(ctx context.Context, col, n int) ([]ColumnInfo, error)
	// Block returns rows*cols values in row-major order starting at (row, col).
	Block(ctx context.Context, row, col, rows, cols int) ([]Value, error)
}

// Window is the position of a table's top-left cell inside its page source.
type Window struct {
	Row int
	Col int
}

type sourceBinding struct {
	src    PageSource
	window Window
	// span is the number of source columns fetched from window.Col onwards.
	span int
	// cols maps each table column to its source column, or -1 for a column
	// added locally. fill holds the value fetched rows get in a local column.
	cols []int
	fill []Value
}

func newSourceBinding(src PageSource, window Window, cols int) *sourceBinding {
	b := &sourceBinding{src: src, window: window, span: cols, cols: make([]int, cols), fill: make([]Value, cols)}
	for i := range b.cols {
		b.cols[i] = window.Col + i
	}
	return b
}

func (b *sourceBinding) clone() *sourceBinding {
	c := *b
	c.cols = slices.Clone(b.cols)
	c.fill = slices.Clone(b.fill)
	return &c
}

// addLocal records a column that exists only in the table.
func (b *sourceBinding) addLocal(fill Value) {
	b.cols = append(b.cols, -1)
	b.fill = append(b.fill, fill)
}

func (b *sourceBinding) remove(col int) {
	b.cols = slices.Delete(b.cols, col, col+1)
	b.fill = slices.Delete(b.fill, col, col+1)
}

// LoadWindow creates a table holding rows x cols cells of src starting at w
// and attaches src to it. The window is clipped to the source.
func LoadWindow(ctx context.Context, src PageSource, w Window, rows, cols int) (*Table, error) {
	total, totalCols := src.Size()
	w.Row = min(max(w.Row, 0), total)
	w.Col = min(max(w.Col, 0), totalCols)
	rows = min(max(rows, 0), total-w.Row)
	cols = min(max(cols, 0), totalCols-w.Col)

	infos, err := src.Columns(ctx, w.Col, cols)
	if err != nil {
		return nil, err
	}
	values, err := src.Block(ctx, w.Row, w.Col, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(infos) != cols || len(values) != rows*cols {
		return nil, fmt.Errorf("%w: want %dx%d", ErrShortBlock, rows, cols)
	}

	t := NewTable(rows, cols)
	copy(t.data, values)
	for i, info := range infos {
		t.applyColumnInfo(i, info)
	}
	t.AttachSource(src, w)
	return t, nil
}

// AttachSource binds a page source. window is the source position of the
// table's current (0, 0) cell and the table's columns are taken to be the
// source columns that follow it. A nil source detaches.
func (t *Table) AttachSource(src PageSource, window Window) {
	if src == nil {
		t.source = nil
		return
	}
	t.source = newSourceBinding(src, window, t.cols)
}

// Source returns the attached page source and window, or nil. The window
// column is the leftmost source column fetched so far.
func (t *Table) Source() (PageSource, Window) {
	if t.source == nil {
		return nil, Window{}
	}
	return t.source.src, t.source.window
}

func (t *Table) applyColumnInfo(col int, info ColumnInfo) {
	t.colNames[col] = info.Name
	t.colNumeric[col] = info.Numeric
	t.colMinMax[col] = MinMax{Min: info.Min, Max: info.Max}
}

func (t *Table) availableRowsTop() int {
	if t.source == nil {
		return 0
	}
	return t.source.window.Row
}

func (t *Table) availableRowsBottom() int {
	if t.source == nil {
		return 0
	}
	total, _ := t.source.src.Size()
	return max(total-t.source.window.Row-t.rows, 0)
}

func (t *Table) availableColsLeft() int {
	if t.source == nil {
		return 0
	}
	return t.source.window.Col
}

func (t *Table) availableColsRight() int {
	if t.source == nil {
		return 0
	}
	_, total := t.source.src.Size()
	return max(total-t.source.window.Col-t.source.span, 0)
}

// CanFetchMoreRowsTop reports whether rows exist above the loaded window.
func (t *Table) CanFetchMoreRowsTop(n int) bool {
	return n > 0 && t.availableRowsTop() > 0
}

// CanFetchMoreRowsBottom reports whether rows exist below the loaded window.
func (t *Table) CanFetchMoreRowsBottom(n int) bool {
	return n > 0 && t.availableRowsBottom() > 0
}

// CanFetchMoreColsLeft reports whether columns exist left of the loaded window.
func (t *Table) CanFetchMoreColsLeft(n int) bool {
	return n > 0 && t.availableColsLeft() > 0
}

// CanFetchMoreColsRight reports whether columns exist right of the loaded window.
func (t *Table) CanFetchMoreColsRight(n int) bool {
	return n > 0 && t.availableColsRight() > 0
}

// FetchMoreRowsTop prepends up to n rows and returns how many were added.
// Row metadata and cell overrides shift down with their rows.
func (t *Table) FetchMoreRowsTop(ctx context.Context, n int) (int, error) {
	n = min(n, t.availableRowsTop())
	if n <= 0 {
		return 0, nil
	}
	values, err := t.fetchRows(ctx, t.source.window.Row-n, n)
	if err != nil {
		return 0, err
	}

	t.data = append(values, t.data...)
	t.rowBarColors = append(make([]Color, n), t.rowBarColors...)
	t.rowVisible = append(trueSlice(n), t.rowVisible...)
	t.cellColors = shiftRows(t.cellColors, n)
	t.cellTextColors = shiftRows(t.cellTextColors, n)
	t.rows += n
	t.source.window.Row -= n
	return n, nil
}

// FetchMoreRowsBottom appends up to n rows and returns how many were added.
func (t *Table) FetchMoreRowsBottom(ctx context.Context, n int) (int, error) {
	n = min(n, t.availableRowsBottom())
	if n <= 0 {
		return 0, nil
	}
	values, err := t.fetchRows(ctx, t.source.window.Row+t.rows, n)
	if err != nil {
		return 0, err
	}

	t.data = append(t.data, values...)
	t.rowBarColors = append(t.rowBarColors, make([]Color, n)...)
	t.rowVisible = append(t.rowVisible, trueSlice(n)...)
	t.rows += n
	return n, nil
}

// FetchMoreColsLeft prepends up to n columns and returns how many were added.
// Cell overrides and the primary key shift right.
func (t *Table) FetchMoreColsLeft(ctx context.Context, n int) (int, error) {
	n = min(n, t.availableColsLeft())
	if n <= 0 {
		return 0, nil
	}
	w := t.source.window
	infos, values, err := t.fetchColumns(ctx, w.Col-n, n)
	if err != nil {
		return 0, err
	}

	t.spliceColumns(0, n, values)
	t.colNames = slices.Insert(t.colNames, 0, make([]string, n)...)
	t.colNumeric = slices.Insert(t.colNumeric, 0, make([]bool, n)...)
	t.colMinMax = slices.Insert(t.colMinMax, 0, make([]MinMax, n)...)
	for i, info := range infos {
		t.applyColumnInfo(i, info)
	}
	t.cellColors = shiftColumns(t.cellColors, 0, n)
	t.cellTextColors = shiftColumns(t.cellTextColors, 0, n)
	if t.primaryKey != NoPrimaryKey {
		t.primaryKey += n
	}
	t.source.cols = slices.Insert(t.source.cols, 0, make([]int, n)...)
	t.source.fill = slices.Insert(t.source.fill, 0, make([]Value, n)...)
	for i := range n {
		t.source.cols[i] = w.Col - n + i
	}
	t.source.window.Col -= n
	t.source.span += n
	return n, nil
}

// FetchMoreColsRight appends up to n columns and returns how many were added.
func (t *Table) FetchMoreColsRight(ctx context.Context, n int) (int, error) {
	n = min(n, t.availableColsRight())
	if n <= 0 {
		return 0, nil
	}
	w := t.source.window
	first := w.Col + t.source.span
	infos, values, err := t.fetchColumns(ctx, first, n)
	if err != nil {
		return 0, err
	}

	at := t.cols
	t.spliceColumns(at, n, values)
	t.colNames = append(t.colNames, make([]string, n)...)
	t.colNumeric = append(t.colNumeric, make([]bool, n)...)
	t.colMinMax = append(t.colMinMax, make([]MinMax, n)...)
	for i, info := range infos {
		t.applyColumnInfo(at+i, info)
		t.source.cols = append(t.source.cols, first+i)
		t.source.fill = append(t.source.fill, Value{})
	}
	t.source.span += n
	return n, nil
}

// fetchRows reads n source rows starting at row and lays them out in the
// table's column order. Local columns get their fill value.
func (t *Table) fetchRows(ctx context.Context, row, n int) ([]Value, error) {
	lo, hi := -1, -1
	for _, c := range t.source.cols {
		if c < 0 {
			continue
		}
		if lo < 0 || c < lo {
			lo = c
		}
		hi = max(hi, c)
	}

	var block []Value
	width := 0
	if lo >= 0 {
		width = hi - lo + 1
		var err error
		if block, err = t.fetchBlock(ctx, row, lo, n, width); err != nil {
			return nil, err
		}
	}

	out := make([]Value, n*t.cols)
	for r := range n {
		for i, c := range t.source.cols {
			v := t.source.fill[i]
			if c >= 0 {
				v = block[r*width+c-lo]
			}
			out[r*t.cols+i] = v
		}
	}
	return out, nil
}

func (t *Table) fetchBlock(ctx context.Context, row, col, rows, cols int) ([]Value, error) {
	values, err := t.source.src.Block(ctx, row, col, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrShortBlock, len(values), rows*cols)
	}
	return values, nil
}

func (t *Table) fetchColumns(ctx context.Context, col, n int) ([]ColumnInfo, []Value, error) {
	infos, err := t.source.src.Columns(ctx, col, n)
	if err != nil {
		return nil, nil, err
	}
	if len(infos) != n {
		return nil, nil, fmt.Errorf("%w: got %d columns, want %d", ErrShortBlock, len(infos), n)
	}
	values, err := t.fetchBlock(ctx, t.source.window.Row, col, t.rows, n)
	if err != nil {
		return nil, nil, err
	}
	return infos, values, nil
}

// spliceColumns inserts n columns at index at, taking their cells from a
// row-major rows x n block.
func (t *Table) spliceColumns(at, n int, block []Value) {
	newCols := t.cols + n
	data := make([]Value, t.rows*newCols)
	for r := range t.rows {
		src := t.data[r*t.cols : (r+1)*t.cols]
		dst := data[r*newCols : (r+1)*newCols]
		copy(dst, src[:at])
		copy(dst[at:at+n], block[r*n:(r+1)*n])
		copy(dst[at+n:], src[at:])
	}
	t.data = data
	t.cols = newCols
}

func trueSlice(n int) []bool {
	s := make([]bool, n)
	for i := range s {
		s[i] = true
	}
	return s
}
