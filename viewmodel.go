package tableview

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/nao1215/tableview/domain/colormap"
	"github.com/nao1215/tableview/domain/model"
)

// Role selects which channel of a cell a grid reads.
type Role int

const (
	// RoleDisplay is the plain cell value (model.Value).
	RoleDisplay Role = iota
	// RoleBarValue is the magnitude of a numeric cell in bar mode (float64).
	RoleBarValue
	// RoleBackground is the cell background (model.Color).
	RoleBackground
	// RoleForeground is the cell text color (model.Color).
	RoleForeground
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleDisplay:
		return "display"
	case RoleBarValue:
		return "bar"
	case RoleBackground:
		return "background"
	case RoleForeground:
		return "foreground"
	default:
		return "unknown"
	}
}

// Orientation selects the header of HeaderData.
type Orientation int

const (
	// Horizontal headers name columns.
	Horizontal Orientation = iota
	// Vertical headers number rows.
	Vertical
)

// Listener receives structural change notifications from a ViewModel.
type Listener interface {
	// ModelReset reports that everything may have changed.
	ModelReset()
	// RowsInserted reports rows first..last (inclusive) were inserted.
	RowsInserted(first, last int)
	// ColumnsInserted reports columns first..last (inclusive) were inserted.
	ColumnsInserted(first, last int)
	// ColumnChanged reports that the cells of one column must be repainted.
	ColumnChanged(col int)
}

// ListenerFuncs adapts optional functions to a Listener.
type ListenerFuncs struct {
	OnModelReset      func()
	OnRowsInserted    func(first, last int)
	OnColumnsInserted func(first, last int)
	OnColumnChanged   func(col int)
}

// ModelReset implements Listener.
func (l ListenerFuncs) ModelReset() {
	if l.OnModelReset != nil {
		l.OnModelReset()
	}
}

// RowsInserted implements Listener.
func (l ListenerFuncs) RowsInserted(first, last int) {
	if l.OnRowsInserted != nil {
		l.OnRowsInserted(first, last)
	}
}

// ColumnsInserted implements Listener.
func (l ListenerFuncs) ColumnsInserted(first, last int) {
	if l.OnColumnsInserted != nil {
		l.OnColumnsInserted(first, last)
	}
}

// ColumnChanged implements Listener.
func (l ListenerFuncs) ColumnChanged(col int) {
	if l.OnColumnChanged != nil {
		l.OnColumnChanged(col)
	}
}

// ViewModel exposes one Table to a grid widget: role based reads, sorting,
// palettes, column edits and lazy paging. It owns its table; SetData stores a
// copy and Table returns one.
//
// A ViewModel is not safe for concurrent use.
type ViewModel struct {
	table *model.Table
	// order maps each view row to its row in the data as loaded, which
	// changes when the view is sorted.
	order          []int
	showBars       bool
	palettes       map[int]colormap.ID
	defaultPalette colormap.ID
	listeners      map[int]Listener
	nextListener   int
	logger         *slog.Logger
}

// ViewModelOption configures a ViewModel.
type ViewModelOption func(*ViewModel)

// WithShowBars sets the initial display mode.
func WithShowBars(show bool) ViewModelOption {
	return func(vm *ViewModel) {
		vm.showBars = show
	}
}

// WithDefaultPalette sets the palette of columns without an explicit selection.
func WithDefaultPalette(id colormap.ID) ViewModelOption {
	return func(vm *ViewModel) {
		if id.Valid() {
			vm.defaultPalette = id
		}
	}
}

// WithViewLogger sets the logger.
func WithViewLogger(logger *slog.Logger) ViewModelOption {
	return func(vm *ViewModel) {
		if logger != nil {
			vm.logger = logger
		}
	}
}

// NewViewModel creates an empty view-model in value mode.
func NewViewModel(opts ...ViewModelOption) *ViewModel {
	vm := &ViewModel{
		table:          model.NewTable(0, 0),
		palettes:       make(map[int]colormap.ID),
		defaultPalette: colormap.Default,
		listeners:      make(map[int]Listener),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Subscribe registers a listener and returns a function that removes it.
func (vm *ViewModel) Subscribe(l Listener) (unsubscribe func()) {
	id := vm.nextListener
	vm.nextListener++
	vm.listeners[id] = l
	return func() {
		delete(vm.listeners, id)
	}
}

func (vm *ViewModel) notify(fn func(Listener)) {
	for _, l := range vm.listeners {
		fn(l)
	}
}

func (vm *ViewModel) reset() {
	vm.notify(func(l Listener) { l.ModelReset() })
}

// SetData replaces the table with a copy of t. A nil table clears the model.
func (vm *ViewModel) SetData(t *model.Table) {
	if t == nil {
		t = model.NewTable(0, 0)
	}
	vm.table = t.Clone()
	vm.order = identityOrder(vm.table.RowCount())
	vm.logger.Debug("view data replaced",
		slog.Int("rows", vm.table.RowCount()), slog.Int("columns", vm.table.ColumnCount()))
	vm.reset()
}

// Clear drops the table.
func (vm *ViewModel) Clear() {
	vm.SetData(nil)
}

// Table returns a copy of the current table.
func (vm *ViewModel) Table() *model.Table {
	return vm.table.Clone()
}

// RowCount returns the number of rows.
func (vm *ViewModel) RowCount() int {
	return vm.table.RowCount()
}

// ColumnCount returns the number of columns.
func (vm *ViewModel) ColumnCount() int {
	return vm.table.ColumnCount()
}

// HeaderData returns the column name for horizontal headers and the row
// index for vertical ones.
func (vm *ViewModel) HeaderData(section int, orientation Orientation) string {
	if orientation == Horizontal {
		return vm.table.ColumnName(section)
	}
	if section < 0 || section >= vm.table.RowCount() {
		return ""
	}
	return strconv.Itoa(section)
}

// Data reads one role of a cell. It returns nil when the role has no value
// for the cell.
func (vm *ViewModel) Data(row, col int, role Role) any {
	switch role {
	case RoleDisplay:
		if v, ok := vm.Display(row, col); ok {
			return v
		}
	case RoleBarValue:
		if f, ok := vm.BarValue(row, col); ok {
			return f
		}
	case RoleBackground:
		if c := vm.Background(row, col); c.Valid {
			return c
		}
	case RoleForeground:
		if c := vm.Foreground(row, col); c.Valid {
			return c
		}
	}
	return nil
}

// Display returns the plain value of a cell in both display modes.
func (vm *ViewModel) Display(row, col int) (model.Value, bool) {
	v, err := vm.table.Lookup(row, col)
	if err != nil {
		return model.Value{}, false
	}
	return v, true
}

// BarValue returns the bar magnitude of a numeric cell. It is only set in bar mode.
func (vm *ViewModel) BarValue(row, col int) (float64, bool) {
	if !vm.showBars || !vm.table.ColumnIsNumeric(col) {
		return 0, false
	}
	v, err := vm.table.Lookup(row, col)
	if err != nil {
		return 0, false
	}
	return v.Numeric()
}

// BarFraction returns the signed length of a cell's bar relative to the
// largest magnitude of its column, in [-1, 1].
func (vm *ViewModel) BarFraction(row, col int) (float64, bool) {
	v, ok := vm.BarValue(row, col)
	if !ok {
		return 0, false
	}
	minVal, maxVal := vm.table.ColumnMinMax(col)
	maxAbs := max(math.Abs(minVal), math.Abs(maxVal))
	if maxAbs < 1e-6 {
		maxAbs = 1
	}
	return max(-1, min(1, v/maxAbs)), true
}

// Background resolves the background of a cell: explicit override, then the
// column palette for numeric cells in value mode, then the row bar color.
// Text columns without an override have no background.
func (vm *ViewModel) Background(row, col int) model.Color {
	if vm.table.HasCellColor(row, col) {
		return vm.table.CellColor(row, col)
	}
	v, err := vm.table.Lookup(row, col)
	if err != nil {
		return model.Color{}
	}
	if !vm.table.ColumnIsNumeric(col) {
		return model.Color{}
	}
	if !vm.showBars {
		if f, ok := v.Numeric(); ok {
			return vm.paletteColor(col, f)
		}
	}
	return vm.table.RowBarColor(row)
}

func (vm *ViewModel) paletteColor(col int, v float64) model.Color {
	minVal, maxVal := vm.table.ColumnMinMax(col)
	if maxVal == minVal {
		return model.White
	}
	return colormap.Color((v-minVal)/(maxVal-minVal), vm.ColumnPalette(col))
}

// Foreground returns the text color override of a cell, or an invalid color.
func (vm *ViewModel) Foreground(row, col int) model.Color {
	return vm.table.CellTextColor(row, col)
}

// SetShowBars switches between bar mode and value mode.
func (vm *ViewModel) SetShowBars(show bool) {
	if vm.showBars == show {
		return
	}
	vm.showBars = show
	vm.reset()
}

// ShowBars reports whether the model is in bar mode.
func (vm *ViewModel) ShowBars() bool {
	return vm.showBars
}

// SetColumnPalette selects the palette of a column.
func (vm *ViewModel) SetColumnPalette(col int, id colormap.ID) {
	if !id.Valid() {
		return
	}
	vm.palettes[col] = id
	vm.notify(func(l Listener) { l.ColumnChanged(col) })
}

// ColumnPalette returns the palette of a column.
func (vm *ViewModel) ColumnPalette(col int) colormap.ID {
	if id, ok := vm.palettes[col]; ok {
		return id
	}
	return vm.defaultPalette
}

// ColumnPalettes returns every explicit palette selection.
func (vm *ViewModel) ColumnPalettes() map[int]colormap.ID {
	out := make(map[int]colormap.ID, len(vm.palettes))
	for k, v := range vm.palettes {
		out[k] = v
	}
	return out
}

// PrimaryKeyColumn returns the primary key column or model.NoPrimaryKey.
func (vm *ViewModel) PrimaryKeyColumn() int {
	return vm.table.PrimaryKeyColumn()
}

// IsNumericColumn reports whether a column is numeric.
func (vm *ViewModel) IsNumericColumn(col int) bool {
	return vm.table.ColumnIsNumeric(col)
}

// ColumnMinMax returns the numeric range of a column.
func (vm *ViewModel) ColumnMinMax(col int) (minVal, maxVal float64) {
	return vm.table.ColumnMinMax(col)
}

// AddColumn appends a column filled with defaultValue.
func (vm *ViewModel) AddColumn(name string, defaultValue model.Value) {
	vm.table.AddColumn(name, defaultValue)
	vm.reset()
}

// RemoveColumn removes the first column called name. Palette selections of
// later columns move with them.
func (vm *ViewModel) RemoveColumn(name string) bool {
	col := vm.table.ColumnIndex(name)
	if col < 0 {
		return false
	}
	vm.table.RemoveColumn(name)

	shifted := make(map[int]colormap.ID, len(vm.palettes))
	for c, id := range vm.palettes {
		switch {
		case c < col:
			shifted[c] = id
		case c > col:
			shifted[c-1] = id
		}
	}
	vm.palettes = shifted
	vm.reset()
	return true
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// DataRow returns the row of the data as loaded that view row r shows,
// or -1 when r is out of range.
func (vm *ViewModel) DataRow(r int) int {
	if r < 0 || r >= len(vm.order) {
		return -1
	}
	return vm.order[r]
}

// ViewRows maps rows of the data as loaded to the view rows showing them,
// preserving the input order. Unknown rows are skipped.
func (vm *ViewModel) ViewRows(dataRows []int) []int {
	view := make(map[int]int, len(vm.order))
	for r, d := range vm.order {
		view[d] = r
	}
	out := make([]int, 0, len(dataRows))
	for _, d := range dataRows {
		if r, ok := view[d]; ok {
			out = append(out, r)
		}
	}
	return out
}

// SelectionValues returns, for each selected row, the value of the first
// column followed by the primary key value when the table has a primary key
// other than the first column. Out of range rows are skipped.
func (vm *ViewModel) SelectionValues(rows []int) [][]model.Value {
	if vm.table.ColumnCount() == 0 {
		return nil
	}
	pk := vm.table.PrimaryKeyColumn()
	withKey := pk != model.NoPrimaryKey && pk != 0

	out := make([][]model.Value, 0, len(rows))
	for _, r := range rows {
		v, err := vm.table.Lookup(r, 0)
		if err != nil {
			continue
		}
		values := []model.Value{v}
		if withKey {
			values = append(values, vm.table.Get(r, pk))
		}
		out = append(out, values)
	}
	return out
}

// RequestMoreRowsTop fetches up to n rows above the loaded window.
func (vm *ViewModel) RequestMoreRowsTop(ctx context.Context, n int) (int, error) {
	if !vm.table.CanFetchMoreRowsTop(n) {
		return 0, nil
	}
	got, err := vm.table.FetchMoreRowsTop(ctx, n)
	if err != nil || got == 0 {
		return got, err
	}
	for i := range vm.order {
		vm.order[i] += got
	}
	vm.order = append(identityOrder(got), vm.order...)
	vm.notify(func(l Listener) { l.RowsInserted(0, got-1) })
	return got, nil
}

// RequestMoreRowsBottom fetches up to n rows below the loaded window.
func (vm *ViewModel) RequestMoreRowsBottom(ctx context.Context, n int) (int, error) {
	if !vm.table.CanFetchMoreRowsBottom(n) {
		return 0, nil
	}
	old := vm.table.RowCount()
	got, err := vm.table.FetchMoreRowsBottom(ctx, n)
	if err != nil || got == 0 {
		return got, err
	}
	for i := range got {
		vm.order = append(vm.order, old+i)
	}
	vm.notify(func(l Listener) { l.RowsInserted(old, old+got-1) })
	return got, nil
}

// RequestMoreColsLeft fetches up to n columns left of the loaded window.
// Palette selections shift with their columns.
func (vm *ViewModel) RequestMoreColsLeft(ctx context.Context, n int) (int, error) {
	if !vm.table.CanFetchMoreColsLeft(n) {
		return 0, nil
	}
	got, err := vm.table.FetchMoreColsLeft(ctx, n)
	if err != nil || got == 0 {
		return got, err
	}
	shifted := make(map[int]colormap.ID, len(vm.palettes))
	for col, id := range vm.palettes {
		shifted[col+got] = id
	}
	vm.palettes = shifted
	vm.notify(func(l Listener) { l.ColumnsInserted(0, got-1) })
	return got, nil
}

// RequestMoreColsRight fetches up to n columns right of the loaded window.
func (vm *ViewModel) RequestMoreColsRight(ctx context.Context, n int) (int, error) {
	if !vm.table.CanFetchMoreColsRight(n) {
		return 0, nil
	}
	old := vm.table.ColumnCount()
	got, err := vm.table.FetchMoreColsRight(ctx, n)
	if err != nil || got == 0 {
		return got, err
	}
	vm.notify(func(l Listener) { l.ColumnsInserted(old, old+got-1) })
	return got, nil
}
