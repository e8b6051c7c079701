package tableview

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nao1215/tableview/domain/model"
)

// SortOrder is the direction of a sort.
type SortOrder int

const (
	// Ascending sorts smallest first.
	Ascending SortOrder = iota
	// Descending sorts largest first.
	Descending
)

// String returns the order name
func (o SortOrder) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// valueLess orders two cells of the sort column. A text cell on either side
// compares both sides by their display text; otherwise numbers compare
// numerically.
func valueLess(a, b model.Value) bool {
	if a.Kind() == model.KindText {
		return a.String() < b.String()
	}
	da, _ := a.Numeric()
	if b.Kind() == model.KindText {
		return a.String() < b.String()
	}
	db, _ := b.Numeric()
	return da < db
}

// sortOrder returns the stable permutation of rows that sorts column col.
func sortOrder(t *model.Table, col int, order SortOrder) []int {
	rows := make([]int, t.RowCount())
	for i := range rows {
		rows[i] = i
	}
	keys := t.Column(col)
	less := func(a, b int) bool { return valueLess(keys[a], keys[b]) }
	if order == Descending {
		less = func(a, b int) bool { return valueLess(keys[b], keys[a]) }
	}
	slices.SortStableFunc(rows, func(a, b int) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	})
	return rows
}

// Sort reorders the rows by one column. Equal keys keep their relative order
// and every row keeps its cell overrides, bar color and visibility.
// An out of range column is ignored.
func (vm *ViewModel) Sort(col int, order SortOrder) {
	if col < 0 || col >= vm.table.ColumnCount() {
		return
	}
	perm := sortOrder(vm.table, col, order)
	vm.table = vm.table.Permute(perm)
	sorted := make([]int, len(perm))
	for i, r := range perm {
		sorted[i] = vm.order[r]
	}
	vm.order = sorted
	vm.logger.Debug("sorted view",
		slog.String("column", vm.table.ColumnName(col)), slog.String("order", order.String()))
	vm.reset()
}

// SortByName sorts by the column called name.
func (vm *ViewModel) SortByName(name string, order SortOrder) error {
	col := vm.table.ColumnIndex(name)
	if col < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	vm.Sort(col, order)
	return nil
}
