package tableview_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nao1215/tableview"
	"github.com/nao1215/tableview/domain/colormap"
	"github.com/nao1215/tableview/domain/model"
	"github.com/nao1215/tableview/pagestore"
)

// ExampleBuildFromMap builds a table from columns keyed by name. Numeric
// columns get a blue, white, red background from their minimum to their
// maximum; text columns keep plain cells.
func ExampleBuildFromMap() {
	table := tableview.BuildFromMap(map[string][]any{
		"city":  {"Osaka", "Sapporo", "Tokyo"},
		"delta": {-4.0, 0.0, 4.0},
	})

	vm := tableview.NewViewModel()
	vm.SetData(table)
	for r := range vm.RowCount() {
		city, _ := vm.Display(r, 0)
		delta, _ := vm.Display(r, 1)
		fmt.Printf("%-8s %3s %s\n", city, delta, vm.Background(r, 1).Hex())
	}
	// Output:
	// Osaka     -4 #0000ff
	// Sapporo    0 #ffffff
	// Tokyo      4 #ff0000
}

// ExampleViewModel_Sort sorts the rows of a view and switches a column to
// another palette.
func ExampleViewModel_Sort() {
	vm := tableview.NewViewModel(tableview.WithShowBars(true))
	vm.SetData(tableview.BuildFromMap(map[string][]any{
		"name":  {"b", "c", "a"},
		"score": {2, 3, 1},
	}, tableview.WithNumericGradient(false)))

	if err := vm.SortByName("score", tableview.Descending); err != nil {
		log.Fatal(err)
	}
	vm.SetColumnPalette(1, colormap.RdBu)

	for r := range vm.RowCount() {
		name, _ := vm.Display(r, 0)
		frac, _ := vm.BarFraction(r, 1)
		fmt.Printf("%s %-4s %.2f\n", name, strings.Repeat("#", int(frac*4)), frac)
	}
	fmt.Println(vm.ColumnPalette(1))
	// Output:
	// c #### 1.00
	// b ##   0.67
	// a #    0.33
	// RdBu
}

// ExampleWriteTable writes the rows of a table as CSV.
func ExampleWriteTable() {
	table := tableview.BuildFromMap(map[string][]any{
		"id":   {1, 2},
		"note": {"plain", "needs, quoting"},
	})

	opts := tableview.NewExportOptions().WithFormat(tableview.OutputFormatCSV)
	if err := tableview.WriteTable(os.Stdout, table, opts); err != nil {
		log.Fatal(err)
	}
	fmt.Println()
	// Output:
	// id,note
	// 1,plain
	// 2,"needs, quoting"
}

// ExampleLazyLoader pages through a table held in SQLite. Only a window of
// the rows is loaded; a viewport near the bottom edge loads the next chunk.
func ExampleLazyLoader() {
	ctx := context.Background()

	var b strings.Builder
	b.WriteString("id,value\n")
	for i := range 1000 {
		fmt.Fprintf(&b, "%d,%d\n", i, i*i)
	}
	store, err := tableview.StreamReaderToStore(ctx, strings.NewReader(b.String()), tableview.FileTypeCSV, ":memory:", "squares")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	window, err := model.LoadWindow(ctx, store, model.Window{}, 100, 2)
	if err != nil {
		log.Fatal(err)
	}
	vm := tableview.NewViewModel()
	vm.SetData(window)

	loader := tableview.NewLazyLoader(vm, tableview.LazyConfig{RowThreshold: 20, RowChunk: 50})
	res, err := loader.Check(ctx, tableview.Viewport{FirstRow: 70, LastRow: 95, FirstCol: 0, LastCol: 1})
	if err != nil {
		log.Fatal(err)
	}

	last, _ := vm.Display(vm.RowCount()-1, 1)
	fmt.Println("loaded:", res.Bottom, "rows:", vm.RowCount(), "last value:", last)
	// Output:
	// loaded: 50 rows: 150 last value: 22201
}

// Example_pageSource shows the page store satisfying the paging contract.
func Example_pageSource() {
	var _ model.PageSource = (*pagestore.Store)(nil)
	fmt.Println("ok")
	// Output:
	// ok
}
