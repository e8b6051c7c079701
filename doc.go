// Package tableview turns point datasets and tabular files into a colored,
// sortable, lazily paged table for a grid widget.
//
// A table view is built from four parts:
//
//   - domain/model holds the Table store: typed cells, column metadata,
//     sparse color overrides, a row filter and a paged window over a
//     PageSource.
//   - TableBuilder shapes keyed columnar input or a flattened point dataset
//     into a Table, typing columns and computing cell colors.
//   - domain/colormap maps a normalized value to a color from one of the
//     built-in palettes.
//   - ViewModel exposes a Table to a grid by role (display, bar, background,
//     foreground), and adds sorting, palettes, column edits and paging.
//
// # Features
//
//   - Numeric and categorical columns inferred from the data
//   - Per-column palettes, bar mode and label colors with contrast text
//   - Lazy loading of rows and columns near the edges of the viewport
//   - Load and export CSV, TSV, LTSV, Parquet and Excel (XLSX) files,
//     optionally compressed (gzip, bzip2, xz, zstandard)
//   - Host integration through dataset interfaces and an event session
//
// # Basic Usage
//
//	columns, err := tableview.LoadFile("points.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vm := tableview.NewViewModel()
//	vm.SetData(tableview.BuildFromColumns(columns))
//	vm.SetColumnPalette(0, colormap.Magma)
//	vm.Sort(0, tableview.Descending)
//
//	background := vm.Background(0, 0)
//
// # Host Datasets
//
// A host exposes its data through PointDataset and ClusterDataset. A Session
// rebuilds the view whenever the host reports a change:
//
//	session := tableview.NewSession(vm)
//	session.SetDataset(points)
//	session.Attach(host)
//	defer session.Close()
//
// # Lazy Loading
//
// Tables attached to a model.PageSource (for example a pagestore.Store) load
// a window of the source and grow it on demand:
//
//	loader := tableview.NewLazyLoader(vm, tableview.DefaultLazyConfig())
//	res, err := loader.Check(ctx, tableview.Viewport{FirstRow: 0, LastRow: 40, LastCol: 8})
//
// Large CSV and TSV files can be copied into a store in batches without
// loading them into memory first:
//
//	store, err := tableview.StreamToStore(ctx, "big.csv.zst", "big.db", "data",
//	    tableview.WithChunkRows(5000), tableview.WithMemoryLimit(tableview.NewMemoryLimit(512)))
//	table, err := model.LoadWindow(ctx, store, model.Window{}, 1000, 20)
//
// # Export
//
//	err := tableview.ExportToFile(vm.Table(), "out.xlsx")
package tableview
