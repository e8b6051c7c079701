package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/tableview"
	"github.com/nao1215/tableview/domain/colormap"
)

type showOptions struct {
	palette  string
	bars     bool
	sortBy   string
	desc     bool
	limit    int
	colWidth int
}

func newShowCmd(a *app) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a colored table",
		Example: `  tableview show sales.csv
  tableview show --palette RdBu --sort amount --desc sales.xlsx
  tableview show --bars --limit 50 logs.ltsv.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.palette, "palette", "p", "", "Palette for every numeric column (default from settings)")
	cmd.Flags().BoolVarP(&opts.bars, "bars", "b", false, "Draw numeric cells as bars")
	cmd.Flags().StringVarP(&opts.sortBy, "sort", "s", "", "Sort by this column")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of rows to print (0 prints every row)")
	cmd.Flags().IntVarP(&opts.colWidth, "width", "w", 0, "Fixed column width (0 sizes columns to their content)")
	return cmd
}

func (a *app) runShow(cmd *cobra.Command, path string, opts *showOptions) error {
	vm, err := a.loadView(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("bars") {
		vm.SetShowBars(opts.bars)
	}
	if opts.palette != "" {
		id, ok := colormap.Lookup(opts.palette)
		if !ok {
			return fmt.Errorf("%w: %s", tableview.ErrUnknownPalette, opts.palette)
		}
		for c := range vm.ColumnCount() {
			vm.SetColumnPalette(c, id)
		}
	}
	if opts.sortBy != "" {
		order := tableview.Ascending
		if opts.desc {
			order = tableview.Descending
		}
		if err := vm.SortByName(opts.sortBy, order); err != nil {
			return err
		}
	}

	g := fullGrid(vm, opts.limit)
	g.cellWidth = opts.colWidth
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, g.render())
	if g.rows < vm.RowCount() {
		fmt.Fprintln(out, indexStyle.Render(fmt.Sprintf("… %d more rows", vm.RowCount()-g.rows)))
	}
	return nil
}

// loadView reads a file into a new view model.
func (a *app) loadView(path string) (*tableview.ViewModel, error) {
	inputs, err := tableview.LoadFile(path)
	if err != nil {
		return nil, err
	}
	table := tableview.BuildFromColumns(inputs, tableview.WithLogger(a.logger))
	a.logger.Debug("table loaded", slog.String("path", path),
		slog.Int("rows", table.RowCount()), slog.Int("columns", table.ColumnCount()))

	vm := a.viewModel()
	vm.SetData(table)
	return vm, nil
}
