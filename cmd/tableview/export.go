package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/tableview"
)

type exportOptions struct {
	format      string
	compression string
	sortBy      string
	desc        bool
}

func newExportCmd(a *app) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export INPUT OUTPUT",
		Short: "Convert a table to another format",
		Long: `export reads INPUT and writes it to OUTPUT. The output format and
compression follow the OUTPUT extension; when the extension names no known
format the settings file decides. --format and --compression override both.
Excel output keeps cell colors.`,
		Example: `  tableview export sales.csv sales.xlsx
  tableview export --sort amount logs.ltsv logs.parquet
  tableview export --format tsv --compression zstd data.csv data.out`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd, args[0], args[1], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: csv, tsv, ltsv, parquet or xlsx")
	cmd.Flags().StringVar(&opts.compression, "compression", "", "Output compression: none, gz, xz or zstd")
	cmd.Flags().StringVarP(&opts.sortBy, "sort", "s", "", "Sort by this column before writing")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort in descending order")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, in, out string, opts *exportOptions) error {
	options, err := a.exportOptions(out, opts)
	if err != nil {
		return err
	}

	vm, err := a.loadView(in)
	if err != nil {
		return err
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

	if err := tableview.ExportToFile(vm.Table(), out, options); err != nil {
		return err
	}
	a.logger.Debug("table exported", slog.String("path", out), slog.String("format", options.Format.String()))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", vm.RowCount(), out)
	return nil
}

// exportOptions resolves the output format: flags, then the file extension,
// then the settings file.
func (a *app) exportOptions(out string, opts *exportOptions) (tableview.ExportOptions, error) {
	options := tableview.ExportOptionsForPath(out)
	if _, ok := tableview.FormatFromPath(out); !ok {
		options = a.config.ExportOptions()
	}
	if opts.format != "" {
		format, ok := tableview.ParseOutputFormat(opts.format)
		if !ok {
			return options, fmt.Errorf("%w: %s", tableview.ErrUnsupportedFormat, opts.format)
		}
		options = options.WithFormat(format)
	}
	if opts.compression != "" {
		compression, ok := tableview.ParseCompressionType(opts.compression)
		if !ok {
			return options, fmt.Errorf("%w: compression %s", tableview.ErrUnsupportedFormat, opts.compression)
		}
		options = options.WithCompression(compression)
	}
	return options, nil
}
