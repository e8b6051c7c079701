// Command tableview renders, exports and browses tables from CSV, TSV, LTSV,
// Excel and Parquet files with per-column color palettes.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/tableview"
)

// app holds the settings shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	config tableview.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tableview",
		Short: "Colored table viewer for delimited, Excel and Parquet files",
		Long: `tableview reads a table from a CSV, TSV, LTSV, Excel or Parquet file
(optionally compressed with gzip, bzip2, xz or zstd), colors numeric columns
with a palette and shows, exports or interactively browses it.

Settings are read from a YAML file (see --config); flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "tableview.yaml", "Path to the YAML settings file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages to stderr")

	rootCmd.AddCommand(newShowCmd(a), newExportCmd(a), newBrowseCmd(a), newListCmd())
	return rootCmd
}

// init loads the settings file and sets up logging.
func (a *app) init(stderr io.Writer) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := tableview.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger.Debug("settings loaded", slog.String("path", a.configPath))
	return nil
}

// viewModel creates a view model from the settings.
func (a *app) viewModel() *tableview.ViewModel {
	opts := append(a.config.ViewModelOptions(), tableview.WithViewLogger(a.logger))
	return tableview.NewViewModel(opts...)
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
