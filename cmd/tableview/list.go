package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/tableview"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [DIR]",
		Short: "List the tables tableview can read below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			tables, err := tableview.FindTables(os.DirFS(dir))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range tables {
				fmt.Fprintf(out, "%s\t%s\t%s\n", t.Name, t.Type, filepath.Join(dir, filepath.FromSlash(t.Path)))
			}
			return nil
		},
	}
}
