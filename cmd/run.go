package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addOutputFlags registers the report flags shared by run and all.
func addOutputFlags(fs *pflag.FlagSet) {
	fs.String("format", "table", "report format: table or csv")
	fs.String("out-dir", "", "also write the reports as CSV files into this directory")
	fs.String("sqlite", "", "save the run into this SQLite database")
	fs.Int("top", 0, "show the N categories with the highest GMROI")
	bindFlag(fs, "format", "output.format")
	bindFlag(fs, "out-dir", "output.dir")
	bindFlag(fs, "sqlite", "output.sqlite")
	bindFlag(fs, "top", "output.top")
}

func newRunCmd(app *App) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Compute GMROI and markdown per category",
		Long: `Load the three input tables, normalize and reconcile them, fill the gaps
between them and report GMROI and markdown per category.`,
		Example: `  retailkpi run
  retailkpi run --top 5
  retailkpi run --format csv --out-dir reports --sqlite runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runRetail(cmd.Context(), app, cmd.OutOrStdout())
			return err
		},
	}
	addOutputFlags(runCmd.Flags())
	return runCmd
}
