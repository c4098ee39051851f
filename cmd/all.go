package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retailkpi/internal/ui"
	apperrors "retailkpi/pkg/errors"
)

// Analyses known to the runner.
const (
	AnalysisRetail = "retail"
	AnalysisScrape = "scrape"
)

func newAllCmd(app *App) *cobra.Command {
	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Run every configured analysis in sequence",
		Long: `Run the analyses listed in runner.analyses one after another. A failing
analysis is reported and the next one still runs; the exit status is non-zero
when any of them failed.`,
		Example: `  retailkpi all
  retailkpi all --analyses retail`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			tracker := ui.NewTracker()

			for _, name := range app.Config.Runner.Analyses {
				if err := ctx.Err(); err != nil {
					return err
				}
				tracker.Begin(name)

				var err error
				switch name {
				case AnalysisRetail:
					_, err = runRetail(ctx, app, w)
				case AnalysisScrape:
					_, err = runScrape(ctx, app, w)
				default:
					err = apperrors.Newf(apperrors.ErrCodeUserInput, "unknown analysis %q", name)
				}
				if err != nil {
					app.Logger.Warn("analysis failed", zap.String("analysis", name), zap.Error(err))
					ui.ShowWarning(fmt.Sprintf("%s failed: %s", name, firstLine(err.Error())))
				}
				tracker.End(err)
			}

			tracker.Finish()
			if failed := tracker.Failed(); failed > 0 {
				return apperrors.Newf(apperrors.ErrCodeStageFailed, "%d of %d analyses failed", failed, len(tracker.Steps()))
			}
			return nil
		},
	}

	addOutputFlags(allCmd.Flags())
	allCmd.Flags().StringSlice("analyses", nil, "analyses to run (retail, scrape)")
	bindFlag(allCmd.Flags(), "analyses", "runner.analyses")
	return allCmd
}
