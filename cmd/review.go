package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retailkpi/internal/config"
	"retailkpi/internal/report"
	"retailkpi/internal/ui"
)

func newReviewCmd(app *App) *cobra.Command {
	var (
		candidates int
		dryRun     bool
	)

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Map unmatched category values to canonical terms",
		Long: `List the category values that stayed below the match threshold and choose a
canonical term for each. The answers are saved as aliases in the config file
and applied on the next run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			raw, err := loadTables(cfg, app.Logger)
			if err != nil {
				return err
			}
			res, err := newPipeline(cfg, app.Logger).Clean(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if len(res.Unmatched) == 0 {
				ui.ShowSuccess("Every category value matches the vocabulary")
				return nil
			}

			ui.ShowHeader("Unmatched categories")
			report.NewRenderer(app.useColor()).RenderUnmatched(cmd.OutOrStdout(), res.Unmatched)

			matcher := newMatcher(cfg)
			aliases := map[string]string{}
			for _, u := range res.Unmatched {
				var labels, terms []string
				for _, c := range matcher.Candidates(u.Value, candidates) {
					labels = append(labels, fmt.Sprintf("%s (%.2f)", c.Term, c.Score))
					terms = append(terms, c.Term)
				}

				message := fmt.Sprintf("Map %q (%d rows) to:", u.Value, u.Count)
				term, decision, err := ui.ChooseTerm(app.Prompter, message, labels, terms, matcher.IsCanonical)
				if err != nil {
					return err
				}
				if decision == ui.DecisionQuit {
					break
				}
				if decision == ui.DecisionMapped {
					aliases[u.Value] = term
				}
			}

			if len(aliases) == 0 {
				ui.ShowInfo("No aliases chosen")
				return nil
			}

			keys := make([]string, 0, len(aliases))
			for k := range aliases {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %q -> %s\n", k, aliases[k])
			}

			if dryRun {
				ui.ShowInfo("Dry run, nothing saved")
				return nil
			}

			target := app.ConfigFile
			if target == "" {
				target = config.LocalConfigFile
			}
			save, err := app.Prompter.Confirm(fmt.Sprintf("Save %d aliases to %s?", len(aliases), target), true)
			if err != nil {
				return err
			}
			if !save {
				ui.ShowInfo("Nothing saved")
				return nil
			}
			if err := config.SaveAliases(target, aliases); err != nil {
				return err
			}
			app.Logger.Info("aliases saved", zap.String("path", target), zap.Int("count", len(aliases)))
			ui.ShowSuccess(fmt.Sprintf("Saved %d aliases to %s", len(aliases), target))
			return nil
		},
	}
	reviewCmd.Flags().IntVar(&candidates, "candidates", 3, "number of suggested terms per value")
	reviewCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the chosen aliases without saving them")
	return reviewCmd
}
