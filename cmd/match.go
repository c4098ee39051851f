package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"retailkpi/internal/normalize"
	"retailkpi/internal/ui"
)

func newMatchCmd(app *App) *cobra.Command {
	var limit int

	matchCmd := &cobra.Command{
		Use:   "match <category>",
		Short: "Show how a category value is normalized and reconciled",
		Example: `  retailkpi match "ElectrÃ³nika"
  retailkpi match ropa ninos --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			input := strings.Join(args, " ")
			normalized := normalize.Category(&input)

			fmt.Fprintf(w, "Input:      %q\n", input)
			if normalized == nil || *normalized == "" {
				ui.ShowWarning("the value normalizes to an empty category")
				return nil
			}
			fmt.Fprintf(w, "Normalized: %q\n", *normalized)

			matcher := newMatcher(app.Config)
			match, ok := matcher.Resolve(*normalized)
			if ok {
				fmt.Fprintf(w, "Result:     %s (%s)\n", ui.ColorSuccess(match.Term), ui.FormatScore(match.Score, matcher.Threshold))
			} else {
				fmt.Fprintf(w, "Result:     %s, kept as %q (best %s at %s)\n",
					ui.ColorWarning("no match"), *normalized, match.Term, ui.FormatScore(match.Score, matcher.Threshold))
			}

			fmt.Fprintln(w, "Candidates:")
			for i, c := range matcher.Candidates(*normalized, limit) {
				fmt.Fprintf(w, "  %d. %-22s %s\n", i+1, c.Term, ui.FormatScore(c.Score, matcher.Threshold))
			}
			return nil
		},
	}
	matchCmd.Flags().IntVar(&limit, "limit", 5, "number of candidates to show")
	return matchCmd
}
