package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quizwiz/internal/app"
	"quizwiz/internal/domain"
	"quizwiz/internal/i18n"
)

// NewHistoryCmd prints the stored results and summary statistics.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent quiz results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			sortBy, _ := cmd.Flags().GetString("sort")
			out := cmd.OutOrStdout()
			results := rt.history.Leaderboard(app.ParseSortBy(sortBy))
			if len(results) == 0 {
				fmt.Fprintln(out, i18n.T(cmd.Context(), "NoResults"))
				return nil
			}
			writeResults(out, results)
			st := rt.history.Stats()
			fmt.Fprintln(out, i18n.Td(cmd.Context(), "StatsLine", map[string]any{
				"Quizzes":  st.Quizzes,
				"Passed":   st.Passed,
				"Best":     st.BestScore,
				"Average":  st.AverageScore,
				"Accuracy": st.Accuracy,
			}))
			return nil
		},
	}
	cmd.Flags().String("sort", string(app.SortByScore), "order by score or date")
	return cmd
}

func writeResults(out io.Writer, results []domain.Result) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tCATEGORY\tDIFFICULTY\tSCORE\tCORRECT\tTIME")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t%d/%d\t%s\n",
			i+1, r.Date, r.Category, r.Difficulty, r.Score, r.CorrectAnswers, r.TotalQuestions, formatSeconds(r.TimeTaken))
	}
	tw.Flush()
}
