package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-health-assistant/internal/domain"
)

// dayFlag resolves --date (YYYY-MM-DD) or, when empty, --days-ago.
func dayFlag(app *App, date string, daysAgo int) (domain.Day, error) {
	if date != "" {
		return domain.ParseDay(date)
	}
	if daysAgo < 0 {
		return "", fmt.Errorf("--days-ago must not be negative")
	}
	return app.today().AddDays(-daysAgo), nil
}

func newResetCmd(app *App) *cobra.Command {
	var userID uint
	var daysAgo int
	var date string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete a day's questions, answers and transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayFlag(app, date, daysAgo)
			if err != nil {
				return err
			}
			n, err := app.Admin.ResetDay(cmd.Context(), userID, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted %d questions, %d answers, %d messages\n",
				day, n.Questions, n.Answers, n.Messages)
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "User id")
	cmd.Flags().IntVar(&daysAgo, "days-ago", 0, "Day to reset, counted back from today")
	cmd.Flags().StringVar(&date, "date", "", "Day to reset (YYYY-MM-DD); overrides --days-ago")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newSeedQuestionsCmd(app *App) *cobra.Command {
	var userID uint
	var questions []string
	var reset bool
	var date string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Insert hand-written questions into a day's set",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayFlag(app, date, 0)
			if err != nil {
				return err
			}
			rows, err := app.Admin.SeedQuestions(cmd.Context(), userID, questions, reset, day, app.now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, q := range rows {
				fmt.Fprintf(out, "%d\t%d\t%s\n", q.ID, q.Position, q.Text)
			}
			fmt.Fprintf(out, "%s: inserted %d questions\n", day, len(rows))
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "User id")
	cmd.Flags().StringArrayVarP(&questions, "question", "q", nil, "Question text (repeatable)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Clear the day before inserting")
	cmd.Flags().StringVar(&date, "date", "", "Day (YYYY-MM-DD); default today")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("question")

	return cmd
}
