package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackfillCmd(app *App) *cobra.Command {
	var userID uint
	var daysAgo, days int
	var description string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Create a complete, answered session for past days",
		Long: "Generates a question set for each day and answers every question with a sample answer.\n" +
			"Days that already have questions are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if daysAgo < 0 {
				return fmt.Errorf("--days-ago must not be negative")
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			if description == "" {
				description = app.Description
			}
			if description == "" {
				description = DefaultBackfillDescription
			}

			out := cmd.OutOrStdout()
			today := app.today()
			for i := days - 1; i >= 0; i-- {
				day := today.AddDays(-(daysAgo + i))
				res, err := app.Admin.BackfillDay(cmd.Context(), userID, day, description, app.answers())
				if err != nil {
					return fmt.Errorf("backfill %s: %w", day, err)
				}
				if res.Skipped {
					fmt.Fprintf(out, "%s: questions already exist, skipped\n", day)
					continue
				}
				fmt.Fprintf(out, "%s: %d questions, %d answers, %d messages\n",
					day, res.Questions, res.Answers, res.Answers*2)
			}
			return nil
		},
	}

	cmd.Flags().UintVar(&userID, "user", 0, "User id")
	cmd.Flags().IntVar(&daysAgo, "days-ago", 1, "Most recent day to fill, counted back from today")
	cmd.Flags().IntVar(&days, "days", 1, "Number of consecutive days to fill, ending at --days-ago")
	cmd.Flags().StringVar(&description, "description", "", "Patient description for generation")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
