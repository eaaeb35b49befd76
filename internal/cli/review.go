package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/app"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/wire"
)

// NewReviewCommand creates the review command group. Every review prints
// the same report; --pdf also writes it to a file.
func NewReviewCommand(opts *RootOptions) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Score a week, a month or a sprint",
	}
	cmd.PersistentFlags().StringVar(&pdfPath, "pdf", "", "also write the review to this PDF file")

	show := func(cmd *cobra.Command, req primary.ReviewRequest) error {
		return wire.ReviewAdapter(cmd.OutOrStdout()).Show(cmd.Context(), req, pdfPath)
	}

	var date string
	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Review the Monday-to-Sunday week containing --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := schedule.ParseDate(dateOrToday(date))
			if err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
			}
			return show(cmd, app.WeekReview(opts.UserID, d))
		},
	}
	weekCmd.Flags().StringVarP(&date, "date", "d", "", "any day of the week (default today)")

	var month string
	monthCmd := &cobra.Command{
		Use:   "month",
		Short: "Review a calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = wire.Clock().Now().Format("2006-01")
			}
			req, err := app.MonthReview(opts.UserID, month)
			if err != nil {
				return err
			}
			return show(cmd, req)
		},
	}
	monthCmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default this month)")

	sprintCmd := &cobra.Command{
		Use:   "sprint [sprint-id]",
		Short: "Review a whole sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, primary.ReviewRequest{UserID: opts.UserID, SprintID: args[0]})
		},
	}

	cmd.AddCommand(weekCmd, monthCmd, sprintCmd)
	return cmd
}
