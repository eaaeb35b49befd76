package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/wire"
)

// NewLogCommand creates the log command: record a promise as kept or missed.
func NewLogCommand(opts *RootOptions) *cobra.Command {
	var (
		date       string
		missed     bool
		dailyLogID string
	)

	cmd := &cobra.Command{
		Use:   "log [promise-id]",
		Short: "Log a promise as kept (or --missed) for a day",
		Long:  "Logging the same promise and day again replaces the earlier entry.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter(cmd.OutOrStdout()).Log(cmd.Context(), primary.LogCompletionRequest{
				PromiseID:  args[0],
				Date:       dateOrToday(date),
				Completed:  !missed,
				UserID:     opts.UserID,
				DailyLogID: dailyLogID,
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to log (default today)")
	cmd.Flags().BoolVar(&missed, "missed", false, "record the promise as not kept")
	cmd.Flags().StringVar(&dailyLogID, "daily-log", "", "link the entry to a daily log id")

	cmd.AddCommand(newLogClearTodayCommand(opts))
	return cmd
}

func newLogClearTodayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-today [promise-id]",
		Short: "Remove today's log of a promise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter(cmd.OutOrStdout()).ClearToday(cmd.Context(), args[0], opts.UserID)
		},
	}
}
