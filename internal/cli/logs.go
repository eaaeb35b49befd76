package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/wire"
)

// NewLogsCommand creates the logs command group for reading the ledger.
func NewLogsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show logged completions",
	}

	var week string
	weekCmd := &cobra.Command{
		Use:   "week [promise-id]",
		Short: "Show a promise's logs for the week containing --week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter(cmd.OutOrStdout()).Week(cmd.Context(), args[0], opts.UserID, dateOrToday(week))
		},
	}
	weekCmd.Flags().StringVarP(&week, "week", "w", "", "any day of the week (default today)")

	sprintCmd := &cobra.Command{
		Use:   "sprint [sprint-id]",
		Short: "Show the logs of every promise in a sprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter(cmd.OutOrStdout()).Sprint(cmd.Context(), args[0], opts.UserID)
		},
	}

	var from, to string
	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "Show all your logs between two dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter(cmd.OutOrStdout()).Range(cmd.Context(), opts.UserID, from, to)
		},
	}
	rangeCmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	rangeCmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	_ = rangeCmd.MarkFlagRequired("from")
	_ = rangeCmd.MarkFlagRequired("to")

	cmd.AddCommand(weekCmd, sprintCmd, rangeCmd)
	return cmd
}
