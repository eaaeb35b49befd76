package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/ports/primary"
	"github.com/example/pledge/internal/wire"
)

// NewDayCommand creates the day command: record energy and effort units.
func NewDayCommand(opts *RootOptions) *cobra.Command {
	var (
		date                string
		energy, motion, act int
		note                string
	)

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Record a day's energy and effort",
		Long: `Motion units count busy work (planning, researching, tidying); action
units count work that moves a promise forward. Energy is 1 (drained) to 5.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter(cmd.OutOrStdout()).Day(cmd.Context(), primary.RecordDayRequest{
				UserID:      opts.UserID,
				Date:        dateOrToday(date),
				Energy:      energy,
				MotionUnits: motion,
				ActionUnits: act,
				Note:        note,
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "day to record (default today)")
	cmd.Flags().IntVarP(&energy, "energy", "e", 0, "energy from 1 to 5")
	cmd.Flags().IntVar(&motion, "motion", 0, "motion units")
	cmd.Flags().IntVar(&act, "action", 0, "action units")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("energy")
	return cmd
}
