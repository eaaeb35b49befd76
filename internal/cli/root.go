// Package cli implements the pledge command tree. Commands parse flags,
// resolve defaults such as "today" and delegate to the adapters built by
// the wire package.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/config"
	"github.com/example/pledge/internal/core/schedule"
	"github.com/example/pledge/internal/version"
	"github.com/example/pledge/internal/wire"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	UserID     string
}

// NewRootCommand creates the root command for the pledge CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "pledge",
		Short:   "pledge - keep the promises behind your goals",
		Version: version.String(),
		Long: `pledge tracks sprint goals, the recurring promises that serve them and
the days each promise was kept. Reviews score how much logged effort turned
into kept promises and flag patterns worth a second look.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configure()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $PLEDGE_CONFIG or ~/.pledge/config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.UserID, "user", "u", "", "user id (default from config)")

	cmd.AddCommand(NewSprintCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewDayCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// configure loads the config file, applies --user and hands the result to wire.
func (o *RootOptions) configure() error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.UserID != "" {
		cfg.UserID = o.UserID
	}
	o.UserID = cfg.UserID
	wire.Configure(cfg)
	return nil
}

// today returns the current date in the configured time zone.
func today() string {
	return schedule.FormatDate(schedule.DateOf(wire.Clock().Now()))
}

// dateOrToday returns value, or today when it is empty.
func dateOrToday(value string) string {
	if value == "" {
		return today()
	}
	return value
}
