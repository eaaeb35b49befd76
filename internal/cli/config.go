package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/config"
)

// NewConfigCommand creates the config command. Its subcommands work on the
// config file itself, so they skip the root's configure step.
func NewConfigCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:              "config",
		Short:            "Manage the pledge config file",
		PersistentPreRun: func(*cobra.Command, []string) {},
	}
	cmd.AddCommand(newConfigInitCommand(opts))
	return cmd
}

func newConfigInitCommand(opts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Long: `Write the effective configuration (defaults, then PLEDGE_* variables,
then --user) to the config file. An existing file is kept unless --force
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(opts.ConfigPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if opts.UserID != "" {
				cfg.UserID = opts.UserID
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
