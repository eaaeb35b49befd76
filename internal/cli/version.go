package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/version"
)

// NewVersionCommand creates the version command. It needs no configuration.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:              "version",
		Short:            "Print the pledge version",
		Args:             cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
