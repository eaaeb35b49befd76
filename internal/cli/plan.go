package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/wire"
)

// NewPlanCommand creates the plan command group.
func NewPlanCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Edit a sprint's goals and promises as a YAML plan",
		Long: `A plan lists a sprint's goals and their promises. 'export' prints the
current plan with ids; edit it and 'apply' it back. Entries without an id
are created, entries missing from the plan are deleted.`,
	}

	cmd.AddCommand(newPlanApplyCommand(opts))
	cmd.AddCommand(newPlanExportCommand(opts))
	return cmd
}

func newPlanApplyCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply [sprint-id]",
		Short: "Reconcile a sprint against a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open plan: %w", err)
				}
				defer f.Close()
				r = f
			}
			return wire.SprintAdapter(cmd.OutOrStdout()).ApplyPlan(cmd.Context(), args[0], opts.UserID, r)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "plan file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPlanExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [sprint-id]",
		Short: "Print a sprint's current plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapter(cmd.OutOrStdout()).ExportPlan(cmd.Context(), args[0], opts.UserID)
		},
	}
}
