package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/pledge/internal/wire"
)

// NewSprintCommand creates the sprint command group.
func NewSprintCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints",
		Long:  "Create, list, show and delete sprints. Goals and promises are edited with 'pledge plan'.",
	}

	cmd.AddCommand(newSprintCreateCommand(opts))
	cmd.AddCommand(newSprintListCommand(opts))
	cmd.AddCommand(newSprintShowCommand(opts))
	cmd.AddCommand(newSprintDeleteCommand(opts))
	return cmd
}

func newSprintCreateCommand(opts *RootOptions) *cobra.Command {
	var name, start, end string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapter(cmd.OutOrStdout()).Create(cmd.Context(), opts.UserID, name, start, end)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "sprint name")
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newSprintListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your sprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapter(cmd.OutOrStdout()).List(cmd.Context(), opts.UserID)
		},
	}
}

func newSprintShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [sprint-id]",
		Short: "Show a sprint's goals and promises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0], opts.UserID)
		},
	}
}

func newSprintDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [sprint-id]",
		Short: "Delete a sprint with its goals, promises and logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapter(cmd.OutOrStdout()).Delete(cmd.Context(), args[0], opts.UserID)
		},
	}
}
