package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteResult reports a removed schedule.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (r DeleteResult) String() string {
	return fmt.Sprintf("Deleted %s", r.ID)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a stored schedule and its runs",
		Long: `Remove a stored schedule, its periods and its runs. The ID may be any
unique prefix.

Example:
  dasha delete --db ./dasha.db 3f9a`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := rootOpts.openStore(cmd, map[string]string{"db": "db"})
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			id, err := resolveStored(ctx, st, args[0])
			if err != nil {
				return err
			}
			deleted, err := st.DeleteSchedule(ctx, id)
			if err != nil {
				return WrapExitError(ExitCommandError, CodeStore, "failed to delete schedule", err)
			}
			rootOpts.logger().Info("schedule deleted", "id", id)

			return rootOpts.formatter(cmd).Success(DeleteResult{ID: id, Deleted: deleted})
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to SQLite database")

	return cmd
}
