package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Depth    int
	Active   string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored schedule",
		Long: `Print a schedule stored by compute --db. The ID may be any unique prefix.

The stored tree is checked against its hash before printing; a mismatch
exits with status 1.

Examples:
  dasha show --db ./dasha.db 3f9a
  dasha show --db ./dasha.db 3f9a --depth 2 --active 2010-06-01T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().IntVar(&opts.Depth, "depth", 3, "levels to print: 1 majors, 2 subs, 3 subsubs")
	cmd.Flags().StringVar(&opts.Active, "active", "", "also report the periods active at this RFC 3339 instant")

	return cmd
}

func runShow(opts *ShowOptions, prefix string, cmd *cobra.Command) error {
	if err := checkDepth(opts.Depth); err != nil {
		return err
	}
	st, err := opts.openStore(cmd, map[string]string{"db": "db"})
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	id, err := resolveStored(ctx, st, prefix)
	if err != nil {
		return err
	}

	sched, err := st.ReadSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return WrapExitError(ExitFailure, CodeStore, "stored schedule failed verification", err)
		}
		return WrapExitError(ExitCommandError, CodeStore, "failed to read schedule", err)
	}

	view := newScheduleView(sched, opts.Depth)
	view.ID = id
	if opts.Active != "" {
		at, err := parseRFC3339("active", opts.Active)
		if err != nil {
			return inputError("invalid active instant", err)
		}
		view.withActive(sched, at)
	}

	return opts.formatter(cmd).Success(view)
}

// openStore opens the database named by the db setting. Unlike compute, the
// commands reading stored schedules require it.
func (o *RootOptions) openStore(cmd *cobra.Command, bindings map[string]string) (*store.Store, error) {
	cfg, err := o.settings(cmd, bindings)
	if err != nil {
		return nil, err
	}
	if cfg.DB == "" {
		return nil, NewExitError(ExitCommandError, CodeStore, "no database: set --db, db in .dasha.yaml, or DASHA_DB")
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, CodeStore, "failed to open database", err)
	}
	o.logger().Debug("database opened", "path", cfg.DB)
	return st, nil
}

// resolveStored expands an ID prefix, mapping store errors to exit errors.
func resolveStored(ctx context.Context, st *store.Store, prefix string) (string, error) {
	id, err := st.ResolveID(ctx, prefix)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrAmbiguousID):
		return "", WrapExitError(ExitCommandError, CodeNotFound, "cannot resolve schedule", err)
	case err != nil:
		return "", WrapExitError(ExitCommandError, CodeStore, "failed to resolve schedule", err)
	}
	return id, nil
}
