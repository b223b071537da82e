package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	Runs     bool
}

// ListEntry is one stored schedule.
type ListEntry struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	Horizon      string    `json:"horizon"`
	StartLord    string    `json:"start_lord"`
	Fraction     float64   `json:"fraction"`
	HorizonYears float64   `json:"horizon_years"`
	Periods      int       `json:"periods"`
	RunCount     int       `json:"run_count"`
	Runs         []RunView `json:"runs,omitempty"`
}

// RunView is one recorded computation of a schedule.
type RunView struct {
	ID    string `json:"id"`
	Seq   int64  `json:"seq"`
	Label string `json:"label,omitempty"`
}

// ListResult holds every stored schedule, oldest first.
type ListResult struct {
	Schedules []ListEntry `json:"schedules"`
}

// RenderText writes one schedule per line with a shortened ID.
func (r ListResult) RenderText(w io.Writer) error {
	var b strings.Builder
	if len(r.Schedules) == 0 {
		b.WriteString("No schedules stored.\n")
	}
	for _, s := range r.Schedules {
		fmt.Fprintf(&b, "%s  %-8s %-10s %s  %s  %d periods  %d runs\n",
			shortID(s.ID), s.StartLord, strconv.FormatFloat(s.Fraction, 'g', 6, 64),
			s.Reference, s.Horizon, s.Periods, s.RunCount)
		for _, run := range s.Runs {
			fmt.Fprintf(&b, "  #%d  %s", run.Seq, run.ID)
			if run.Label != "" {
				fmt.Fprintf(&b, "  %s", run.Label)
			}
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored schedules",
		Long: `List schedules stored by compute --db, ordered by their first run.

Examples:
  dasha list --db ./dasha.db
  dasha list --db ./dasha.db --runs --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "include every recorded run")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	st, err := opts.openStore(cmd, map[string]string{"db": "db"})
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	summaries, err := st.ListSchedules(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeStore, "failed to list schedules", err)
	}

	result := ListResult{Schedules: make([]ListEntry, 0, len(summaries))}
	for _, s := range summaries {
		entry := ListEntry{
			ID:           s.ID,
			Reference:    formatInstant(s.Reference),
			Horizon:      formatInstant(s.Horizon),
			StartLord:    s.StartLord.String(),
			Fraction:     s.Fraction,
			HorizonYears: s.HorizonYears,
			Periods:      s.PeriodCount,
			RunCount:     s.Runs,
		}
		if opts.Runs {
			runs, err := st.ListRuns(ctx, s.ID)
			if err != nil {
				return WrapExitError(ExitCommandError, CodeStore, "failed to list runs", err)
			}
			for _, run := range runs {
				entry.Runs = append(entry.Runs, RunView{ID: run.ID, Seq: run.Seq, Label: run.Label})
			}
		}
		result.Schedules = append(result.Schedules, entry)
	}

	return opts.formatter(cmd).Success(result)
}

// shortID returns the first 12 characters of a schedule ID.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
