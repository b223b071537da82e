package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/dasha/internal/config"
	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/interp"
	"github.com/roach88/dasha/internal/lord"
	"github.com/roach88/dasha/internal/store"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions

	Instant  string
	Date     string
	Clock    string
	Zone     string
	Lord     string
	Fraction float64

	// Longitude is used when the flag is set; it replaces --lord/--fraction.
	Longitude float64

	HorizonYears    float64
	YearDays        float64
	Interpretations string
	Database        string
	Label           string
	Depth           int
	Active          string
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a dasha timeline",
		Long: `Compute the Major, Sub and SubSub periods from a reference instant.

The reference is either --instant (RFC 3339) or --date with optional --time
and --tz. The anchor is either --lord with --fraction (the part of that lord's
period already elapsed) or a sidereal --longitude in degrees.

With --db the schedule is stored; storing the same inputs twice records a
second run against the same schedule ID.

Examples:
  dasha compute --instant 2000-01-01T00:00:00Z --lord Moon --fraction 0.25
  dasha compute --date 1990-07-15 --time 12:00 --tz Asia/Kolkata --longitude 40.5
  dasha compute --instant 2000-01-01T00:00:00Z --lord Ketu --depth 1 --horizon 20
  dasha compute --instant 2000-01-01T00:00:00Z --lord Venus --active 2010-06-01T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Instant, "instant", "", "reference instant, RFC 3339")
	f.StringVar(&opts.Date, "date", "", "reference civil date, YYYY-MM-DD")
	f.StringVar(&opts.Clock, "time", "", "reference wall-clock time, HH:MM[:SS] (default 00:00)")
	f.StringVar(&opts.Zone, "tz", "UTC", "IANA time zone of --date/--time")
	f.StringVar(&opts.Lord, "lord", "", "lord of the anchor period")
	f.Float64Var(&opts.Fraction, "fraction", 0, "elapsed fraction of the anchor period, in [0,1)")
	f.Float64Var(&opts.Longitude, "longitude", 0, "sidereal longitude in degrees, [0,360)")
	f.Float64Var(&opts.HorizonYears, "horizon", dasha.DefaultHorizonYears, "horizon in years from the reference")
	f.Float64Var(&opts.YearDays, "year-days", config.DefaultYearLengthDays, "length of a year in days")
	f.StringVar(&opts.Interpretations, "interpretations", "", "interpretation table (.yaml, .toml or .cue)")
	f.StringVar(&opts.Database, "db", "", "store the schedule in this SQLite database")
	f.StringVar(&opts.Label, "label", "", "label recorded with the stored run")
	f.IntVar(&opts.Depth, "depth", int(dasha.Deepest), "levels to print: 1 majors, 2 subs, 3 subsubs")
	f.StringVar(&opts.Active, "active", "", "also report the periods active at this RFC 3339 instant")

	cmd.MarkFlagsMutuallyExclusive("instant", "date")
	cmd.MarkFlagsMutuallyExclusive("instant", "time")
	cmd.MarkFlagsMutuallyExclusive("lord", "longitude")
	cmd.MarkFlagsMutuallyExclusive("fraction", "longitude")

	return cmd
}

func runCompute(opts *ComputeOptions, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd, map[string]string{
		"horizon_years":    "horizon",
		"year_length_days": "year-days",
		"interpretations":  "interpretations",
		"db":               "db",
	})
	if err != nil {
		return err
	}
	if err := checkDepth(opts.Depth); err != nil {
		return err
	}

	in, err := opts.input(cmd)
	if err != nil {
		return err
	}

	var activeAt time.Time
	if opts.Active != "" {
		if activeAt, err = parseRFC3339("active", opts.Active); err != nil {
			return inputError("invalid active instant", err)
		}
	}

	builderOpts := []dasha.Option{dasha.WithLogger(opts.logger())}
	if cfg.Interpretations != "" {
		table, err := interp.Load(cfg.Interpretations)
		if err != nil {
			return WrapExitError(ExitCommandError, CodeInterpretations, "failed to load interpretations", err)
		}
		opts.logger().Debug("interpretations loaded", "path", cfg.Interpretations, "entries", table.Len())
		builderOpts = append(builderOpts, dasha.WithInterpreter(table))
	}

	sched, err := dasha.NewBuilder(cfg.Engine(), builderOpts...).Build(in)
	if err != nil {
		if dasha.IsInputError(err) {
			return inputError("invalid input", err)
		}
		return WrapExitError(ExitFailure, CodeInternal, "build failed", err)
	}

	view := newScheduleView(sched, opts.Depth)
	if cfg.DB != "" {
		res, err := saveSchedule(cmd, cfg.DB, sched, opts.Label)
		if err != nil {
			return err
		}
		view.ID = res.ScheduleID
		view.RunID = res.RunID
		opts.logger().Info("schedule stored", "id", res.ScheduleID, "run", res.RunID, "inserted", res.Inserted)
	}
	if opts.Active != "" {
		view.withActive(sched, activeAt)
	}

	return opts.formatter(cmd).Success(view)
}

// input resolves the reference and anchor flags.
func (o *ComputeOptions) input(cmd *cobra.Command) (dasha.Input, error) {
	var (
		ref time.Time
		err error
	)
	switch {
	case o.Instant != "":
		ref, err = parseRFC3339("instant", o.Instant)
	case o.Date != "":
		ref, err = ResolveInstant(o.Date, o.Clock, o.Zone)
	default:
		return dasha.Input{}, NewExitError(ExitCommandError, CodeInvalidInput, "one of --instant or --date is required")
	}
	if err != nil {
		return dasha.Input{}, inputError("invalid reference", err)
	}

	if cmd.Flags().Changed("longitude") {
		a, err := dasha.AnchorFromLongitude(o.Longitude)
		if err != nil {
			return dasha.Input{}, inputError("invalid longitude", err)
		}
		o.logger().Debug("anchor resolved", "longitude", o.Longitude, "division", a.Division+1, "lord", a.Lord.String(), "fraction", a.Fraction)
		return dasha.Input{Reference: ref, StartLord: a.Lord, Fraction: a.Fraction}, nil
	}

	if o.Lord == "" {
		return dasha.Input{}, NewExitError(ExitCommandError, CodeInvalidInput, "one of --lord or --longitude is required")
	}
	l, err := lord.Parse(o.Lord)
	if err != nil {
		return dasha.Input{}, inputError("invalid lord", &dasha.InputError{
			Code:    dasha.ErrCodeInvalidLord,
			Field:   "lord",
			Message: err.Error(),
		})
	}
	return dasha.Input{Reference: ref, StartLord: l, Fraction: o.Fraction}, nil
}

func checkDepth(depth int) error {
	if depth < int(dasha.Major) || depth > int(dasha.Deepest) {
		return NewExitError(ExitCommandError, CodeInvalidInput,
			fmt.Sprintf("--depth %d outside 1..%d", depth, int(dasha.Deepest)))
	}
	return nil
}

// saveSchedule writes sched to the database at path.
func saveSchedule(cmd *cobra.Command, path string, sched *dasha.Schedule, label string) (store.WriteResult, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.WriteResult{}, WrapExitError(ExitCommandError, CodeStore, "failed to open database", err)
	}
	defer st.Close()

	res, err := st.WriteSchedule(cmd.Context(), sched, label)
	if err != nil {
		return store.WriteResult{}, WrapExitError(ExitCommandError, CodeStore, "failed to store schedule", err)
	}
	return res, nil
}
