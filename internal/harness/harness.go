package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/interp"
	"github.com/roach88/dasha/internal/lord"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Resolve the anchor from lord+fraction or longitude
// 2. Load the interpretation table, if any
// 3. Build the schedule with a silent logger
// 4. Run dasha.Verify, then every assertion
//
// An error is returned only when the scenario cannot be executed at all
// (unreadable table, malformed instant). Build rejections and failed
// assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.Name)

	in, err := resolveInput(scenario.Input)
	if err != nil {
		if expectedRejection(scenario, err, result) {
			return result, nil
		}
		return nil, err
	}

	opts := []dasha.Option{
		dasha.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if scenario.Interpretations != "" {
		table, err := interp.Load(scenario.Interpretations)
		if err != nil {
			return nil, fmt.Errorf("failed to load interpretations: %w", err)
		}
		opts = append(opts, dasha.WithInterpreter(table))
	}

	cfg := scenario.Config.Apply(dasha.DefaultConfig())
	sched, err := dasha.NewBuilder(cfg, opts...).Build(in)
	if err != nil {
		if expectedRejection(scenario, err, result) {
			return result, nil
		}
		return nil, fmt.Errorf("build failed: %w", err)
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected build to fail with %s, but it succeeded", scenario.ExpectError))
		return result, nil
	}
	result.Schedule = sched

	if err := dasha.Verify(sched); err != nil {
		result.AddError(err.Error())
	}

	for _, msg := range EvaluateAssertions(sched, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// expectedRejection records err against ExpectError. It returns false when
// the scenario did not expect a rejection, leaving err for the caller.
func expectedRejection(scenario *Scenario, err error, result *Result) bool {
	if scenario.ExpectError == "" {
		return false
	}
	code := dasha.InputErrorCodeOf(err)
	switch {
	case code == "":
		result.AddError(fmt.Sprintf("expected %s, got non-input error: %v", scenario.ExpectError, err))
	case string(code) != scenario.ExpectError:
		result.AddError(fmt.Sprintf("expected %s, got %s: %v", scenario.ExpectError, code, err))
	}
	return true
}

// resolveInput converts the scenario input into builder input. Lord names
// and longitudes are rejected with dasha input errors so that expect_error
// scenarios can target them.
func resolveInput(si ScenarioInput) (dasha.Input, error) {
	ref, err := parseInstant(si.Reference)
	if err != nil {
		return dasha.Input{}, fmt.Errorf("input.reference: %w", err)
	}

	if si.Longitude != nil {
		a, err := dasha.AnchorFromLongitude(*si.Longitude)
		if err != nil {
			return dasha.Input{}, err
		}
		return dasha.Input{Reference: ref, StartLord: a.Lord, Fraction: a.Fraction}, nil
	}

	l, err := lord.Parse(si.Lord)
	if err != nil {
		return dasha.Input{}, &dasha.InputError{
			Code:    dasha.ErrCodeInvalidLord,
			Field:   "lord",
			Message: err.Error(),
		}
	}
	return dasha.Input{Reference: ref, StartLord: l, Fraction: si.Fraction}, nil
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: %w", s, err)
	}
	return t, nil
}
