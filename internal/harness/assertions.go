package harness

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/lord"
)

// anchorTolerance is the allowed error of anchor_days, in days.
const anchorTolerance = float64(time.Microsecond) / float64(24*time.Hour)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Majors   []string // Major lords for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Majors) > 0 {
		fmt.Fprintf(&buf, "  Majors: %s", strings.Join(e.Majors, " "))
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against sched and returns the
// failure messages, in assertion order.
func EvaluateAssertions(sched *dasha.Schedule, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(sched, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(sched *dasha.Schedule, a Assertion) error {
	switch a.Type {
	case AssertMajorLords:
		return assertMajorLords(sched, a.Lords)
	case AssertMajorCount:
		if len(sched.Majors) != a.Count {
			return failure(sched, a.Type, fmt.Sprintf("%d majors", a.Count), fmt.Sprintf("%d majors", len(sched.Majors)))
		}
		return nil
	case AssertClipped:
		return assertClipped(sched, a.Index, *a.Clipped)
	case AssertAnchorDays:
		got := dasha.Days(sched.Majors[0].Duration())
		if math.Abs(got-a.Days) > anchorTolerance {
			return failure(sched, a.Type, fmt.Sprintf("%v days", a.Days), fmt.Sprintf("%v days", got))
		}
		return nil
	case AssertHorizon:
		want, err := parseInstant(a.At)
		if err != nil {
			return err
		}
		if !sched.Horizon.Equal(want) {
			return failure(sched, a.Type, formatInstant(want), formatInstant(sched.Horizon))
		}
		return nil
	case AssertActive:
		return assertActive(sched, a.At, a.Lords)
	case AssertInterpretation:
		return assertInterpretation(sched, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertMajorLords(sched *dasha.Schedule, names []string) error {
	want, err := parseLords(names)
	if err != nil {
		return err
	}
	got := majorLords(sched)
	if len(got) != len(want) {
		return failure(sched, AssertMajorLords, strings.Join(want, " "), strings.Join(got, " "))
	}
	for i := range want {
		if got[i] != want[i] {
			return failure(sched, AssertMajorLords, strings.Join(want, " "), strings.Join(got, " "))
		}
	}
	return nil
}

func assertClipped(sched *dasha.Schedule, index int, want bool) error {
	i := index
	if i < 0 {
		i += len(sched.Majors)
	}
	if i < 0 || i >= len(sched.Majors) {
		return fmt.Errorf("major index %d out of range (%d majors)", index, len(sched.Majors))
	}
	if got := sched.Majors[i].Clipped; got != want {
		return failure(sched, AssertClipped,
			fmt.Sprintf("major[%d] clipped=%t", i, want),
			fmt.Sprintf("major[%d] clipped=%t", i, got))
	}
	return nil
}

func assertActive(sched *dasha.Schedule, at string, names []string) error {
	t, err := parseInstant(at)
	if err != nil {
		return err
	}
	want, err := parseLords(names)
	if err != nil {
		return err
	}
	path := sched.At(t)
	got := make([]string, len(path))
	for i, p := range path {
		got[i] = p.Lord.String()
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		return failure(sched, AssertActive,
			fmt.Sprintf("%s at %s", strings.Join(want, "/"), at),
			fmt.Sprintf("%s at %s", strings.Join(got, "/"), at))
	}
	return nil
}

func assertInterpretation(sched *dasha.Schedule, a Assertion) error {
	t, err := parseInstant(a.At)
	if err != nil {
		return err
	}
	depth := int(dasha.Sub)
	if a.Level == dasha.SubSub.String() {
		depth = int(dasha.SubSub)
	}
	path := sched.At(t)
	if len(path) < depth {
		return fmt.Errorf("no %s period active at %s", a.Level, a.At)
	}
	got := path[depth-1].Interpretation

	switch {
	case a.Text == nil && got == nil:
		return nil
	case a.Text == nil:
		return failure(sched, AssertInterpretation, "no interpretation", fmt.Sprintf("%q", *got))
	case got == nil:
		return failure(sched, AssertInterpretation, fmt.Sprintf("%q", *a.Text), "no interpretation")
	case *got != *a.Text:
		return failure(sched, AssertInterpretation, fmt.Sprintf("%q", *a.Text), fmt.Sprintf("%q", *got))
	}
	return nil
}

// parseLords normalizes names to their canonical spelling.
func parseLords(names []string) ([]string, error) {
	out := make([]string, len(names))
	for i, n := range names {
		l, err := lord.Parse(n)
		if err != nil {
			return nil, err
		}
		out[i] = l.String()
	}
	return out, nil
}

func majorLords(sched *dasha.Schedule) []string {
	out := make([]string, len(sched.Majors))
	for i, m := range sched.Majors {
		out[i] = m.Lord.String()
	}
	return out
}

func failure(sched *dasha.Schedule, typ, expected, actual string) *AssertionError {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Majors:   majorLords(sched),
	}
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
