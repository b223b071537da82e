package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/dasha/internal/canonical"
	"github.com/roach88/dasha/internal/dasha"
)

// Snapshot captures the Major sequence of a scenario execution.
type Snapshot struct {
	ScenarioName string
	Majors       []dasha.Period
}

// toCanonicalMap converts a Snapshot for canonical JSON serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	majors := make([]any, len(s.Majors))
	for i, m := range s.Majors {
		majors[i] = map[string]any{
			"lord":    m.Lord.String(),
			"start":   formatInstant(m.Start),
			"end":     formatInstant(m.End),
			"clipped": m.Clipped,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"majors":        majors,
	}
}

// RunWithGolden executes a scenario and compares its Majors against
// testdata/golden/{scenario.Name}.golden.
//
// Returns an error if the scenario cannot run or does not pass.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	if result.Schedule == nil {
		return fmt.Errorf("scenario %s produced no schedule", scenarioName)
	}

	snapshot := Snapshot{
		ScenarioName: scenarioName,
		Majors:       result.Schedule.Majors,
	}
	data, err := canonical.Marshal(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
