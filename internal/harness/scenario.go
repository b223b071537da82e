package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dasha/internal/dasha"
)

// Scenario defines one build and the expectations on its schedule.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input fixes the build inputs.
	Input ScenarioInput `yaml:"input"`

	// Config overrides engine parameters. Omitted fields keep defaults.
	Config *ScenarioConfig `yaml:"config,omitempty"`

	// Interpretations is a table path, relative to the scenario file.
	Interpretations string `yaml:"interpretations,omitempty"`

	// ExpectError is an input error code the build must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the built schedule.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ScenarioInput names the anchor either by lord and fraction or by longitude.
type ScenarioInput struct {
	Reference string   `yaml:"reference"`
	Lord      string   `yaml:"lord,omitempty"`
	Fraction  float64  `yaml:"fraction,omitempty"`
	Longitude *float64 `yaml:"longitude,omitempty"`
}

// ScenarioConfig overrides dasha.Config fields.
type ScenarioConfig struct {
	HorizonYears   float64 `yaml:"horizon_years,omitempty"`
	YearLengthDays float64 `yaml:"year_length_days,omitempty"`
}

// Apply returns base with the fields set in c replaced.
func (c *ScenarioConfig) Apply(base dasha.Config) dasha.Config {
	if c == nil {
		return base
	}
	if c.HorizonYears != 0 {
		base.HorizonYears = c.HorizonYears
	}
	if c.YearLengthDays != 0 {
		base.YearLength = dasha.YearLengthFromDays(c.YearLengthDays)
	}
	return base
}

// Assertion validates one property of the schedule.
type Assertion struct {
	// Type selects the check; see the package documentation.
	Type string `yaml:"type"`

	// Lords is the expected lord sequence (major_lords, active).
	Lords []string `yaml:"lords,omitempty"`

	// Count is the expected number of Majors (major_count).
	Count int `yaml:"count,omitempty"`

	// Index selects a Major; negative counts from the end (clipped).
	Index int `yaml:"index,omitempty"`

	// Clipped is the expected flag (clipped).
	Clipped *bool `yaml:"clipped,omitempty"`

	// Days is the expected anchor length (anchor_days).
	Days float64 `yaml:"days,omitempty"`

	// At is an RFC 3339 instant (horizon, active, interpretation).
	At string `yaml:"at,omitempty"`

	// Level is sub or subsub (interpretation).
	Level string `yaml:"level,omitempty"`

	// Text is the expected interpretation; nil expects none.
	Text *string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertMajorLords     = "major_lords"
	AssertMajorCount     = "major_count"
	AssertClipped        = "clipped"
	AssertAnchorDays     = "anchor_days"
	AssertHorizon        = "horizon"
	AssertActive         = "active"
	AssertInterpretation = "interpretation"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so that typos do not silently skip checks.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Interpretations != "" && !filepath.IsAbs(scenario.Interpretations) {
		scenario.Interpretations = filepath.Join(filepath.Dir(path), scenario.Interpretations)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Input.Reference == "" {
		return fmt.Errorf("input.reference is required")
	}
	if s.Input.Lord == "" && s.Input.Longitude == nil {
		return fmt.Errorf("input needs a lord or a longitude")
	}
	if s.Input.Lord != "" && s.Input.Longitude != nil {
		return fmt.Errorf("input.lord and input.longitude are mutually exclusive")
	}
	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless expect_error is set")
	}
	if s.ExpectError != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("expect_error scenarios cannot carry assertions")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMajorLords:
		if len(a.Lords) == 0 {
			return fmt.Errorf("assertions[%d]: lords list is required for major_lords", index)
		}
	case AssertMajorCount:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive for major_count", index)
		}
	case AssertClipped:
		if a.Clipped == nil {
			return fmt.Errorf("assertions[%d]: clipped is required for clipped", index)
		}
	case AssertAnchorDays:
		if a.Days <= 0 {
			return fmt.Errorf("assertions[%d]: days must be positive for anchor_days", index)
		}
	case AssertHorizon:
		if a.At == "" {
			return fmt.Errorf("assertions[%d]: at is required for horizon", index)
		}
	case AssertActive:
		if a.At == "" || len(a.Lords) == 0 {
			return fmt.Errorf("assertions[%d]: at and lords are required for active", index)
		}
	case AssertInterpretation:
		if a.At == "" {
			return fmt.Errorf("assertions[%d]: at is required for interpretation", index)
		}
		if a.Level != dasha.Sub.String() && a.Level != dasha.SubSub.String() {
			return fmt.Errorf("assertions[%d]: level must be sub or subsub, got %q", index, a.Level)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
