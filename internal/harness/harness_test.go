package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/lord"
)

func loadTestScenario(t *testing.T, path string) *Scenario {
	t.Helper()
	s, err := LoadScenario(path)
	require.NoError(t, err)
	return s
}

func TestScenariosPass(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.Len(t, files, 6)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			result, err := Run(loadTestScenario(t, path))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	s := loadTestScenario(t, "testdata/scenarios/ketu_full_360.yaml")
	require.NoError(t, RunWithGolden(t, s))
}

func TestRunReportsFailedAssertion(t *testing.T) {
	result, err := Run(loadTestScenario(t, "testdata/invalid/failing.yaml"))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "major_lords")
	assert.Contains(t, result.Errors[0], "Expected: Sun Mars")
	require.NotNil(t, result.Schedule)
	assert.Equal(t, lord.Sun, result.Schedule.Majors[0].Lord)
}

func TestRunExpectErrorMismatch(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_code",
		Description: "expects the wrong code",
		Input:       ScenarioInput{Reference: "2000-01-01T00:00:00Z", Lord: "Sun", Fraction: 1},
		ExpectError: "INVALID_HORIZON",
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "got INVALID_FRACTION")
}

func TestRunExpectErrorButBuilt(t *testing.T) {
	s := &Scenario{
		Name:        "no_error",
		Description: "valid input",
		Input:       ScenarioInput{Reference: "2000-01-01T00:00:00Z", Lord: "Sun"},
		ExpectError: "INVALID_FRACTION",
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Nil(t, result.Schedule)
}

func TestRunExecutionErrors(t *testing.T) {
	tests := []struct {
		name     string
		scenario *Scenario
		errText  string
	}{
		{
			name: "bad reference",
			scenario: &Scenario{
				Name: "bad_ref", Description: "x",
				Input: ScenarioInput{Reference: "yesterday", Lord: "Sun"},
			},
			errText: "input.reference",
		},
		{
			name: "missing table",
			scenario: &Scenario{
				Name: "missing_table", Description: "x",
				Input:           ScenarioInput{Reference: "2000-01-01T00:00:00Z", Lord: "Sun"},
				Interpretations: filepath.Join(t.TempDir(), "absent.yaml"),
			},
			errText: "failed to load interpretations",
		},
		{
			name: "unexpected rejection",
			scenario: &Scenario{
				Name: "rejected", Description: "x",
				Input: ScenarioInput{Reference: "2000-01-01T00:00:00Z", Lord: "Sun", Fraction: 2},
			},
			errText: "INVALID_FRACTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.scenario)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	_, err := LoadScenario("testdata/invalid/typo.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "missing name",
			content: "description: d\ninput: {reference: \"2000-01-01T00:00:00Z\", lord: Sun}\nassertions: [{type: major_count, count: 1}]\n",
			errText: "name is required",
		},
		{
			name:    "no anchor",
			content: "name: n\ndescription: d\ninput: {reference: \"2000-01-01T00:00:00Z\"}\nassertions: [{type: major_count, count: 1}]\n",
			errText: "lord or a longitude",
		},
		{
			name:    "both anchors",
			content: "name: n\ndescription: d\ninput: {reference: \"2000-01-01T00:00:00Z\", lord: Sun, longitude: 10}\nassertions: [{type: major_count, count: 1}]\n",
			errText: "mutually exclusive",
		},
		{
			name:    "no assertions",
			content: "name: n\ndescription: d\ninput: {reference: \"2000-01-01T00:00:00Z\", lord: Sun}\n",
			errText: "assertions list is required",
		},
		{
			name:    "unknown type",
			content: "name: n\ndescription: d\ninput: {reference: \"2000-01-01T00:00:00Z\", lord: Sun}\nassertions: [{type: trace_order}]\n",
			errText: "unknown assertion type",
		},
		{
			name:    "bad level",
			content: "name: n\ndescription: d\ninput: {reference: \"2000-01-01T00:00:00Z\", lord: Sun}\nassertions: [{type: interpretation, at: \"2000-01-01T00:00:00Z\", level: major}]\n",
			errText: "level must be sub or subsub",
		},
		{
			name:    "clipped without flag",
			content: "name: n\ndescription: d\ninput: {reference: \"2000-01-01T00:00:00Z\", lord: Sun}\nassertions: [{type: clipped, index: 0}]\n",
			errText: "clipped is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoadScenarioResolvesTablePath(t *testing.T) {
	s := loadTestScenario(t, "testdata/scenarios/venus_interpretations.yaml")
	assert.Equal(t, filepath.Join("testdata", "scenarios", "tables", "venus.toml"), s.Interpretations)
}

func TestFindScenariosFilter(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "rejects_*")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "rejects_full_fraction.yaml", filepath.Base(files[0]))

	_, err = FindScenarios("testdata/scenarios", "[")
	assert.Error(t, err)
}

func TestScenarioConfigApply(t *testing.T) {
	var nilCfg *ScenarioConfig
	base := loadTestScenario(t, "testdata/scenarios/moon_quarter_leap.yaml")

	cfg := base.Config.Apply(nilCfg.Apply(dasha.DefaultConfig()))
	assert.Equal(t, 1.0, cfg.HorizonYears)
	assert.Equal(t, 366*24*60*60*1e9, float64(cfg.YearLength))
}
