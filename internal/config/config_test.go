package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/dasha"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HorizonYears", cfg.HorizonYears, 120.0},
		{"YearLengthDays", cfg.YearLengthDays, 365.2425},
		{"Interpretations", cfg.Interpretations, ""},
		{"DB", cfg.DB, ""},
		{"Format", cfg.Format, "text"},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestEngineDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, dasha.DefaultConfig(), cfg.Engine())
}

func TestInitReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dasha.yaml")
	content := "horizon_years: 80\nyear_length_days: 360\ninterpretations: table.cue\nformat: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 80.0, cfg.HorizonYears)
	assert.Equal(t, 360.0, cfg.YearLengthDays)
	assert.Equal(t, "table.cue", cfg.Interpretations)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 360*24*60*60*1e9, float64(cfg.Engine().YearLength))
}

func TestInitEnvOverrides(t *testing.T) {
	t.Setenv("DASHA_HORIZON_YEARS", "42")
	t.Setenv("DASHA_DB", "/tmp/dasha.db")

	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 42.0, cfg.HorizonYears)
	assert.Equal(t, "/tmp/dasha.db", cfg.DB)
}

func TestInitExplicitMissingFileFails(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
