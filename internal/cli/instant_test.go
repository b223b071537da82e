package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInstant(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		tz    string
		want  time.Time
	}{
		{"midnight utc", "2000-01-01", "", "", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"explicit utc", "2000-01-01", "12:00", "UTC", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"seconds", "1990-07-15", "06:30:15", "UTC", time.Date(1990, 7, 15, 6, 30, 15, 0, time.UTC)},
		{"fractional seconds", "1990-07-15", "06:30:15.25", "UTC", time.Date(1990, 7, 15, 6, 30, 15, 250_000_000, time.UTC)},
		{"kolkata", "2000-01-01", "05:30", "Asia/Kolkata", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"new york summer", "2020-07-04", "08:00", "America/New_York", time.Date(2020, 7, 4, 12, 0, 0, 0, time.UTC)},
		{"trimmed", " 2000-01-01 ", " 00:15 ", "UTC", time.Date(2000, 1, 1, 0, 15, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveInstant(tt.date, tt.clock, tt.tz)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestResolveInstant_Errors(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		tz      string
		errText string
	}{
		{"bad date", "01/02/2000", "", "UTC", "invalid date"},
		{"impossible date", "2000-02-30", "", "UTC", "invalid date"},
		{"bad time", "2000-01-01", "25:00", "UTC", "invalid time"},
		{"bad zone", "2000-01-01", "", "Nowhere/Else", "unknown time zone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveInstant(tt.date, tt.clock, tt.tz)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestParseRFC3339(t *testing.T) {
	got, err := parseRFC3339("instant", "2000-01-01T05:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parseRFC3339("active", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--active")
}
