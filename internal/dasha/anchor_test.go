package dasha

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/lord"
)

func TestAnchorFromLongitude(t *testing.T) {
	tests := []struct {
		name     string
		degrees  float64
		division int
		lord     lord.Lord
		fraction float64
	}{
		{"zero", 0, 0, lord.Ketu, 0},
		{"mid second division", 20, 1, lord.Venus, 0.5},
		{"tenth division restarts cycle", 130, 9, lord.Ketu, 0.75},
		{"moon division", 40.5, 3, lord.Moon, 0.0375},
		{"last division", 359.99, 26, lord.Mercury, (359.99 - 26*DivisionWidth) / DivisionWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := AnchorFromLongitude(tt.degrees)
			require.NoError(t, err)
			assert.Equal(t, tt.division, a.Division)
			assert.Equal(t, tt.lord, a.Lord)
			assert.InDelta(t, tt.fraction, a.Fraction, 1e-9)
			assert.GreaterOrEqual(t, a.Fraction, 0.0)
			assert.Less(t, a.Fraction, 1.0)
		})
	}
}

func TestAnchorFromLongitudeRejectsOutOfRange(t *testing.T) {
	for _, deg := range []float64{-0.001, 360, 720, math.NaN(), math.Inf(1)} {
		_, err := AnchorFromLongitude(deg)
		require.Error(t, err, "longitude %v", deg)
		assert.Equal(t, ErrCodeInvalidLongitude, InputErrorCodeOf(err))
	}
}

func TestRemaining(t *testing.T) {
	yl := DefaultYearLength

	assert.Equal(t, 20*yl, Remaining(lord.Venus, 0, yl))

	got := Remaining(lord.Venus, 0.25, yl)
	assert.InDelta(t, float64(15*yl), float64(got), float64(time.Microsecond))

	got = Remaining(lord.Moon, 0.9, yl)
	assert.InDelta(t, float64(yl), float64(got), float64(time.Microsecond))
}

func TestRemainingPlacesReferenceAtFraction(t *testing.T) {
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	yl := DefaultYearLength

	for _, f := range []float64{0, 0.1, 0.25, 0.5, 0.999} {
		d := NaturalDuration(lord.Saturn, yl)
		end := ref.Add(Remaining(lord.Saturn, f, yl))
		naturalStart := end.Add(-d)
		offset := float64(ref.Sub(naturalStart)) / float64(d)
		assert.InDelta(t, f, offset, 1e-9, "fraction %v", f)
	}
}

func TestNaturalDuration(t *testing.T) {
	var total time.Duration
	for _, l := range lord.All() {
		total += NaturalDuration(l, DefaultYearLength)
	}
	assert.Equal(t, 120*DefaultYearLength, total)
	assert.InDelta(t, 365.2425, Days(DefaultYearLength), 1e-9)
}
