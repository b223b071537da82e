package dasha

import (
	"math"
	"time"

	"github.com/roach88/dasha/internal/lord"
)

const (
	// DefaultHorizonYears is one full cycle.
	DefaultHorizonYears = 120

	// DefaultYearLength is the mean Gregorian year, 365.2425 days.
	DefaultYearLength = 31556952 * time.Second

	// maxYearLength keeps a full cycle (120 years) inside time.Duration.
	maxYearLength = time.Duration(math.MaxInt64 / lord.TotalWeight)
)

// Config holds the free parameters of the engine.
type Config struct {
	// HorizonYears bounds the schedule at Reference + HorizonYears*YearLength.
	HorizonYears float64

	// YearLength converts year-weights into durations.
	YearLength time.Duration
}

// DefaultConfig returns a 120-year horizon with 365.2425-day years.
func DefaultConfig() Config {
	return Config{
		HorizonYears: DefaultHorizonYears,
		YearLength:   DefaultYearLength,
	}
}

// YearLengthFromDays converts a year length in days to a duration.
func YearLengthFromDays(days float64) time.Duration {
	return time.Duration(days * float64(24*time.Hour))
}

// LatestHorizon is the last instant RFC 3339 can express. Schedules end at
// or before it so that stored and rendered instants round-trip.
var LatestHorizon = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)

// minChunkYears is a lower bound on the calendar length of one HorizonFrom
// chunk: a chunk is within one year length of math.MaxInt64 ns (~292y), and
// a year length is at most 1/120 of that.
const minChunkYears = 289

// HorizonFrom returns ref advanced by HorizonYears years of YearLength. The
// span is added in chunks that each fit a time.Duration, so the horizon is
// not limited to what a single Duration can hold. Call Validate first.
func (c Config) HorizonFrom(ref time.Time) (time.Time, error) {
	tooLate := func() error {
		return newInputError(ErrCodeInvalidHorizon, "horizon_years",
			"horizon %v years from %s passes %s", c.HorizonYears,
			ref.Format(time.RFC3339Nano), LatestHorizon.Format(time.RFC3339Nano))
	}

	perChunk := int64(math.MaxInt64 / c.YearLength)
	chunk := time.Duration(perChunk) * c.YearLength

	chunks := math.Floor(c.HorizonYears / float64(perChunk))
	rest := c.HorizonYears - chunks*float64(perChunk)
	if rest >= float64(perChunk) {
		chunks++
		rest -= float64(perChunk)
	}
	rest = math.Max(rest, 0)
	whole := math.Floor(rest)

	t := ref.UTC()
	if maxChunks := float64(LatestHorizon.Year()-t.Year())/minChunkYears + 1; chunks > maxChunks {
		return time.Time{}, tooLate()
	}
	for i := 0.0; i < chunks; i++ {
		t = t.Add(chunk)
		if t.After(LatestHorizon) {
			return time.Time{}, tooLate()
		}
	}
	t = t.Add(time.Duration(whole) * c.YearLength)
	t = t.Add(time.Duration((rest - whole) * float64(c.YearLength)))
	if t.After(LatestHorizon) {
		return time.Time{}, tooLate()
	}
	return t, nil
}

// Validate checks the year length and that the horizon is a positive,
// finite number of years spanning at least 1ns.
func (c Config) Validate() error {
	if c.YearLength <= 0 || c.YearLength > maxYearLength {
		return newInputError(ErrCodeInvalidYearLength, "year_length",
			"year length %s must be in (0, %s]", c.YearLength, maxYearLength)
	}
	if math.IsNaN(c.HorizonYears) || math.IsInf(c.HorizonYears, 0) || c.HorizonYears <= 0 {
		return newInputError(ErrCodeInvalidHorizon, "horizon_years",
			"horizon %v years must be positive and finite", c.HorizonYears)
	}
	if c.HorizonYears*float64(c.YearLength) < 1 {
		return newInputError(ErrCodeInvalidHorizon, "horizon_years",
			"horizon %v years is shorter than 1ns", c.HorizonYears)
	}
	return nil
}
