package dasha

import (
	"time"

	"github.com/roach88/dasha/internal/lord"
)

// Level is the nesting depth of a period.
type Level int

const (
	Major Level = iota + 1
	Sub
	SubSub
)

// Deepest is the leaf level of every tree.
const Deepest = SubSub

func (l Level) String() string {
	switch l {
	case Major:
		return "major"
	case Sub:
		return "sub"
	case SubSub:
		return "subsub"
	default:
		return "unknown"
	}
}

// Interval is a half-open span [Start, End) owned by a lord.
// Duration is always derived from the endpoints.
type Interval struct {
	Lord  lord.Lord
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Period is a node of the timeline tree.
type Period struct {
	Interval

	Level Level

	// Clipped is set on a Major cut short by the horizon.
	Clipped bool

	// Interpretation is keyed by (parent lord, own lord). Nil on Majors and on
	// lookup misses.
	Interpretation *string

	// Children tile the period exactly. Empty at SubSub level.
	Children []Period
}

// Schedule is the ordered sequence of Major periods from Reference to Horizon.
type Schedule struct {
	Reference    time.Time
	Horizon      time.Time
	StartLord    lord.Lord
	Fraction     float64
	HorizonYears float64
	YearLength   time.Duration
	Majors       []Period
}

// End returns the end of the last Major, or Reference if there are none.
func (s *Schedule) End() time.Time {
	if len(s.Majors) == 0 {
		return s.Reference
	}
	return s.Majors[len(s.Majors)-1].End
}

// NodeCount returns the number of periods at every level.
func (s *Schedule) NodeCount() int {
	n := 0
	var walk func(ps []Period)
	walk = func(ps []Period) {
		for i := range ps {
			n++
			walk(ps[i].Children)
		}
	}
	walk(s.Majors)
	return n
}

// Years converts d to years of length yearLength.
func Years(d, yearLength time.Duration) float64 {
	return float64(d) / float64(yearLength)
}

// Days converts d to days of 24 hours.
func Days(d time.Duration) float64 {
	return d.Hours() / 24
}
