package dasha

import (
	"math"
	"time"

	"github.com/roach88/dasha/internal/lord"
)

// Divisions is the number of equal arcs the ecliptic is cut into.
const Divisions = 27

// DivisionWidth is the width of one division in degrees (13°20′).
const DivisionWidth = 360.0 / Divisions

// Anchor is the starting point of a timeline derived from a longitude.
type Anchor struct {
	// Division is the 0-based arc index, 0..26.
	Division int

	// Lord rules the division: the cycle lord at Division mod 9.
	Lord lord.Lord

	// Fraction is the portion of the division already traversed, in [0,1).
	Fraction float64
}

// AnchorFromLongitude maps a sidereal longitude in [0,360) to its anchor.
func AnchorFromLongitude(degrees float64) (Anchor, error) {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) || degrees < 0 || degrees >= 360 {
		return Anchor{}, newInputError(ErrCodeInvalidLongitude, "longitude",
			"longitude %v outside [0,360)", degrees)
	}

	idx := int(degrees / DivisionWidth)
	if idx >= Divisions {
		idx = Divisions - 1
	}
	frac := (degrees - float64(idx)*DivisionWidth) / DivisionWidth
	if frac < 0 {
		frac = 0
	}
	if frac >= 1 {
		frac = math.Nextafter(1, 0)
	}

	return Anchor{
		Division: idx,
		Lord:     lord.Lord(idx % lord.Count),
		Fraction: frac,
	}, nil
}

// NaturalDuration returns the full period of l: weight * yearLength.
func NaturalDuration(l lord.Lord, yearLength time.Duration) time.Duration {
	return time.Duration(l.Weight()) * yearLength
}

// Remaining returns the part of l's natural period left after fraction of it
// has elapsed: D*(1-fraction). This is the span of the anchor Major.
func Remaining(l lord.Lord, fraction float64, yearLength time.Duration) time.Duration {
	d := NaturalDuration(l, yearLength)
	if fraction == 0 {
		return d
	}
	return time.Duration(float64(d) * (1 - fraction))
}
