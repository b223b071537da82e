// Package lord defines the nine fixed period lords of the Vimshottari cycle.
//
// The cycle order and the year-weights are process-wide constants. Nothing in
// this package is mutable, so every function is safe for concurrent use.
package lord

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Lord identifies one of the nine period owners.
type Lord uint8

// Cycle order. The numeric value is the position in the cycle.
const (
	Ketu Lord = iota
	Venus
	Sun
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury
)

// Count is the number of lords in the cycle.
const Count = 9

// TotalWeight is the sum of all year-weights.
const TotalWeight = 120

var weights = [Count]int{7, 20, 6, 10, 7, 18, 16, 19, 17}

var names = [Count]string{
	"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury",
}

// folded name -> lord, built once from names.
var byFolded = func() map[string]Lord {
	fold := cases.Fold()
	m := make(map[string]Lord, Count)
	for i, n := range names {
		m[fold.String(n)] = Lord(i)
	}
	return m
}()

// All returns the cycle in its fixed order, starting at Ketu.
func All() []Lord {
	return Rotate(Ketu)
}

// Rotate returns the nine lords starting at from and wrapping through the
// cycle exactly once. from must be a valid lord.
func Rotate(from Lord) []Lord {
	if !from.Valid() {
		panic(fmt.Sprintf("lord: rotate from invalid lord %d", from))
	}
	out := make([]Lord, Count)
	for i := range out {
		out[i] = Lord((int(from) + i) % Count)
	}
	return out
}

// Next returns the lord following l in the cycle.
func (l Lord) Next() Lord {
	return Lord((int(l) + 1) % Count)
}

// Weight returns the lord's period length in years.
func (l Lord) Weight() int {
	return weights[l]
}

// Valid reports whether l is one of the nine lords.
func (l Lord) Valid() bool {
	return l < Count
}

// String returns the canonical capitalised name.
func (l Lord) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Lord(%d)", uint8(l))
	}
	return names[l]
}

// Parse resolves a lord name case-insensitively ("moon", "MOON", "Moon").
func Parse(name string) (Lord, error) {
	l, ok := byFolded[cases.Fold().String(name)]
	if !ok {
		return 0, fmt.Errorf("unknown lord %q", name)
	}
	return l, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Lord) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid lord %d", uint8(l))
	}
	return []byte(names[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lord) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
