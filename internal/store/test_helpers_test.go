package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/lord"
)

// sequentialRunIDs returns "run-1", "run-2", ... for deterministic tests.
func sequentialRunIDs() RunIDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("run-%d", n)
	}
}

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithRunIDs(sequentialRunIDs()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSchedule builds a small schedule with one interpretation.
func createTestSchedule(t *testing.T, start lord.Lord, fraction float64) *dasha.Schedule {
	t.Helper()
	return createInterpretedSchedule(t, start, fraction, "doubled")
}

// createInterpretedSchedule builds the createTestSchedule inputs, annotating
// every same-lord Sub and SubSub with "<lord> <suffix>".
func createInterpretedSchedule(t *testing.T, start lord.Lord, fraction float64, suffix string) *dasha.Schedule {
	t.Helper()
	interp := dasha.InterpreterFunc(func(outer, inner lord.Lord) (string, bool) {
		if outer == inner {
			return outer.String() + " " + suffix, true
		}
		return "", false
	})
	cfg := dasha.Config{HorizonYears: 15, YearLength: dasha.DefaultYearLength}
	s, err := dasha.NewBuilder(cfg, dasha.WithInterpreter(interp)).Build(dasha.Input{
		Reference: time.Date(1990, 7, 15, 6, 30, 0, 0, time.UTC),
		StartLord: start,
		Fraction:  fraction,
	})
	require.NoError(t, err)
	return s
}
