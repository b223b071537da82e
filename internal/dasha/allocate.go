package dasha

import (
	"fmt"
	"time"
)

// Span is one slot produced by Allocate.
type Span struct {
	Start time.Time
	End   time.Time
}

// Allocate lays out len(weights) back-to-back spans over [start, start+span).
//
// Every span except the last gets span*w/sum(weights). The last span ends at
// start+span exactly, absorbing whatever rounding the earlier shares lost, so
// the result always tiles the parent.
//
// weights must be non-empty and strictly positive; violations panic.
func Allocate(start time.Time, span time.Duration, weights []int) []Span {
	if len(weights) == 0 {
		panic("dasha: allocate with no weights")
	}
	total := 0
	for i, w := range weights {
		if w <= 0 {
			panic(fmt.Sprintf("dasha: allocate weight[%d] = %d", i, w))
		}
		total += w
	}

	end := start.Add(span)
	out := make([]Span, len(weights))
	cursor := start
	for i, w := range weights {
		if i == len(weights)-1 {
			out[i] = Span{Start: cursor, End: end}
			break
		}
		share := time.Duration(float64(span) * float64(w) / float64(total))
		next := cursor.Add(share)
		out[i] = Span{Start: cursor, End: next}
		cursor = next
	}
	return out
}
