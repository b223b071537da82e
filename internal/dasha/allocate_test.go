package dasha

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestAllocateLastChildAbsorbsRemainder(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	spans := Allocate(start, 33*day, []int{7, 20, 6})
	require.Len(t, spans, 3)

	a := spans[0].End.Sub(spans[0].Start)
	b := spans[1].End.Sub(spans[1].Start)
	c := spans[2].End.Sub(spans[2].Start)

	assert.Equal(t, 7*day, a)
	assert.Equal(t, 20*day, b)
	assert.Equal(t, 33*day-a-b, c)
	assert.True(t, spans[2].End.Equal(start.Add(33*day)))
}

func TestAllocateTilesUnevenSpan(t *testing.T) {
	start := time.Date(1987, 6, 5, 4, 3, 2, 1, time.UTC)
	span := 1234567891*time.Nanosecond + 7*day
	weights := []int{7, 20, 6, 10, 7, 18, 16, 19, 17}

	spans := Allocate(start, span, weights)
	require.Len(t, spans, len(weights))

	cursor := start
	var sum time.Duration
	for i, s := range spans {
		assert.True(t, s.Start.Equal(cursor), "span %d not contiguous", i)
		assert.True(t, s.End.After(s.Start), "span %d empty", i)
		sum += s.End.Sub(s.Start)
		cursor = s.End
	}
	assert.True(t, cursor.Equal(start.Add(span)))
	assert.Equal(t, span, sum)
}

func TestAllocateSingleWeight(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	spans := Allocate(start, time.Hour, []int{5})
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Start.Equal(start))
	assert.True(t, spans[0].End.Equal(start.Add(time.Hour)))
}

func TestAllocatePreconditions(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	assert.Panics(t, func() { Allocate(start, time.Hour, nil) })
	assert.Panics(t, func() { Allocate(start, time.Hour, []int{1, 0}) })
	assert.Panics(t, func() { Allocate(start, time.Hour, []int{-3}) })
}
