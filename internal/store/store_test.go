package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dasha/internal/canonical"
	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/lord"
)

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.verifyPragma("journal_mode", "wal"))
	require.NoError(t, s.verifyPragma("foreign_keys", "1"))
	require.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.DB().Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sched := createTestSchedule(t, lord.Moon, 0.4)

	res, err := s.WriteSchedule(ctx, sched, "first")
	require.NoError(t, err)
	assert.True(t, res.Inserted)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, int64(1), res.Seq)
	assert.Equal(t, canonical.MustScheduleID(sched), res.ScheduleID)

	got, err := s.ReadSchedule(ctx, res.ScheduleID)
	require.NoError(t, err)
	require.NoError(t, dasha.Verify(got))

	wantHash, err := canonical.TreeHash(sched)
	require.NoError(t, err)
	gotHash, err := canonical.TreeHash(got)
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)

	assert.Equal(t, sched.NodeCount(), got.NodeCount())
	assert.Equal(t, sched.Fraction, got.Fraction)
	assert.Equal(t, sched.YearLength, got.YearLength)
	assert.True(t, sched.Horizon.Equal(got.Horizon))

	// Interpretations and their absence survive the round trip.
	moonSub := got.Majors[0].Children[0]
	require.NotNil(t, moonSub.Interpretation)
	assert.Equal(t, "Moon doubled", *moonSub.Interpretation)
	assert.Nil(t, got.Majors[0].Children[1].Interpretation)
}

func TestWriteIdempotentRecordsRuns(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sched := createTestSchedule(t, lord.Venus, 0.1)

	first, err := s.WriteSchedule(ctx, sched, "a")
	require.NoError(t, err)
	second, err := s.WriteSchedule(ctx, sched, "b")
	require.NoError(t, err)

	assert.True(t, first.Inserted)
	assert.False(t, second.Inserted)
	assert.Equal(t, first.ScheduleID, second.ScheduleID)
	assert.Equal(t, int64(2), second.Seq)

	var periods int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM periods`).Scan(&periods))
	assert.Equal(t, sched.NodeCount(), periods)

	runs, err := s.ListRuns(ctx, first.ScheduleID)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].Label)
	assert.Equal(t, "b", runs[1].Label)
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestWriteSameInputsNewInterpretations(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	plain := createInterpretedSchedule(t, lord.Moon, 0.4, "doubled")
	revised := createInterpretedSchedule(t, lord.Moon, 0.4, "twice over")

	first, err := s.WriteSchedule(ctx, plain, "")
	require.NoError(t, err)
	second, err := s.WriteSchedule(ctx, revised, "")
	require.NoError(t, err)

	assert.True(t, second.Inserted)
	assert.NotEqual(t, first.ScheduleID, second.ScheduleID)

	got, err := s.ReadSchedule(ctx, second.ScheduleID)
	require.NoError(t, err)
	require.NotNil(t, got.Majors[0].Children[0].Interpretation)
	assert.Equal(t, "Moon twice over", *got.Majors[0].Children[0].Interpretation)

	old, err := s.ReadSchedule(ctx, first.ScheduleID)
	require.NoError(t, err)
	assert.Equal(t, "Moon doubled", *old.Majors[0].Children[0].Interpretation)
}

func TestListSchedules(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	empty, err := s.ListSchedules(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := createTestSchedule(t, lord.Sun, 0.2)
	b := createTestSchedule(t, lord.Rahu, 0.9)
	resA, err := s.WriteSchedule(ctx, a, "")
	require.NoError(t, err)
	resB, err := s.WriteSchedule(ctx, b, "")
	require.NoError(t, err)
	_, err = s.WriteSchedule(ctx, a, "")
	require.NoError(t, err)

	list, err := s.ListSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, resA.ScheduleID, list[0].ID)
	assert.Equal(t, lord.Sun, list[0].StartLord)
	assert.Equal(t, 2, list[0].Runs)
	assert.Equal(t, resB.ScheduleID, list[1].ID)
	assert.Equal(t, 1, list[1].Runs)
	assert.Equal(t, b.NodeCount(), list[1].PeriodCount)
}

func TestResolveID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	res, err := s.WriteSchedule(ctx, createTestSchedule(t, lord.Mars, 0.5), "")
	require.NoError(t, err)

	id, err := s.ResolveID(ctx, res.ScheduleID[:8])
	require.NoError(t, err)
	assert.Equal(t, res.ScheduleID, id)

	_, err = s.ResolveID(ctx, "zzzz")
	assert.True(t, errors.Is(err, ErrNotFound))

	// With a single schedule stored, an empty prefix would otherwise match it.
	_, err = s.ResolveID(ctx, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadScheduleNotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadSchedule(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadScheduleDetectsTampering(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	res, err := s.WriteSchedule(ctx, createTestSchedule(t, lord.Jupiter, 0.3), "")
	require.NoError(t, err)

	_, err = s.DB().Exec(`UPDATE periods SET lord = 'Ketu' WHERE schedule_id = ? AND ordinal = 3`, res.ScheduleID)
	require.NoError(t, err)

	_, err = s.ReadSchedule(ctx, res.ScheduleID)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestDeleteScheduleCascades(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	res, err := s.WriteSchedule(ctx, createTestSchedule(t, lord.Saturn, 0.6), "")
	require.NoError(t, err)

	deleted, err := s.DeleteSchedule(ctx, res.ScheduleID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var periods, runs int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM periods`).Scan(&periods))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Zero(t, periods)
	assert.Zero(t, runs)

	deleted, err = s.DeleteSchedule(ctx, res.ScheduleID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
