package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/dasha/internal/canonical"
	"github.com/roach88/dasha/internal/dasha"
)

// WriteResult describes the outcome of WriteSchedule.
type WriteResult struct {
	ScheduleID string `json:"schedule_id"`
	RunID      string `json:"run_id"`
	Seq        int64  `json:"seq"`

	// Inserted is false when an identical schedule was already stored.
	Inserted bool `json:"inserted"`
}

// WriteSchedule stores s and records a run for it.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: the tree of an already
// stored schedule is not written again, but every call records a new run.
// Everything happens in one transaction.
func (s *Store) WriteSchedule(ctx context.Context, sched *dasha.Schedule, label string) (WriteResult, error) {
	treeHash, err := canonical.TreeHash(sched)
	if err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: %w", err)
	}
	id, err := canonical.ScheduleID(sched)
	if err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO schedules
		(id, reference, horizon, start_lord, fraction, horizon_years, year_length_ns, tree_hash, period_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		formatInstant(sched.Reference),
		formatInstant(sched.Horizon),
		sched.StartLord.String(),
		sched.Fraction,
		sched.HorizonYears,
		int64(sched.YearLength),
		treeHash,
		sched.NodeCount(),
	)
	if err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: rows affected: %w", err)
	}
	inserted := rowsAffected > 0

	if inserted {
		if err := writePeriods(ctx, tx, id, sched.Majors); err != nil {
			return WriteResult{}, fmt.Errorf("write schedule: %w", err)
		}
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: next seq: %w", err)
	}

	runID := s.runIDs()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, schedule_id, seq, label) VALUES (?, ?, ?, ?)
	`, runID, id, seq, label); err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: insert run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return WriteResult{}, fmt.Errorf("write schedule: commit: %w", err)
	}

	return WriteResult{ScheduleID: id, RunID: runID, Seq: seq, Inserted: inserted}, nil
}

// writePeriods inserts the tree in pre-order.
func writePeriods(ctx context.Context, tx *sql.Tx, scheduleID string, majors []dasha.Period) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO periods
		(schedule_id, ordinal, parent_ordinal, level, lord, start_at, end_at, clipped, interpretation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare periods: %w", err)
	}
	defer stmt.Close()

	ordinal := int64(0)
	var walk func(ps []dasha.Period, parent sql.NullInt64) error
	walk = func(ps []dasha.Period, parent sql.NullInt64) error {
		for i := range ps {
			p := &ps[i]
			own := ordinal
			ordinal++
			if _, err := stmt.ExecContext(ctx,
				scheduleID,
				own,
				parent,
				int(p.Level),
				p.Lord.String(),
				formatInstant(p.Start),
				formatInstant(p.End),
				boolToInt(p.Clipped),
				nullableText(p.Interpretation),
			); err != nil {
				return fmt.Errorf("insert period %d: %w", own, err)
			}
			if err := walk(p.Children, sql.NullInt64{Int64: own, Valid: true}); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(majors, sql.NullInt64{})
}

// DeleteSchedule removes a schedule, its periods and its runs.
// Returns false if no schedule had that ID.
func (s *Store) DeleteSchedule(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete schedule: rows affected: %w", err)
	}
	return n > 0, nil
}
