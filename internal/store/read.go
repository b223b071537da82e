package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/dasha/internal/canonical"
	"github.com/roach88/dasha/internal/dasha"
	"github.com/roach88/dasha/internal/lord"
)

// ErrNotFound is returned when no schedule matches an ID or prefix.
var ErrNotFound = errors.New("schedule not found")

// ErrAmbiguousID is returned when an ID prefix matches several schedules.
var ErrAmbiguousID = errors.New("schedule id prefix is ambiguous")

// ErrCorrupt is returned when a stored tree does not match its tree hash.
var ErrCorrupt = errors.New("stored schedule does not match its tree hash")

// Summary describes a stored schedule without its tree.
type Summary struct {
	ID           string        `json:"id"`
	Reference    time.Time     `json:"reference"`
	Horizon      time.Time     `json:"horizon"`
	StartLord    lord.Lord     `json:"start_lord"`
	Fraction     float64       `json:"fraction"`
	HorizonYears float64       `json:"horizon_years"`
	YearLength   time.Duration `json:"year_length_ns"`
	TreeHash     string        `json:"tree_hash"`
	PeriodCount  int           `json:"period_count"`
	Runs         int           `json:"runs"`
}

// Run is one recorded save of a schedule.
type Run struct {
	ID         string `json:"id"`
	ScheduleID string `json:"schedule_id"`
	Seq        int64  `json:"seq"`
	Label      string `json:"label"`
}

// ResolveID expands a unique ID prefix to a full schedule ID. An empty
// prefix matches nothing.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM schedules
		WHERE substr(id, 1, length(?)) = ?
		ORDER BY id COLLATE BINARY ASC
		LIMIT 2
	`, prefix, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve id: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: iterate: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// ReadSummary returns the stored metadata of a schedule.
func (s *Store) ReadSummary(ctx context.Context, id string) (Summary, error) {
	row := s.db.QueryRowContext(ctx, summaryQuery+` WHERE s.id = ? GROUP BY s.id`, id)
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sum, err
}

// ListSchedules returns every stored schedule ordered by its first run.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListSchedules(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, summaryQuery+`
		GROUP BY s.id
		ORDER BY MIN(r.seq) ASC, s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: iterate: %w", err)
	}
	return out, nil
}

// ListRuns returns the runs of a schedule ordered by seq.
func (s *Store) ListRuns(ctx context.Context, scheduleID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, schedule_id, seq, label FROM runs
		WHERE schedule_id = ?
		ORDER BY seq ASC
	`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ScheduleID, &r.Seq, &r.Label); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}
	return out, nil
}

// ReadSchedule rebuilds a stored schedule and checks it against its tree hash.
func (s *Store) ReadSchedule(ctx context.Context, id string) (*dasha.Schedule, error) {
	sum, err := s.ReadSummary(ctx, id)
	if err != nil {
		return nil, err
	}

	sched := &dasha.Schedule{
		Reference:    sum.Reference,
		Horizon:      sum.Horizon,
		StartLord:    sum.StartLord,
		Fraction:     sum.Fraction,
		HorizonYears: sum.HorizonYears,
		YearLength:   sum.YearLength,
	}

	majors, err := s.readPeriods(ctx, id)
	if err != nil {
		return nil, err
	}
	sched.Majors = majors

	hash, err := canonical.TreeHash(sched)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	if hash != sum.TreeHash {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, id)
	}
	return sched, nil
}

type periodRow struct {
	period   dasha.Period
	parent   sql.NullInt64
	children []int
}

func (s *Store) readPeriods(ctx context.Context, id string) ([]dasha.Period, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ordinal, parent_ordinal, level, lord, start_at, end_at, clipped, interpretation
		FROM periods
		WHERE schedule_id = ?
		ORDER BY ordinal ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	var nodes []periodRow
	var roots []int
	for rows.Next() {
		var (
			ordinal        int64
			parent         sql.NullInt64
			level          int
			lordName       string
			startAt        string
			endAt          string
			clipped        int
			interpretation sql.NullString
		)
		if err := rows.Scan(&ordinal, &parent, &level, &lordName, &startAt, &endAt, &clipped, &interpretation); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		if ordinal != int64(len(nodes)) {
			return nil, fmt.Errorf("%w: period ordinal %d out of sequence", ErrCorrupt, ordinal)
		}

		l, err := parseLord(lordName)
		if err != nil {
			return nil, err
		}
		start, err := parseInstant(startAt)
		if err != nil {
			return nil, err
		}
		end, err := parseInstant(endAt)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, periodRow{
			period: dasha.Period{
				Interval:       dasha.Interval{Lord: l, Start: start, End: end},
				Level:          dasha.Level(level),
				Clipped:        clipped != 0,
				Interpretation: textPointer(interpretation),
			},
			parent: parent,
		})

		idx := len(nodes) - 1
		if !parent.Valid {
			roots = append(roots, idx)
			continue
		}
		if parent.Int64 < 0 || parent.Int64 >= int64(idx) {
			return nil, fmt.Errorf("%w: period %d has parent %d", ErrCorrupt, ordinal, parent.Int64)
		}
		nodes[parent.Int64].children = append(nodes[parent.Int64].children, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate periods: %w", err)
	}

	var materialize func(idx int) dasha.Period
	materialize = func(idx int) dasha.Period {
		p := nodes[idx].period
		if len(nodes[idx].children) > 0 {
			p.Children = make([]dasha.Period, len(nodes[idx].children))
			for i, c := range nodes[idx].children {
				p.Children[i] = materialize(c)
			}
		}
		return p
	}

	majors := make([]dasha.Period, len(roots))
	for i, r := range roots {
		majors[i] = materialize(r)
	}
	return majors, nil
}

const summaryQuery = `
	SELECT s.id, s.reference, s.horizon, s.start_lord, s.fraction, s.horizon_years,
	       s.year_length_ns, s.tree_hash, s.period_count, COUNT(r.id)
	FROM schedules s
	LEFT JOIN runs r ON r.schedule_id = s.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (Summary, error) {
	var (
		sum          Summary
		reference    string
		horizon      string
		startLord    string
		yearLengthNs int64
	)
	if err := row.Scan(&sum.ID, &reference, &horizon, &startLord, &sum.Fraction, &sum.HorizonYears,
		&yearLengthNs, &sum.TreeHash, &sum.PeriodCount, &sum.Runs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Summary{}, err
		}
		return Summary{}, fmt.Errorf("scan schedule: %w", err)
	}

	var err error
	if sum.Reference, err = parseInstant(reference); err != nil {
		return Summary{}, err
	}
	if sum.Horizon, err = parseInstant(horizon); err != nil {
		return Summary{}, err
	}
	if sum.StartLord, err = parseLord(startLord); err != nil {
		return Summary{}, err
	}
	sum.YearLength = time.Duration(yearLengthNs)
	return sum, nil
}
