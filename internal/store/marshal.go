package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/dasha/internal/lord"
)

// Instants are stored as RFC 3339 UTC text with nanoseconds. Unix
// nanoseconds would not cover references before 1678.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseLord(s string) (lord.Lord, error) {
	l, err := lord.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("stored lord: %w", err)
	}
	return l, nil
}

func nullableText(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func textPointer(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
