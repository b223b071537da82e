package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/dasha/internal/dasha"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSchedule = "dasha/schedule/v1"
	DomainTree     = "dasha/tree/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// formatFloat encodes f as its shortest round-trip decimal.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ScheduleID computes the content-addressed ID of a schedule: its build
// inputs plus its TreeHash. Interpretations only reach the tree, so the same
// inputs built against different tables get different IDs.
func ScheduleID(s *dasha.Schedule) (string, error) {
	tree, err := TreeHash(s)
	if err != nil {
		return "", fmt.Errorf("ScheduleID: %w", err)
	}
	obj := map[string]any{
		"reference":     instant(s.Reference),
		"start_lord":    s.StartLord.String(),
		"fraction":      formatFloat(s.Fraction),
		"horizon_years": formatFloat(s.HorizonYears),
		"year_length":   int64(s.YearLength),
		"tree":          tree,
	}

	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("ScheduleID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSchedule, data), nil
}

// TreeHash computes a hash over every period of s: level, lord, endpoints,
// clipping and interpretation. Any change to the tree changes the hash.
func TreeHash(s *dasha.Schedule) (string, error) {
	obj := map[string]any{
		"reference": instant(s.Reference),
		"horizon":   instant(s.Horizon),
		"majors":    periodsToAny(s.Majors),
	}

	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("TreeHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTree, data), nil
}

func periodsToAny(ps []dasha.Period) []any {
	out := make([]any, len(ps))
	for i := range ps {
		p := &ps[i]
		m := map[string]any{
			"level":    int(p.Level),
			"lord":     p.Lord.String(),
			"start":    instant(p.Start),
			"end":      instant(p.End),
			"clipped":  p.Clipped,
			"children": periodsToAny(p.Children),
		}
		if p.Interpretation != nil {
			m["interpretation"] = *p.Interpretation
		}
		out[i] = m
	}
	return out
}

// instant encodes t as RFC 3339 UTC with nanoseconds. UnixNano would
// overflow for references before 1678.
func instant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// MustScheduleID is like ScheduleID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustScheduleID(s *dasha.Schedule) string {
	id, err := ScheduleID(s)
	if err != nil {
		panic(err)
	}
	return id
}
