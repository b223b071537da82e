package dasha

import (
	"fmt"
	"time"

	"github.com/roach88/dasha/internal/lord"
)

// Verify checks the structural invariants of s and returns the first
// violation as an *InvariantError.
func Verify(s *Schedule) error {
	if len(s.Majors) == 0 {
		return &InvariantError{Rule: "horizon", Detail: "schedule has no majors"}
	}
	if s.Majors[0].Lord != s.StartLord {
		return &InvariantError{Path: "major[0]", Rule: "succession",
			Detail: fmt.Sprintf("first major is %s, want %s", s.Majors[0].Lord, s.StartLord)}
	}
	for i := 1; i < len(s.Majors); i++ {
		if want := s.Majors[i-1].Lord.Next(); s.Majors[i].Lord != want {
			return &InvariantError{Path: fmt.Sprintf("major[%d]", i), Rule: "succession",
				Detail: fmt.Sprintf("lord %s follows %s, want %s", s.Majors[i].Lord, s.Majors[i-1].Lord, want)}
		}
	}
	if err := verifyTiling("", "major", s.Majors, s.Reference, s.Horizon); err != nil {
		return err
	}
	for i := range s.Majors {
		if s.Majors[i].Level != Major {
			return &InvariantError{Path: fmt.Sprintf("major[%d]", i), Rule: "level",
				Detail: fmt.Sprintf("level %s", s.Majors[i].Level)}
		}
		if err := verifyNode(fmt.Sprintf("major[%d]", i), &s.Majors[i]); err != nil {
			return err
		}
	}
	return nil
}

func verifyNode(path string, p *Period) error {
	if p.Level == Deepest {
		if len(p.Children) != 0 {
			return &InvariantError{Path: path, Rule: "level", Detail: "leaf has children"}
		}
		return nil
	}

	want := lord.Rotate(p.Lord)
	if len(p.Children) != len(want) {
		return &InvariantError{Path: path, Rule: "rotation",
			Detail: fmt.Sprintf("%d children, want %d", len(p.Children), len(want))}
	}
	childLevel := p.Level + 1
	for i := range p.Children {
		c := &p.Children[i]
		childPath := fmt.Sprintf("%s.%s[%d]", path, childLevel, i)
		if c.Lord != want[i] {
			return &InvariantError{Path: childPath, Rule: "rotation",
				Detail: fmt.Sprintf("lord %s, want %s", c.Lord, want[i])}
		}
		if c.Level != childLevel {
			return &InvariantError{Path: childPath, Rule: "level",
				Detail: fmt.Sprintf("level %s, want %s", c.Level, childLevel)}
		}
	}
	if err := verifyTiling(path, childLevel.String(), p.Children, p.Start, p.End); err != nil {
		return err
	}

	var sum time.Duration
	for i := range p.Children {
		sum += p.Children[i].Duration()
	}
	if sum != p.Duration() {
		return &InvariantError{Path: path, Rule: "tiling",
			Detail: fmt.Sprintf("children sum %s, parent %s", sum, p.Duration())}
	}

	for i := range p.Children {
		if err := verifyNode(fmt.Sprintf("%s.%s[%d]", path, childLevel, i), &p.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func verifyTiling(path, name string, ps []Period, start, end time.Time) error {
	at := func(i int) string {
		if path == "" {
			return fmt.Sprintf("%s[%d]", name, i)
		}
		return fmt.Sprintf("%s.%s[%d]", path, name, i)
	}

	cursor := start
	for i := range ps {
		if !ps[i].Start.Equal(cursor) {
			return &InvariantError{Path: at(i), Rule: "tiling",
				Detail: fmt.Sprintf("starts at %s, want %s",
					ps[i].Start.Format(time.RFC3339Nano), cursor.Format(time.RFC3339Nano))}
		}
		// Zero-length children occur when a span is shorter than the weight total in ns.
		if ps[i].End.Before(ps[i].Start) {
			return &InvariantError{Path: at(i), Rule: "tiling", Detail: "ends before it starts"}
		}
		cursor = ps[i].End
	}
	if !cursor.Equal(end) {
		return &InvariantError{Path: path, Rule: "tiling",
			Detail: fmt.Sprintf("children end at %s, want %s",
				cursor.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))}
	}
	return nil
}
