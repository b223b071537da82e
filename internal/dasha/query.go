package dasha

import (
	"sort"
	"time"
)

// At returns the chain of periods active at t, outermost first: the Major,
// then its Sub, then the SubSub. Returns nil if t is outside the schedule.
func (s *Schedule) At(t time.Time) []Period {
	var path []Period
	level := s.Majors
	for len(level) > 0 {
		p, ok := find(level, t)
		if !ok {
			break
		}
		path = append(path, p)
		level = p.Children
	}
	return path
}

// find locates the period containing t. Periods are sorted and contiguous.
func find(ps []Period, t time.Time) (Period, bool) {
	i := sort.Search(len(ps), func(i int) bool { return ps[i].End.After(t) })
	if i < len(ps) && ps[i].Contains(t) {
		return ps[i], true
	}
	return Period{}, false
}
