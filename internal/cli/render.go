package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/dasha/internal/dasha"
)

// ScheduleView is the output form of a schedule.
type ScheduleView struct {
	ID             string       `json:"id,omitempty"`
	RunID          string       `json:"run_id,omitempty"`
	Reference      string       `json:"reference"`
	Horizon        string       `json:"horizon"`
	StartLord      string       `json:"start_lord"`
	Fraction       float64      `json:"fraction"`
	HorizonYears   float64      `json:"horizon_years"`
	YearLengthDays float64      `json:"year_length_days"`
	Majors         []MajorView  `json:"majors"`
	Active         []ActiveView `json:"active,omitempty"`

	activeAt time.Time
}

// MajorView is a Major period with its Subs.
type MajorView struct {
	Lord          string    `json:"lord"`
	Start         string    `json:"start"`
	End           string    `json:"end"`
	DurationYears float64   `json:"duration_years"`
	DurationDays  float64   `json:"duration_days"`
	Clipped       bool      `json:"clipped"`
	Subs          []SubView `json:"subs,omitempty"`
}

// SubView is a Sub period with its SubSubs.
type SubView struct {
	Lord           string       `json:"lord"`
	Start          string       `json:"start"`
	End            string       `json:"end"`
	Interpretation *string      `json:"interpretation"`
	SubSubs        []SubSubView `json:"subsubs,omitempty"`

	years float64
	days  float64
}

// SubSubView is a leaf period.
type SubSubView struct {
	Lord           string  `json:"lord"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	Interpretation *string `json:"interpretation"`

	years float64
	days  float64
}

// ActiveView is one level of the period chain active at an instant.
type ActiveView struct {
	Level          string  `json:"level"`
	Lord           string  `json:"lord"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	Interpretation *string `json:"interpretation"`
}

// newScheduleView converts s, keeping levels down to depth (1..3).
func newScheduleView(s *dasha.Schedule, depth int) *ScheduleView {
	yl := s.YearLength
	v := &ScheduleView{
		Reference:      formatInstant(s.Reference),
		Horizon:        formatInstant(s.Horizon),
		StartLord:      s.StartLord.String(),
		Fraction:       s.Fraction,
		HorizonYears:   s.HorizonYears,
		YearLengthDays: dasha.Days(yl),
		Majors:         make([]MajorView, len(s.Majors)),
	}

	for i, m := range s.Majors {
		mv := MajorView{
			Lord:          m.Lord.String(),
			Start:         formatInstant(m.Start),
			End:           formatInstant(m.End),
			DurationYears: dasha.Years(m.Duration(), yl),
			DurationDays:  dasha.Days(m.Duration()),
			Clipped:       m.Clipped,
		}
		if depth >= int(dasha.Sub) {
			mv.Subs = make([]SubView, len(m.Children))
			for j, sub := range m.Children {
				sv := SubView{
					Lord:           sub.Lord.String(),
					Start:          formatInstant(sub.Start),
					End:            formatInstant(sub.End),
					Interpretation: sub.Interpretation,
					years:          dasha.Years(sub.Duration(), yl),
					days:           dasha.Days(sub.Duration()),
				}
				if depth >= int(dasha.SubSub) {
					sv.SubSubs = make([]SubSubView, len(sub.Children))
					for k, ss := range sub.Children {
						sv.SubSubs[k] = SubSubView{
							Lord:           ss.Lord.String(),
							Start:          formatInstant(ss.Start),
							End:            formatInstant(ss.End),
							Interpretation: ss.Interpretation,
							years:          dasha.Years(ss.Duration(), yl),
							days:           dasha.Days(ss.Duration()),
						}
					}
				}
				mv.Subs[j] = sv
			}
		}
		v.Majors[i] = mv
	}
	return v
}

// withActive records the chain active at t.
func (v *ScheduleView) withActive(s *dasha.Schedule, t time.Time) {
	v.activeAt = t.UTC()
	v.Active = []ActiveView{}
	for _, p := range s.At(t) {
		v.Active = append(v.Active, ActiveView{
			Level:          p.Level.String(),
			Lord:           p.Lord.String(),
			Start:          formatInstant(p.Start),
			End:            formatInstant(p.End),
			Interpretation: p.Interpretation,
		})
	}
}

// RenderText writes the header and the period tree.
func (v *ScheduleView) RenderText(w io.Writer) error {
	var b strings.Builder
	if v.ID != "" {
		fmt.Fprintf(&b, "Schedule   %s\n", v.ID)
	}
	if v.RunID != "" {
		fmt.Fprintf(&b, "Run        %s\n", v.RunID)
	}
	fmt.Fprintf(&b, "Reference  %s\n", v.Reference)
	fmt.Fprintf(&b, "Horizon    %s\n", v.Horizon)
	fmt.Fprintf(&b, "Anchor     %s (%s elapsed)\n", v.StartLord, strconv.FormatFloat(v.Fraction, 'g', -1, 64))
	fmt.Fprintf(&b, "Majors     %d\n\n", len(v.Majors))

	for _, m := range v.Majors {
		writeLine(&b, 0, m.Lord, m.Start, m.End, m.DurationYears, m.DurationDays, m.Clipped, nil)
		for _, sub := range m.Subs {
			writeLine(&b, 1, sub.Lord, sub.Start, sub.End, sub.years, sub.days, false, sub.Interpretation)
			for _, ss := range sub.SubSubs {
				writeLine(&b, 2, ss.Lord, ss.Start, ss.End, ss.years, ss.days, false, ss.Interpretation)
			}
		}
	}

	if v.Active != nil {
		fmt.Fprintf(&b, "\nActive at %s\n", formatInstant(v.activeAt))
		if len(v.Active) == 0 {
			b.WriteString("  outside the schedule\n")
		}
		for _, a := range v.Active {
			fmt.Fprintf(&b, "  %-7s %-8s %s  %s", a.Level, a.Lord, a.Start, a.End)
			if a.Interpretation != nil {
				fmt.Fprintf(&b, "  %q", *a.Interpretation)
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeLine(b *strings.Builder, indent int, lordName, start, end string, years, days float64, clipped bool, interpretation *string) {
	fmt.Fprintf(b, "%s%-8s %s  %s %9.4fy %10.2fd", strings.Repeat("  ", indent), lordName, start, end, years, days)
	if clipped {
		b.WriteString("  clipped")
	}
	if interpretation != nil {
		fmt.Fprintf(b, "  %q", *interpretation)
	}
	b.WriteString("\n")
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
