package dasha

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/roach88/dasha/internal/lord"
)

// Interpreter looks up interpretation text for a (parent, child) lord pair.
// ok is false when the table has no entry.
type Interpreter interface {
	Interpret(outer, inner lord.Lord) (text string, ok bool)
}

// InterpreterFunc adapts a function to Interpreter.
type InterpreterFunc func(outer, inner lord.Lord) (string, bool)

// Interpret calls f.
func (f InterpreterFunc) Interpret(outer, inner lord.Lord) (string, bool) {
	return f(outer, inner)
}

type noInterpreter struct{}

func (noInterpreter) Interpret(lord.Lord, lord.Lord) (string, bool) { return "", false }

// Input holds the per-call values of a build.
type Input struct {
	// Reference is the instant the schedule starts at. Normalised to UTC.
	Reference time.Time

	// StartLord owns the anchor Major.
	StartLord lord.Lord

	// Fraction of StartLord's natural period elapsed at Reference, in [0,1).
	Fraction float64
}

// Builder constructs schedules. It is immutable and safe for concurrent use.
type Builder struct {
	cfg    Config
	interp Interpreter
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithInterpreter attaches interpretations to Sub and SubSub periods.
func WithInterpreter(i Interpreter) Option {
	return func(b *Builder) {
		if i != nil {
			b.interp = i
		}
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder. Config is validated on every Build so that
// invalid parameters surface as InputErrors.
func NewBuilder(cfg Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:    cfg,
		interp: noInterpreter{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build computes a schedule with the default year length and no
// interpretations.
func Build(reference time.Time, startLord lord.Lord, fraction, horizonYears float64) (*Schedule, error) {
	cfg := DefaultConfig()
	cfg.HorizonYears = horizonYears
	return NewBuilder(cfg).Build(Input{
		Reference: reference,
		StartLord: startLord,
		Fraction:  fraction,
	})
}

// Build computes the full three-level schedule for in.
func (b *Builder) Build(in Input) (*Schedule, error) {
	if err := b.validate(in); err != nil {
		return nil, err
	}

	ref := in.Reference.UTC()
	yl := b.cfg.YearLength
	horizon, err := b.cfg.HorizonFrom(ref)
	if err != nil {
		return nil, err
	}

	s := &Schedule{
		Reference:    ref,
		Horizon:      horizon,
		StartLord:    in.StartLord,
		Fraction:     in.Fraction,
		HorizonYears: b.cfg.HorizonYears,
		YearLength:   yl,
	}

	current := in.StartLord
	start := ref
	span := Remaining(in.StartLord, in.Fraction, yl)
	limit := maxMajors(b.cfg.HorizonYears)

	for i := 0; i < limit; i++ {
		major, last := clip(Period{
			Interval: Interval{Lord: current, Start: start, End: start.Add(span)},
			Level:    Major,
		}, horizon)
		b.segment(&major)
		s.Majors = append(s.Majors, major)
		if last {
			break
		}
		start = major.End
		current = current.Next()
		span = NaturalDuration(current, yl)
	}

	if !s.End().Equal(horizon) {
		return nil, fmt.Errorf("build: schedule ends at %s before horizon %s after %d majors",
			s.End().Format(time.RFC3339Nano), horizon.Format(time.RFC3339Nano), len(s.Majors))
	}

	b.logger.Debug("schedule built",
		"start_lord", in.StartLord.String(),
		"fraction", in.Fraction,
		"majors", len(s.Majors),
		"nodes", s.NodeCount(),
		"clipped", s.Majors[len(s.Majors)-1].Clipped,
	)

	return s, nil
}

func (b *Builder) validate(in Input) error {
	if in.Reference.IsZero() {
		return newInputError(ErrCodeInvalidReference, "reference", "reference instant is required")
	}
	if !in.StartLord.Valid() {
		return newInputError(ErrCodeInvalidLord, "start_lord", "lord %d is not in the cycle", uint8(in.StartLord))
	}
	if math.IsNaN(in.Fraction) || in.Fraction < 0 || in.Fraction >= 1 {
		return newInputError(ErrCodeInvalidFraction, "fraction", "fraction %v outside [0,1)", in.Fraction)
	}
	if err := b.cfg.Validate(); err != nil {
		return err
	}
	if Remaining(in.StartLord, in.Fraction, b.cfg.YearLength) <= 0 {
		return newInputError(ErrCodeInvalidFraction, "fraction", "fraction %v leaves no anchor period", in.Fraction)
	}
	return nil
}

// clip cuts p at horizon. last reports that p reaches the horizon, so no
// further Major may follow.
func clip(p Period, horizon time.Time) (clipped Period, last bool) {
	if p.End.After(horizon) {
		p.End = horizon
		p.Clipped = true
	}
	return p, !p.End.Before(horizon)
}

// maxMajors bounds the Major loop: the anchor plus enough full cycles to
// cover the horizon, plus one spare cycle.
func maxMajors(horizonYears float64) int {
	n := 1 + (math.Floor(horizonYears/lord.TotalWeight)+2)*lord.Count
	if n >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// segment splits p into nine children rotated from p's own lord and recurses
// until the Deepest level.
func (b *Builder) segment(p *Period) {
	if p.Level >= Deepest {
		return
	}

	order := lord.Rotate(p.Lord)
	weights := make([]int, len(order))
	for i, l := range order {
		weights[i] = l.Weight()
	}

	spans := Allocate(p.Start, p.Duration(), weights)
	p.Children = make([]Period, len(order))
	for i, l := range order {
		child := Period{
			Interval:       Interval{Lord: l, Start: spans[i].Start, End: spans[i].End},
			Level:          p.Level + 1,
			Interpretation: b.interpret(p.Lord, l),
		}
		b.segment(&child)
		p.Children[i] = child
	}
}

func (b *Builder) interpret(outer, inner lord.Lord) *string {
	text, ok := b.interp.Interpret(outer, inner)
	if !ok {
		return nil
	}
	return &text
}
