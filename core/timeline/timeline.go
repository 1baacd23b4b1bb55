package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/effectwarp/core/interval"
)

var (
	// ErrUnsorted is returned when periods are not ordered by start.
	ErrUnsorted = errors.New("periods not sorted by start")
	// ErrOverlap is returned when a period starts before its predecessor ends.
	ErrOverlap = errors.New("periods overlap")
)

// NormalRate is the implicit rate outside any listed period.
const NormalRate = 1.0

func validate(ivs []interval.Interval) error {
	for i := 1; i < len(ivs); i++ {
		prev, next := ivs[i-1], ivs[i]
		if next.Start().Before(prev.Start()) {
			return fmt.Errorf("%w: period %d %s starts before period %d %s", ErrUnsorted, i, next, i-1, prev)
		}
		if prev.End().After(next.Start()) {
			return fmt.Errorf("%w: period %d %s ends after period %d %s starts", ErrOverlap, i-1, prev, i, next)
		}
	}
	return nil
}

// Periods is a sorted, non-overlapping list of zero-rate intervals.
type Periods struct {
	ivs []interval.Interval
}

// NewPeriods validates and copies ivs.
func NewPeriods(ivs ...interval.Interval) (Periods, error) {
	if err := validate(ivs); err != nil {
		return Periods{}, err
	}
	cp := make([]interval.Interval, len(ivs))
	copy(cp, ivs)
	return Periods{ivs: cp}, nil
}

// MustPeriods is like NewPeriods but panics on invalid input.
func MustPeriods(ivs ...interval.Interval) Periods {
	p, err := NewPeriods(ivs...)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of periods.
func (p Periods) Len() int { return len(p.ivs) }

// Intervals returns a copy of the periods.
func (p Periods) Intervals() []interval.Interval {
	cp := make([]interval.Interval, len(p.ivs))
	copy(cp, p.ivs)
	return cp
}

// Contains reports whether t falls inside any period, bounds included.
func (p Periods) Contains(t time.Time) bool {
	for _, iv := range p.ivs {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}

// AccumulatedDelay returns the total time within iv covered by the periods.
func (p Periods) AccumulatedDelay(iv interval.Interval) time.Duration {
	var d time.Duration
	for _, z := range p.ivs {
		d += interval.Overlap(z, iv)
	}
	return d
}

// RatedPeriod is an interval during which the effect runs at Rate times the
// normal rate. A rate of 0 suspends the effect.
type RatedPeriod struct {
	Interval interval.Interval
	Rate     float64
}

// Effective returns Rate × duration.
func (r RatedPeriod) Effective() time.Duration {
	return time.Duration(r.Rate * float64(r.Interval.Duration()))
}

func (r RatedPeriod) String() string {
	return fmt.Sprintf("%s x%g", r.Interval, r.Rate)
}

// Rated is a sorted, non-overlapping list of rated periods.
type Rated struct {
	periods []RatedPeriod
}

// NewRated validates and copies periods.
func NewRated(periods ...RatedPeriod) (Rated, error) {
	ivs := make([]interval.Interval, len(periods))
	for i, p := range periods {
		ivs[i] = p.Interval
	}
	if err := validate(ivs); err != nil {
		return Rated{}, err
	}
	cp := make([]RatedPeriod, len(periods))
	copy(cp, periods)
	return Rated{periods: cp}, nil
}

// MustRated is like NewRated but panics on invalid input.
func MustRated(periods ...RatedPeriod) Rated {
	r, err := NewRated(periods...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of periods.
func (r Rated) Len() int { return len(r.periods) }

// Periods returns a copy of the rated periods.
func (r Rated) Periods() []RatedPeriod {
	cp := make([]RatedPeriod, len(r.periods))
	copy(cp, r.periods)
	return cp
}

// Over partitions iv into consecutive rated spans in chronological order.
// Listed periods are clipped to iv and every uncovered part of iv is filled
// with a NormalRate span, so the durations of the result sum to
// iv.Duration().
func (r Rated) Over(iv interval.Interval) []RatedPeriod {
	first := 0
	for first < len(r.periods) && r.periods[first].Interval.End().Before(iv.Start()) {
		first++
	}
	last := first
	for last < len(r.periods) && r.periods[last].Interval.Start().Before(iv.End()) {
		last++
	}
	applicable := make([]RatedPeriod, last-first)
	copy(applicable, r.periods[first:last])
	if len(applicable) == 0 {
		return []RatedPeriod{{Interval: iv, Rate: NormalRate}}
	}

	applicable[0].Interval = applicable[0].Interval.ClampStart(iv.Start())
	n := len(applicable) - 1
	applicable[n].Interval = applicable[n].Interval.ClampEnd(iv.End())

	out := make([]RatedPeriod, 0, 2*len(applicable)+1)
	if head := applicable[0].Interval.Start(); head.After(iv.Start()) {
		out = append(out, RatedPeriod{Interval: interval.New(iv.Start(), head), Rate: NormalRate})
	}
	for i, p := range applicable {
		if i > 0 {
			prevEnd := applicable[i-1].Interval.End()
			if prevEnd.Before(p.Interval.Start()) {
				out = append(out, RatedPeriod{Interval: interval.New(prevEnd, p.Interval.Start()), Rate: NormalRate})
			}
		}
		out = append(out, p)
	}
	if tail := applicable[n].Interval.End(); tail.Before(iv.End()) {
		out = append(out, RatedPeriod{Interval: interval.New(tail, iv.End()), Rate: NormalRate})
	}
	return out
}

// EffectiveDuration sums Rate × duration over parts.
func EffectiveDuration(parts []RatedPeriod) time.Duration {
	var d time.Duration
	for _, p := range parts {
		d += p.Effective()
	}
	return d
}
