// Package interval implements closed time spans and the small amount of
// arithmetic the effect models need: clamping, overlap and fractional
// position.
package interval

import (
	"fmt"
	"time"
)

// Interval is a closed span [Start, End] on the wall-clock axis.
type Interval struct {
	start time.Time
	end   time.Time
}

// New returns the interval [start, end]. It panics if end is before start.
func New(start, end time.Time) Interval {
	if end.Before(start) {
		panic(fmt.Sprintf("interval: end %s before start %s", end.Format(time.RFC3339Nano), start.Format(time.RFC3339Nano)))
	}
	return Interval{start: start, end: end}
}

// WithDuration returns the interval starting at start and lasting d.
func WithDuration(start time.Time, d time.Duration) Interval {
	return New(start, start.Add(d))
}

func (i Interval) Start() time.Time { return i.start }

func (i Interval) End() time.Time { return i.end }

// Duration returns End - Start.
func (i Interval) Duration() time.Duration { return i.end.Sub(i.start) }

// IsZero reports whether the interval is the zero value.
func (i Interval) IsZero() bool { return i.start.IsZero() && i.end.IsZero() }

// Contains reports whether t lies in the interval, bounds included.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.start) && !t.After(i.end)
}

// Midpoint returns the instant halfway between Start and End.
func (i Interval) Midpoint() time.Time {
	return i.start.Add(i.Duration() / 2)
}

// ClampStart raises the start of the interval to floor. It is a no-op when
// the interval already starts at or after floor and panics if floor lies
// after End.
func (i Interval) ClampStart(floor time.Time) Interval {
	if floor.After(i.end) {
		panic(fmt.Sprintf("interval: clamp start %s after end %s", floor.Format(time.RFC3339Nano), i.end.Format(time.RFC3339Nano)))
	}
	if !i.start.Before(floor) {
		return i
	}
	return Interval{start: floor, end: i.end}
}

// ClampEnd lowers the end of the interval to ceiling. It is a no-op when the
// interval already ends at or before ceiling and panics if ceiling lies
// before Start.
func (i Interval) ClampEnd(ceiling time.Time) Interval {
	if ceiling.Before(i.start) {
		panic(fmt.Sprintf("interval: clamp end %s before start %s", ceiling.Format(time.RFC3339Nano), i.start.Format(time.RFC3339Nano)))
	}
	if !i.end.After(ceiling) {
		return i
	}
	return Interval{start: i.start, end: ceiling}
}

// Extended returns the interval with its end pushed back by d.
func (i Interval) Extended(d time.Duration) Interval {
	return New(i.start, i.end.Add(d))
}

// FractionThrough returns how far t lies through the interval, where 0 is
// Start and 1 is End. Values outside [0,1] are returned for points outside
// the interval. A zero-length interval yields NaN or ±Inf.
func (i Interval) FractionThrough(t time.Time) float64 {
	return float64(t.Sub(i.start)) / float64(i.Duration())
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]", i.start.Format(time.RFC3339), i.end.Format(time.RFC3339))
}

// Overlap returns the length of the intersection of a and b, or zero when
// they do not intersect.
func Overlap(a, b Interval) time.Duration {
	d := tmin(a.end, b.end).Sub(tmax(a.start, b.start))
	if d < 0 {
		return 0
	}
	return d
}

func tmin(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func tmax(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
