package insulin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/effectwarp/core/curve"
	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/timeline"
)

var start = time.Date(2025, 6, 9, 7, 0, 0, 0, time.UTC)

func exponential(t *testing.T) curve.Exponential {
	t.Helper()
	base, err := curve.NewExponential(360*time.Minute, 75*time.Minute, 10*time.Minute)
	require.NoError(t, err)
	return base
}

func TestNoVariability(t *testing.T) {
	base := exponential(t)
	m := NewVariableModel(base, timeline.MustRated())
	for d := time.Duration(0); d <= base.EffectDuration(); d += 5 * time.Minute {
		iv := interval.WithDuration(start, d)
		if got, want := m.PercentEffectRemaining(iv), base.PercentEffectRemaining(d); got != want {
			t.Fatalf("at %v expected %v got %v", d, want, got)
		}
		parts := m.EffectTimeline(iv)
		require.Len(t, parts, 1)
		assert.Equal(t, timeline.NormalRate, parts[0].Rate)
	}
}

func TestSingleVariablePeriod(t *testing.T) {
	base := exponential(t)
	exerciseStart := 30 * time.Minute
	exercise := timeline.RatedPeriod{
		Interval: interval.WithDuration(start.Add(exerciseStart), 30*time.Minute),
		Rate:     1.5,
	}
	exerciseEnd := exerciseStart + exercise.Interval.Duration()
	m := NewVariableModel(base, timeline.MustRated(exercise))

	// identical to the base curve until exercise starts
	for d := time.Duration(0); d <= exerciseStart; d += 5 * time.Minute {
		assert.Equal(t, base.PercentEffectRemaining(d), m.PercentEffectRemaining(interval.WithDuration(start, d)), "at %v", d)
	}
	// during exercise the completed part runs 1.5 times faster
	for d := exerciseStart; d <= exerciseEnd; d += 5 * time.Minute {
		effective := exerciseStart + time.Duration(exercise.Rate*float64(d-exerciseStart))
		assert.InDelta(t, base.PercentEffectRemaining(effective), m.PercentEffectRemaining(interval.WithDuration(start, d)), 1e-12, "at %v", d)
	}
	// afterwards the curve is shifted by the extra effective time
	for d := exerciseEnd; d <= base.EffectDuration(); d += 5 * time.Minute {
		effective := exerciseStart + time.Duration(exercise.Rate*float64(exercise.Interval.Duration())) + (d - exerciseEnd)
		assert.InDelta(t, base.PercentEffectRemaining(effective), m.PercentEffectRemaining(interval.WithDuration(start, d)), 1e-12, "at %v", d)
	}
}

func TestMultipleVariablePeriodsComposeAdditively(t *testing.T) {
	base := exponential(t)
	first := timeline.RatedPeriod{Interval: interval.WithDuration(start.Add(20*time.Minute), 20*time.Minute), Rate: 2}
	second := timeline.RatedPeriod{Interval: interval.WithDuration(start.Add(60*time.Minute), 40*time.Minute), Rate: 0.5}
	m := NewVariableModel(base, timeline.MustRated(first, second))

	for d := time.Duration(0); d <= 4*time.Hour; d += 5 * time.Minute {
		iv := interval.WithDuration(start, d)
		var want time.Duration
		cursor := time.Duration(0)
		for _, p := range []timeline.RatedPeriod{first, second} {
			pStart := p.Interval.Start().Sub(start)
			pEnd := p.Interval.End().Sub(start)
			if d <= pStart {
				break
			}
			want += pStart - cursor
			done := min(d, pEnd) - pStart
			want += time.Duration(p.Rate * float64(done))
			cursor = min(d, pEnd)
		}
		if d > cursor {
			want += d - cursor
		}
		assert.Equal(t, want, m.EffectiveElapsed(iv), "at %v", d)
		assert.InDelta(t, base.PercentEffectRemaining(want), m.PercentEffectRemaining(iv), 1e-12, "at %v", d)
	}
}

func TestSuspensionPausesEffect(t *testing.T) {
	base := exponential(t)
	pause := timeline.RatedPeriod{Interval: interval.WithDuration(start.Add(time.Hour), time.Hour), Rate: 0}
	m := NewVariableModel(base, timeline.MustRated(pause))
	atPauseStart := m.PercentEffectRemaining(interval.WithDuration(start, time.Hour))
	atPauseEnd := m.PercentEffectRemaining(interval.WithDuration(start, 2*time.Hour))
	assert.Equal(t, atPauseStart, atPauseEnd)
	assert.Equal(t, time.Hour, m.EffectiveElapsed(interval.WithDuration(start, 2*time.Hour)))
}

func TestRateMonotonicity(t *testing.T) {
	base := exponential(t)
	iv := interval.WithDuration(start, 3*time.Hour)
	prev := 2.0
	for _, rate := range []float64{0, 0.25, 0.5, 1, 1.5, 2, 3} {
		p := timeline.RatedPeriod{Interval: interval.WithDuration(start.Add(45*time.Minute), time.Hour), Rate: rate}
		got := NewVariableModel(base, timeline.MustRated(p)).PercentEffectRemaining(iv)
		if got > prev {
			t.Fatalf("rate %v increased remaining effect: %v > %v", rate, got, prev)
		}
		prev = got
	}
}

func TestQueryStartingMidPeriod(t *testing.T) {
	base := exponential(t)
	p := timeline.RatedPeriod{Interval: interval.WithDuration(start, 2*time.Hour), Rate: 2}
	m := NewVariableModel(base, timeline.MustRated(p))
	// a dose given one hour into the period only sees the remaining hour
	iv := interval.WithDuration(start.Add(time.Hour), 2*time.Hour)
	assert.Equal(t, 3*time.Hour, m.EffectiveElapsed(iv))
	assert.Equal(t, base.PercentEffectRemaining(3*time.Hour), m.PercentEffectRemaining(iv))
}

func TestInsulinOnBoard(t *testing.T) {
	lin, err := curve.NewLinearDecay(4*time.Hour, 0)
	require.NoError(t, err)
	m := NewVariableModel(lin, timeline.MustRated())
	assert.InDelta(t, 2.0, m.InsulinOnBoard(4, interval.WithDuration(start, 2*time.Hour)), 1e-12)
	assert.Equal(t, 0, m.Timeline().Len())
}
