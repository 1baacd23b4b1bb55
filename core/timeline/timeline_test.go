package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/effectwarp/core/interval"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func span(from, length time.Duration) interval.Interval {
	return interval.WithDuration(t0.Add(from), length)
}

func TestNewPeriodsValidation(t *testing.T) {
	_, err := NewPeriods(span(time.Hour, time.Minute), span(0, time.Minute))
	if !errors.Is(err, ErrUnsorted) {
		t.Fatalf("expected ErrUnsorted got %v", err)
	}
	_, err = NewPeriods(span(0, time.Hour), span(30*time.Minute, time.Hour))
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap got %v", err)
	}
	// touching periods are allowed
	p, err := NewPeriods(span(0, time.Hour), span(time.Hour, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	empty, err := NewPeriods()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	assert.Panics(t, func() { MustPeriods(span(time.Hour, time.Minute), span(0, time.Minute)) })
}

func TestNewRatedValidation(t *testing.T) {
	_, err := NewRated(
		RatedPeriod{Interval: span(0, time.Hour), Rate: 2},
		RatedPeriod{Interval: span(59*time.Minute, time.Hour), Rate: 0.5},
	)
	assert.ErrorIs(t, err, ErrOverlap)
	_, err = NewRated(
		RatedPeriod{Interval: span(2*time.Hour, time.Hour), Rate: 2},
		RatedPeriod{Interval: span(0, time.Hour), Rate: 0.5},
	)
	assert.ErrorIs(t, err, ErrUnsorted)
	assert.Panics(t, func() {
		MustRated(RatedPeriod{Interval: span(0, time.Hour)}, RatedPeriod{Interval: span(0, time.Hour)})
	})
}

func TestPeriodsCopyOnConstruction(t *testing.T) {
	src := []interval.Interval{span(0, time.Hour)}
	p := MustPeriods(src...)
	src[0] = span(5*time.Hour, time.Hour)
	assert.Equal(t, span(0, time.Hour), p.Intervals()[0])
}

func TestPeriodsContains(t *testing.T) {
	p := MustPeriods(span(30*time.Minute, 30*time.Minute))
	assert.False(t, p.Contains(t0))
	assert.True(t, p.Contains(t0.Add(30*time.Minute)))
	assert.True(t, p.Contains(t0.Add(45*time.Minute)))
	assert.True(t, p.Contains(t0.Add(time.Hour)))
	assert.False(t, p.Contains(t0.Add(time.Hour+time.Second)))
}

func TestAccumulatedDelay(t *testing.T) {
	p := MustPeriods(span(30*time.Minute, 30*time.Minute))
	tests := []struct {
		name  string
		query interval.Interval
		want  time.Duration
	}{
		{"fully inside query", span(0, 3*time.Hour), 30 * time.Minute},
		{"fully outside query", span(2*time.Hour, time.Hour), 0},
		{"before period", span(0, 30*time.Minute), 0},
		{"partial overlap", span(0, 40*time.Minute), 10 * time.Minute},
		{"query inside period", span(35*time.Minute, 5*time.Minute), 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AccumulatedDelay(tt.query); got != tt.want {
				t.Fatalf("expected %v got %v", tt.want, got)
			}
		})
	}

	multi := MustPeriods(span(10*time.Minute, 10*time.Minute), span(40*time.Minute, 20*time.Minute))
	assert.Equal(t, 30*time.Minute, multi.AccumulatedDelay(span(0, 2*time.Hour)))
	assert.Equal(t, 15*time.Minute, multi.AccumulatedDelay(span(15*time.Minute, 35*time.Minute)))
}

func assertPartition(t *testing.T, parts []RatedPeriod, iv interval.Interval) {
	t.Helper()
	require.NotEmpty(t, parts)
	assert.Equal(t, iv.Start(), parts[0].Interval.Start())
	assert.Equal(t, iv.End(), parts[len(parts)-1].Interval.End())
	var total time.Duration
	for i, p := range parts {
		if i > 0 {
			assert.True(t, parts[i-1].Interval.End().Equal(p.Interval.Start()), "gap before part %d", i)
		}
		total += p.Interval.Duration()
	}
	assert.Equal(t, iv.Duration(), total)
}

func TestOverEmptyTimelineIsIdentity(t *testing.T) {
	var r Rated
	iv := span(0, 2*time.Hour)
	parts := r.Over(iv)
	assert.Equal(t, []RatedPeriod{{Interval: iv, Rate: NormalRate}}, parts)
	assert.Equal(t, iv.Duration(), EffectiveDuration(parts))
}

func TestOverFillsGaps(t *testing.T) {
	r := MustRated(
		RatedPeriod{Interval: span(30*time.Minute, 30*time.Minute), Rate: 1.5},
		RatedPeriod{Interval: span(90*time.Minute, 30*time.Minute), Rate: 0},
	)
	iv := span(0, 3*time.Hour)
	parts := r.Over(iv)
	assertPartition(t, parts, iv)
	wantRates := []float64{1, 1.5, 1, 0, 1}
	require.Len(t, parts, len(wantRates))
	for i, w := range wantRates {
		assert.Equal(t, w, parts[i].Rate, "rate of part %d", i)
	}
	// 30 + 45 + 30 + 0 + 60
	assert.Equal(t, 165*time.Minute, EffectiveDuration(parts))
}

func TestOverClipsPeriodsToQuery(t *testing.T) {
	r := MustRated(
		RatedPeriod{Interval: span(0, time.Hour), Rate: 2},
		RatedPeriod{Interval: span(time.Hour, time.Hour), Rate: 0.5},
	)
	iv := span(30*time.Minute, time.Hour)
	parts := r.Over(iv)
	assertPartition(t, parts, iv)
	require.Len(t, parts, 2)
	assert.Equal(t, 30*time.Minute, parts[0].Interval.Duration())
	assert.Equal(t, 30*time.Minute, parts[1].Interval.Duration())
	assert.Equal(t, 75*time.Minute, EffectiveDuration(parts))
}

func TestOverQueryOutsidePeriods(t *testing.T) {
	r := MustRated(RatedPeriod{Interval: span(time.Hour, time.Hour), Rate: 3})
	before := span(0, 30*time.Minute)
	assert.Equal(t, []RatedPeriod{{Interval: before, Rate: NormalRate}}, r.Over(before))
	after := span(3*time.Hour, time.Hour)
	assert.Equal(t, []RatedPeriod{{Interval: after, Rate: NormalRate}}, r.Over(after))
	// a query starting where a period starts excludes nothing
	touching := span(0, time.Hour)
	assert.Equal(t, []RatedPeriod{{Interval: touching, Rate: NormalRate}}, r.Over(touching))
}

func TestOverQueryInsidePeriod(t *testing.T) {
	r := MustRated(RatedPeriod{Interval: span(0, 4*time.Hour), Rate: 0.25})
	iv := span(time.Hour, time.Hour)
	parts := r.Over(iv)
	require.Len(t, parts, 1)
	assert.Equal(t, iv, parts[0].Interval)
	assert.Equal(t, 15*time.Minute, EffectiveDuration(parts))
}

func TestOverPartitionProperty(t *testing.T) {
	r := MustRated(
		RatedPeriod{Interval: span(10*time.Minute, 5*time.Minute), Rate: 2},
		RatedPeriod{Interval: span(15*time.Minute, 10*time.Minute), Rate: 0},
		RatedPeriod{Interval: span(40*time.Minute, 20*time.Minute), Rate: 1.2},
		RatedPeriod{Interval: span(100*time.Minute, time.Hour), Rate: 0.7},
	)
	for start := -30 * time.Minute; start <= 3*time.Hour; start += 7 * time.Minute {
		for length := time.Duration(0); length <= 2*time.Hour; length += 11 * time.Minute {
			assertPartition(t, r.Over(span(start, length)), span(start, length))
		}
	}
}
