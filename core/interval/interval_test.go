package interval

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)

func TestNewPanicsOnReversedBounds(t *testing.T) {
	assert.Panics(t, func() { New(t0, t0.Add(-time.Minute)) })
	assert.NotPanics(t, func() { New(t0, t0) })
}

func TestIntervalBasics(t *testing.T) {
	iv := WithDuration(t0, time.Hour)
	if iv.Duration() != time.Hour {
		t.Fatalf("expected 1h got %v", iv.Duration())
	}
	if !iv.Midpoint().Equal(t0.Add(30 * time.Minute)) {
		t.Fatalf("unexpected midpoint %v", iv.Midpoint())
	}
	if !iv.Contains(t0) || !iv.Contains(t0.Add(time.Hour)) {
		t.Fatalf("bounds must be contained")
	}
	if iv.Contains(t0.Add(-time.Nanosecond)) || iv.Contains(t0.Add(time.Hour+time.Nanosecond)) {
		t.Fatalf("points outside must not be contained")
	}
	if got := iv.Extended(30 * time.Minute).Duration(); got != 90*time.Minute {
		t.Fatalf("extended duration %v", got)
	}
	assert.True(t, Interval{}.IsZero())
	assert.False(t, iv.IsZero())
}

func TestClampStart(t *testing.T) {
	iv := WithDuration(t0, time.Hour)
	c := iv.ClampStart(t0.Add(10 * time.Minute))
	assert.Equal(t, t0.Add(10*time.Minute), c.Start())
	assert.Equal(t, iv.End(), c.End())

	// no-op when already past the floor
	assert.Equal(t, iv, iv.ClampStart(t0.Add(-time.Minute)))
	// floor equal to end collapses the interval
	assert.Equal(t, time.Duration(0), iv.ClampStart(iv.End()).Duration())
	assert.Panics(t, func() { iv.ClampStart(iv.End().Add(time.Second)) })
}

func TestClampEnd(t *testing.T) {
	iv := WithDuration(t0, time.Hour)
	c := iv.ClampEnd(t0.Add(20 * time.Minute))
	assert.Equal(t, t0, c.Start())
	assert.Equal(t, t0.Add(20*time.Minute), c.End())

	assert.Equal(t, iv, iv.ClampEnd(t0.Add(2*time.Hour)))
	assert.Equal(t, time.Duration(0), iv.ClampEnd(t0).Duration())
	assert.Panics(t, func() { iv.ClampEnd(t0.Add(-time.Second)) })
}

func TestOverlap(t *testing.T) {
	a := WithDuration(t0, time.Hour)
	tests := []struct {
		name string
		b    Interval
		want time.Duration
	}{
		{"inside", WithDuration(t0.Add(10*time.Minute), 20*time.Minute), 20 * time.Minute},
		{"covering", WithDuration(t0.Add(-time.Hour), 3*time.Hour), time.Hour},
		{"partial start", WithDuration(t0.Add(-10*time.Minute), 30*time.Minute), 20 * time.Minute},
		{"partial end", WithDuration(t0.Add(50*time.Minute), 30*time.Minute), 10 * time.Minute},
		{"touching", WithDuration(t0.Add(time.Hour), time.Hour), 0},
		{"disjoint", WithDuration(t0.Add(2*time.Hour), time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(a, tt.b); got != tt.want {
				t.Fatalf("expected %v got %v", tt.want, got)
			}
			if got := Overlap(tt.b, a); got != tt.want {
				t.Fatalf("overlap not symmetric: %v", got)
			}
		})
	}
}

func TestFractionThrough(t *testing.T) {
	iv := WithDuration(t0, 4*time.Hour)
	assert.Equal(t, 0.0, iv.FractionThrough(t0))
	assert.Equal(t, 0.25, iv.FractionThrough(t0.Add(time.Hour)))
	assert.Equal(t, 1.5, iv.FractionThrough(t0.Add(6*time.Hour)))
	assert.Equal(t, -0.25, iv.FractionThrough(t0.Add(-time.Hour)))

	degenerate := New(t0, t0)
	if f := degenerate.FractionThrough(t0); !math.IsNaN(f) {
		t.Fatalf("expected NaN got %v", f)
	}
	if f := degenerate.FractionThrough(t0.Add(time.Minute)); !math.IsInf(f, 1) {
		t.Fatalf("expected +Inf got %v", f)
	}
}
