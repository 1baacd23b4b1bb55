// Package insulin models insulin action whose rate varies over time, for
// example faster during exercise. Wall-clock time is converted into
// effective time by weighting each span with its rate before the base curve
// is consulted: a span running at rate r for d counts as r×d of normal time.
package insulin

import (
	"time"

	"github.com/kilianp07/effectwarp/core/curve"
	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/timeline"
)

// VariableModel wraps an insulin curve with a rated timeline.
type VariableModel struct {
	base  curve.InsulinCurve
	rated timeline.Rated
}

// NewVariableModel returns a model over base. An empty timeline makes the
// model behave exactly like base.
func NewVariableModel(base curve.InsulinCurve, rated timeline.Rated) VariableModel {
	return VariableModel{base: base, rated: rated}
}

// Timeline returns the rated periods the model was built with.
func (m VariableModel) Timeline() timeline.Rated { return m.rated }

// EffectTimeline partitions iv into rated spans, filling uncovered time with
// the normal rate.
func (m VariableModel) EffectTimeline(iv interval.Interval) []timeline.RatedPeriod {
	return m.rated.Over(iv)
}

// EffectiveElapsed returns the normal-rate time equivalent to iv.
func (m VariableModel) EffectiveElapsed(iv interval.Interval) time.Duration {
	return timeline.EffectiveDuration(m.rated.Over(iv))
}

// PercentEffectRemaining returns the fraction of effect still to come for a
// dose given at iv.Start, evaluated at iv.End.
func (m VariableModel) PercentEffectRemaining(iv interval.Interval) float64 {
	return m.base.PercentEffectRemaining(m.EffectiveElapsed(iv))
}

// InsulinOnBoard returns the units still active from a dose of units given
// at iv.Start, evaluated at iv.End.
func (m VariableModel) InsulinOnBoard(units float64, iv interval.Interval) float64 {
	return units * m.PercentEffectRemaining(iv)
}
