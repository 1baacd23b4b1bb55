// Package absorption models carbohydrate absorption that pauses during
// zero-absorption periods such as exercise. Queries are shifted back by the
// time absorption was suspended before the base curve is consulted.
package absorption

import (
	"time"

	"github.com/kilianp07/effectwarp/core/curve"
	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/timeline"
)

// DelayedModel wraps a carb curve with a set of zero-absorption periods.
type DelayedModel struct {
	base curve.CarbCurve
	zero timeline.Periods
}

// NewDelayedModel returns a model over base with the given suspended periods.
func NewDelayedModel(base curve.CarbCurve, zero timeline.Periods) DelayedModel {
	return DelayedModel{base: base, zero: zero}
}

// ZeroAbsorptionPeriods returns the suspended periods.
func (m DelayedModel) ZeroAbsorptionPeriods() timeline.Periods { return m.zero }

// AccumulatedDelay returns how long absorption was suspended within iv.
func (m DelayedModel) AccumulatedDelay(iv interval.Interval) time.Duration {
	return m.zero.AccumulatedDelay(iv)
}

// delayedPercentTime is the fraction through absorptionInterval reached at
// date once the suspension accumulated since the start is removed.
func (m DelayedModel) delayedPercentTime(date time.Time, absorptionInterval interval.Interval) float64 {
	var delay time.Duration
	if date.After(absorptionInterval.Start()) {
		delay = m.AccumulatedDelay(interval.New(absorptionInterval.Start(), date))
	}
	return absorptionInterval.FractionThrough(date.Add(-delay))
}

// PercentAbsorption returns the fraction of carbohydrates absorbed at date
// for a meal absorbing over absorptionInterval.
func (m DelayedModel) PercentAbsorption(date time.Time, absorptionInterval interval.Interval) float64 {
	return m.base.PercentAbsorptionAtPercentTime(m.delayedPercentTime(date, absorptionInterval))
}

// PercentRate returns the normalized absorption rate at date. It is exactly
// zero at any instant inside a zero-absorption period, bounds included.
func (m DelayedModel) PercentRate(date time.Time, absorptionInterval interval.Interval) float64 {
	if m.zero.Contains(date) {
		return 0
	}
	return m.base.PercentRateAtPercentTime(m.delayedPercentTime(date, absorptionInterval))
}

// AbsorbedCarbs returns the amount of total absorbed at date.
func (m DelayedModel) AbsorbedCarbs(total float64, date time.Time, absorptionInterval interval.Interval) float64 {
	return total * m.PercentAbsorption(date, absorptionInterval)
}

// UnabsorbedCarbs returns the amount of total still to be absorbed at date.
func (m DelayedModel) UnabsorbedCarbs(total float64, date time.Time, absorptionInterval interval.Interval) float64 {
	return total - m.AbsorbedCarbs(total, date, absorptionInterval)
}

// AbsorptionTime estimates the total absorption time given that
// percentAbsorption was observed at date. The suspension over the whole of
// absorptionInterval is added, not only the part before date, so the result
// is an estimate and not an inverse of PercentAbsorption when several
// periods are involved. An unbounded base estimate stays curve.Unbounded.
func (m DelayedModel) AbsorptionTime(percentAbsorption float64, date time.Time, absorptionInterval interval.Interval) time.Duration {
	at := date.Sub(absorptionInterval.Start())
	base := m.base.AbsorptionTime(percentAbsorption, at)
	delay := m.AccumulatedDelay(absorptionInterval)
	if base > curve.Unbounded-delay {
		return curve.Unbounded
	}
	return base + delay
}

// TimeToAbsorb delegates to the base curve.
//
// TODO: account for zero-absorption periods; the mapping is no longer
// one-to-one once absorption can pause, and remaining-time estimates built on
// this are optimistic.
func (m DelayedModel) TimeToAbsorb(percentAbsorbed float64, absorptionTime time.Duration) time.Duration {
	return m.base.TimeToAbsorb(percentAbsorbed, absorptionTime)
}
