package curve

import (
	"fmt"
	"math"
	"time"
)

// LinearAbsorption absorbs carbohydrates at a constant rate.
type LinearAbsorption struct{}

// PercentAbsorptionAtPercentTime implements CarbCurve.
func (LinearAbsorption) PercentAbsorptionAtPercentTime(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p < 1:
		return p
	default:
		return 1
	}
}

// PercentRateAtPercentTime implements CarbCurve.
func (LinearAbsorption) PercentRateAtPercentTime(p float64) float64 {
	if p >= 0 && p <= 1 {
		return 1
	}
	return 0
}

// PercentTimeAtPercentAbsorption is the inverse of
// PercentAbsorptionAtPercentTime, clamped to [0,1].
func (LinearAbsorption) PercentTimeAtPercentAbsorption(percentAbsorption float64) float64 {
	return math.Max(0, math.Min(1, percentAbsorption))
}

// AbsorptionTime implements CarbCurve.
func (c LinearAbsorption) AbsorptionTime(percentAbsorption float64, at time.Duration) time.Duration {
	return absorptionTime(c, percentAbsorption, at)
}

// TimeToAbsorb implements CarbCurve.
func (c LinearAbsorption) TimeToAbsorb(percentAbsorbed float64, absorptionTime time.Duration) time.Duration {
	return timeToAbsorb(c, percentAbsorbed, absorptionTime)
}

// ParabolicAbsorption absorbs with a rate rising linearly to a peak at the
// midpoint and falling linearly back to zero.
type ParabolicAbsorption struct{}

// PercentAbsorptionAtPercentTime implements CarbCurve.
func (ParabolicAbsorption) PercentAbsorptionAtPercentTime(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p <= 0.5:
		return 2 * p * p
	case p < 1:
		return -1 + 2*p*(2-p)
	default:
		return 1
	}
}

// PercentRateAtPercentTime implements CarbCurve.
func (ParabolicAbsorption) PercentRateAtPercentTime(p float64) float64 {
	switch {
	case p >= 0 && p <= 0.5:
		return 4 * p
	case p > 0.5 && p <= 1:
		return 4 - 4*p
	default:
		return 0
	}
}

// PercentTimeAtPercentAbsorption is the inverse of
// PercentAbsorptionAtPercentTime, clamped to [0,1].
func (ParabolicAbsorption) PercentTimeAtPercentAbsorption(percentAbsorption float64) float64 {
	switch {
	case percentAbsorption <= 0:
		return 0
	case percentAbsorption <= 0.5:
		return math.Sqrt(percentAbsorption / 2)
	case percentAbsorption < 1:
		return 1 - math.Sqrt((1-percentAbsorption)/2)
	default:
		return 1
	}
}

// AbsorptionTime implements CarbCurve.
func (c ParabolicAbsorption) AbsorptionTime(percentAbsorption float64, at time.Duration) time.Duration {
	return absorptionTime(c, percentAbsorption, at)
}

// TimeToAbsorb implements CarbCurve.
func (c ParabolicAbsorption) TimeToAbsorb(percentAbsorbed float64, absorptionTime time.Duration) time.Duration {
	return timeToAbsorb(c, percentAbsorbed, absorptionTime)
}

// PiecewiseLinearAbsorption has a rate that ramps up until EndOfRise, stays
// flat, then ramps down from StartOfFall to the end of absorption. Both are
// fractions of the absorption time.
type PiecewiseLinearAbsorption struct {
	endOfRise   float64
	startOfFall float64
	scale       float64
}

// NewPiecewiseLinearAbsorption builds the curve. It requires
// 0 < endOfRise <= startOfFall < 1.
func NewPiecewiseLinearAbsorption(endOfRise, startOfFall float64) (PiecewiseLinearAbsorption, error) {
	if endOfRise <= 0 || startOfFall < endOfRise || startOfFall >= 1 {
		return PiecewiseLinearAbsorption{}, fmt.Errorf("invalid piecewise absorption: end of rise %g, start of fall %g", endOfRise, startOfFall)
	}
	return PiecewiseLinearAbsorption{
		endOfRise:   endOfRise,
		startOfFall: startOfFall,
		scale:       2 / (1 + startOfFall - endOfRise),
	}, nil
}

// DefaultPiecewiseLinearAbsorption rises over the first 15% and falls from
// the midpoint.
func DefaultPiecewiseLinearAbsorption() PiecewiseLinearAbsorption {
	c, _ := NewPiecewiseLinearAbsorption(0.15, 0.5)
	return c
}

// PercentRateAtPercentTime implements CarbCurve.
func (c PiecewiseLinearAbsorption) PercentRateAtPercentTime(p float64) float64 {
	switch {
	case p <= 0 || p > 1:
		return 0
	case p < c.endOfRise:
		return c.scale * p / c.endOfRise
	case p < c.startOfFall:
		return c.scale
	default:
		return c.scale * (1 - p) / (1 - c.startOfFall)
	}
}

// PercentAbsorptionAtPercentTime implements CarbCurve.
func (c PiecewiseLinearAbsorption) PercentAbsorptionAtPercentTime(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p < c.endOfRise:
		return 0.5 * c.scale * p * p / c.endOfRise
	case p < c.startOfFall:
		return c.scale * (p - 0.5*c.endOfRise)
	case p < 1:
		return 1 - 0.5*c.scale*(1-p)*(1-p)/(1-c.startOfFall)
	default:
		return 1
	}
}

// PercentTimeAtPercentAbsorption is the inverse of
// PercentAbsorptionAtPercentTime, clamped to [0,1].
func (c PiecewiseLinearAbsorption) PercentTimeAtPercentAbsorption(percentAbsorption float64) float64 {
	riseEnd := c.PercentAbsorptionAtPercentTime(c.endOfRise)
	fallStart := c.PercentAbsorptionAtPercentTime(c.startOfFall)
	switch {
	case percentAbsorption <= 0:
		return 0
	case percentAbsorption < riseEnd:
		return math.Sqrt(2 * percentAbsorption * c.endOfRise / c.scale)
	case percentAbsorption < fallStart:
		return percentAbsorption/c.scale + 0.5*c.endOfRise
	case percentAbsorption < 1:
		return 1 - math.Sqrt(2*(1-percentAbsorption)*(1-c.startOfFall)/c.scale)
	default:
		return 1
	}
}

// AbsorptionTime implements CarbCurve.
func (c PiecewiseLinearAbsorption) AbsorptionTime(percentAbsorption float64, at time.Duration) time.Duration {
	return absorptionTime(c, percentAbsorption, at)
}

// TimeToAbsorb implements CarbCurve.
func (c PiecewiseLinearAbsorption) TimeToAbsorb(percentAbsorbed float64, absorptionTime time.Duration) time.Duration {
	return timeToAbsorb(c, percentAbsorbed, absorptionTime)
}
