package curve

import (
	"math"
	"time"
)

// Unbounded is returned by AbsorptionTime when the observed absorption
// does not bound the total time, such as when nothing was absorbed yet.
const Unbounded = time.Duration(math.MaxInt64)

// InsulinCurve returns the fraction of insulin effect remaining after a
// given elapsed time. Implementations are non-increasing in elapsed and
// defined for elapsed >= 0.
type InsulinCurve interface {
	PercentEffectRemaining(elapsed time.Duration) float64
}

// CarbCurve describes carbohydrate absorption as a function of fractional
// position p through the absorption time, where 0 is the meal and 1 is the
// end of absorption.
type CarbCurve interface {
	// PercentAbsorptionAtPercentTime returns the fraction absorbed at p.
	PercentAbsorptionAtPercentTime(p float64) float64
	// PercentRateAtPercentTime returns the normalized absorption rate at p.
	PercentRateAtPercentTime(p float64) float64
	// AbsorptionTime estimates the total absorption time given that
	// percentAbsorption was observed after at. It returns Unbounded when
	// percentAbsorption is not positive.
	AbsorptionTime(percentAbsorption float64, at time.Duration) time.Duration
	// TimeToAbsorb returns the time needed to reach percentAbsorbed for a
	// meal absorbing over absorptionTime.
	TimeToAbsorb(percentAbsorbed float64, absorptionTime time.Duration) time.Duration
}

// percentTimeCurve is implemented by carb curves with an explicit inverse.
type percentTimeCurve interface {
	PercentTimeAtPercentAbsorption(percentAbsorption float64) float64
}

func absorptionTime(c percentTimeCurve, percentAbsorption float64, at time.Duration) time.Duration {
	pt := c.PercentTimeAtPercentAbsorption(percentAbsorption)
	if pt <= 0 {
		return Unbounded
	}
	d := float64(at) / pt
	if d >= float64(Unbounded) {
		return Unbounded
	}
	return time.Duration(d)
}

func timeToAbsorb(c percentTimeCurve, percentAbsorbed float64, absorptionTime time.Duration) time.Duration {
	return time.Duration(float64(absorptionTime) * c.PercentTimeAtPercentAbsorption(percentAbsorbed))
}
