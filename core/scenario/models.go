package scenario

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/effectwarp/core/absorption"
	"github.com/kilianp07/effectwarp/core/curve"
	"github.com/kilianp07/effectwarp/core/insulin"
	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/override"
	"github.com/kilianp07/effectwarp/core/timeline"
)

// Models holds the warped models built for a scenario anchored at a start
// time.
type Models struct {
	Start     time.Time
	Insulin   insulin.VariableModel
	Carbs     absorption.DelayedModel
	Overrides []override.Override
}

// Build constructs the curves and timelines of s with event offsets
// resolved against start.
func (s Scenario) Build(start time.Time) (Models, error) {
	ic, err := curve.NewInsulinCurve(s.InsulinCurve)
	if err != nil {
		return Models{}, fmt.Errorf("insulin curve (known: %s): %w", strings.Join(curve.InsulinCurveTypes(), ", "), err)
	}
	cc, err := curve.NewCarbCurve(s.CarbCurve)
	if err != nil {
		return Models{}, fmt.Errorf("carb curve (known: %s): %w", strings.Join(curve.CarbCurveTypes(), ", "), err)
	}

	overrides := make([]override.Override, 0, len(s.Overrides))
	for _, o := range s.Overrides {
		role, err := override.ParseRole(o.Role)
		if err != nil {
			return Models{}, err
		}
		overrides = append(overrides, override.Override{
			Name:     o.Name,
			Settings: override.Settings{Role: role, InsulinNeedsScaleFactor: o.InsulinNeedsScaleFactor},
			Interval: interval.WithDuration(start.Add(o.Offset.Std()), o.Duration.Std()),
		})
	}
	zero, rated, err := override.Timelines(overrides, s.Exercise.Effect())
	if err != nil {
		return Models{}, err
	}

	zeroIvs := zero.Intervals()
	for _, p := range s.CarbSuspensions {
		zeroIvs = append(zeroIvs, interval.WithDuration(start.Add(p.Offset.Std()), p.Duration.Std()))
	}
	sort.SliceStable(zeroIvs, func(i, j int) bool { return zeroIvs[i].Start().Before(zeroIvs[j].Start()) })
	zero, err = timeline.NewPeriods(zeroIvs...)
	if err != nil {
		return Models{}, fmt.Errorf("carb suspensions: %w", err)
	}

	ratedPeriods := rated.Periods()
	for _, p := range s.RatePeriods {
		ratedPeriods = append(ratedPeriods, timeline.RatedPeriod{
			Interval: interval.WithDuration(start.Add(p.Offset.Std()), p.Duration.Std()),
			Rate:     p.Rate,
		})
	}
	sort.SliceStable(ratedPeriods, func(i, j int) bool {
		return ratedPeriods[i].Interval.Start().Before(ratedPeriods[j].Interval.Start())
	})
	rated, err = timeline.NewRated(ratedPeriods...)
	if err != nil {
		return Models{}, fmt.Errorf("rate periods: %w", err)
	}

	return Models{
		Start:     start,
		Insulin:   insulin.NewVariableModel(ic, rated),
		Carbs:     absorption.NewDelayedModel(cc, zero),
		Overrides: overrides,
	}, nil
}

// RateAt returns the insulin rate multiplier in effect at t.
func (m Models) RateAt(t time.Time) float64 {
	for _, p := range m.Insulin.Timeline().Periods() {
		if p.Interval.Contains(t) {
			return p.Rate
		}
	}
	return timeline.NormalRate
}
