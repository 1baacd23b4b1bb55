// Package override describes temporary schedule overrides and turns
// exercise overrides into the timelines consumed by the effect models.
package override

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/timeline"
)

// Role classifies an override.
type Role string

const (
	RoleStandard Role = "standard"
	RoleExercise Role = "exercise"
)

// ParseRole parses s, treating an empty string as RoleStandard.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleStandard:
		return RoleStandard, nil
	case RoleExercise:
		return RoleExercise, nil
	}
	return "", fmt.Errorf("unknown override role %q", s)
}

// Settings are the adjustments an override applies to the therapy schedule.
type Settings struct {
	Role Role `json:"role" yaml:"role"`
	// InsulinNeedsScaleFactor scales basal rates and inversely scales
	// sensitivity and carb ratio. Nil leaves the schedule untouched.
	InsulinNeedsScaleFactor *float64 `json:"insulin_needs_scale_factor,omitempty" yaml:"insulin_needs_scale_factor,omitempty"`
}

// Validate checks the role and that the scale factor is positive.
func (s Settings) Validate() error {
	if _, err := ParseRole(string(s.Role)); err != nil {
		return err
	}
	if s.InsulinNeedsScaleFactor != nil && *s.InsulinNeedsScaleFactor <= 0 {
		return errors.New("insulin needs scale factor must be positive")
	}
	return nil
}

// BasalRateMultiplier returns the basal multiplier if one is set.
func (s Settings) BasalRateMultiplier() (float64, bool) {
	if s.InsulinNeedsScaleFactor == nil {
		return 0, false
	}
	return *s.InsulinNeedsScaleFactor, true
}

// InsulinSensitivityMultiplier returns the sensitivity multiplier if one is set.
func (s Settings) InsulinSensitivityMultiplier() (float64, bool) {
	if s.InsulinNeedsScaleFactor == nil {
		return 0, false
	}
	return 1 / *s.InsulinNeedsScaleFactor, true
}

// CarbRatioMultiplier returns the carb ratio multiplier if one is set.
func (s Settings) CarbRatioMultiplier() (float64, bool) {
	return s.InsulinSensitivityMultiplier()
}

// EffectiveInsulinNeedsScaleFactor returns the scale factor, or 1.
func (s Settings) EffectiveInsulinNeedsScaleFactor() float64 {
	if s.InsulinNeedsScaleFactor == nil {
		return 1
	}
	return *s.InsulinNeedsScaleFactor
}

// Override is a set of settings active over an interval.
type Override struct {
	Name     string
	Settings Settings
	Interval interval.Interval
}

// ExerciseEffect describes how exercise overrides alter the models.
type ExerciseEffect struct {
	// InsulinRate multiplies insulin action during exercise.
	InsulinRate float64 `json:"insulin_rate" yaml:"insulin_rate"`
	// SuspendCarbs pauses carbohydrate absorption during exercise.
	SuspendCarbs bool `json:"suspend_carbs" yaml:"suspend_carbs"`
}

// DefaultExerciseEffect leaves insulin at the normal rate and suspends
// carbohydrate absorption.
func DefaultExerciseEffect() ExerciseEffect {
	return ExerciseEffect{InsulinRate: timeline.NormalRate, SuspendCarbs: true}
}

// Timelines builds the zero-absorption periods and rated insulin periods
// produced by the exercise overrides. Standard overrides are ignored.
// Overlapping exercise overrides are rejected.
func Timelines(overrides []Override, effect ExerciseEffect) (timeline.Periods, timeline.Rated, error) {
	var exercise []Override
	for _, o := range overrides {
		if o.Settings.Role == RoleExercise {
			exercise = append(exercise, o)
		}
	}
	sort.SliceStable(exercise, func(i, j int) bool {
		return exercise[i].Interval.Start().Before(exercise[j].Interval.Start())
	})

	var zero []interval.Interval
	rated := make([]timeline.RatedPeriod, 0, len(exercise))
	for _, o := range exercise {
		if effect.SuspendCarbs {
			zero = append(zero, o.Interval)
		}
		if effect.InsulinRate != timeline.NormalRate {
			rated = append(rated, timeline.RatedPeriod{Interval: o.Interval, Rate: effect.InsulinRate})
		}
	}

	periods, err := timeline.NewPeriods(zero...)
	if err != nil {
		return timeline.Periods{}, timeline.Rated{}, fmt.Errorf("exercise overrides: %w", err)
	}
	r, err := timeline.NewRated(rated...)
	if err != nil {
		return timeline.Periods{}, timeline.Rated{}, fmt.Errorf("exercise overrides: %w", err)
	}
	return periods, r, nil
}

// ActiveAt returns the override containing t. When several do, the one
// that started last wins.
func ActiveAt(overrides []Override, t time.Time) (Override, bool) {
	var (
		found  Override
		active bool
	)
	for _, o := range overrides {
		if !o.Interval.Contains(t) {
			continue
		}
		if !active || o.Interval.Start().After(found.Interval.Start()) {
			found, active = o, true
		}
	}
	return found, active
}
