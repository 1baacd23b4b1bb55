package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/effectwarp/core/factory"
	"github.com/kilianp07/effectwarp/core/override"
)

const (
	defaultHorizon        = 6 * time.Hour
	defaultStep           = 5 * time.Minute
	defaultAbsorptionTime = 3 * time.Hour
)

// MaxSamples caps the number of samples a single run may produce.
const MaxSamples = 100_000

// Scenario is the declarative input of a simulation.
type Scenario struct {
	Name    string    `json:"name" yaml:"name"`
	Start   time.Time `json:"start" yaml:"start"`
	Horizon Duration  `json:"horizon" yaml:"horizon"`
	Step    Duration  `json:"step" yaml:"step"`

	InsulinCurve factory.ModuleConfig `json:"insulin_curve" yaml:"insulin_curve"`
	CarbCurve    factory.ModuleConfig `json:"carb_curve" yaml:"carb_curve"`

	Doses     []Dose          `json:"doses" yaml:"doses"`
	Meals     []Meal          `json:"meals" yaml:"meals"`
	Overrides []OverrideEntry `json:"overrides" yaml:"overrides"`
	Exercise  ExerciseConfig  `json:"exercise" yaml:"exercise"`

	// RatePeriods and CarbSuspensions add periods that are not tied to an
	// override.
	RatePeriods     []PeriodEntry `json:"rate_periods" yaml:"rate_periods"`
	CarbSuspensions []PeriodEntry `json:"carb_suspensions" yaml:"carb_suspensions"`
}

// Dose is an insulin delivery.
type Dose struct {
	Offset Duration `json:"offset" yaml:"offset"`
	Units  float64  `json:"units" yaml:"units"`
}

// Meal is a carbohydrate entry absorbed over AbsorptionTime.
type Meal struct {
	Offset         Duration `json:"offset" yaml:"offset"`
	Grams          float64  `json:"grams" yaml:"grams"`
	AbsorptionTime Duration `json:"absorption_time" yaml:"absorption_time"`
}

// OverrideEntry is a temporary settings override.
type OverrideEntry struct {
	Name                    string   `json:"name" yaml:"name"`
	Role                    string   `json:"role" yaml:"role"`
	InsulinNeedsScaleFactor *float64 `json:"insulin_needs_scale_factor,omitempty" yaml:"insulin_needs_scale_factor,omitempty"`
	Offset                  Duration `json:"offset" yaml:"offset"`
	Duration                Duration `json:"duration" yaml:"duration"`
}

// ExerciseConfig configures how exercise overrides warp the models. Unset
// fields keep override.DefaultExerciseEffect.
type ExerciseConfig struct {
	InsulinRate  *float64 `json:"insulin_rate,omitempty" yaml:"insulin_rate,omitempty"`
	SuspendCarbs *bool    `json:"suspend_carbs,omitempty" yaml:"suspend_carbs,omitempty"`
}

// PeriodEntry is an offset span with an optional rate. Rate is ignored for
// carb suspensions.
type PeriodEntry struct {
	Offset   Duration `json:"offset" yaml:"offset"`
	Duration Duration `json:"duration" yaml:"duration"`
	Rate     float64  `json:"rate" yaml:"rate"`
}

// Effect resolves the exercise effect against the defaults.
func (e ExerciseConfig) Effect() override.ExerciseEffect {
	eff := override.DefaultExerciseEffect()
	if e.InsulinRate != nil {
		eff.InsulinRate = *e.InsulinRate
	}
	if e.SuspendCarbs != nil {
		eff.SuspendCarbs = *e.SuspendCarbs
	}
	return eff
}

// SetDefaults fills zero values with sensible defaults.
func (s *Scenario) SetDefaults() {
	if s.Name == "" {
		s.Name = "scenario"
	}
	if s.Horizon == 0 {
		s.Horizon = Duration(defaultHorizon)
	}
	if s.Step == 0 {
		s.Step = Duration(defaultStep)
	}
	for i := range s.Meals {
		if s.Meals[i].AbsorptionTime == 0 {
			s.Meals[i].AbsorptionTime = Duration(defaultAbsorptionTime)
		}
	}
}

// Validate checks the scenario for values the models cannot use.
func (s Scenario) Validate() error {
	var errs []error
	if s.Horizon <= 0 {
		errs = append(errs, fmt.Errorf("horizon must be positive"))
	}
	if s.Step <= 0 {
		errs = append(errs, fmt.Errorf("step must be positive"))
	}
	if s.Horizon > 0 && s.Step > 0 && s.Horizon/s.Step >= MaxSamples {
		errs = append(errs, fmt.Errorf("horizon %s with step %s exceeds %d samples", s.Horizon.Std(), s.Step.Std(), MaxSamples))
	}
	for i, d := range s.Doses {
		if d.Units < 0 {
			errs = append(errs, fmt.Errorf("doses[%d]: negative units", i))
		}
	}
	for i, m := range s.Meals {
		if m.Grams < 0 {
			errs = append(errs, fmt.Errorf("meals[%d]: negative grams", i))
		}
		if m.AbsorptionTime <= 0 {
			errs = append(errs, fmt.Errorf("meals[%d]: absorption_time must be positive", i))
		}
	}
	for i, o := range s.Overrides {
		role, err := override.ParseRole(o.Role)
		if err != nil {
			errs = append(errs, fmt.Errorf("overrides[%d]: %w", i, err))
			continue
		}
		settings := override.Settings{Role: role, InsulinNeedsScaleFactor: o.InsulinNeedsScaleFactor}
		if err := settings.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("overrides[%d]: %w", i, err))
		}
		if o.Duration < 0 {
			errs = append(errs, fmt.Errorf("overrides[%d]: negative duration", i))
		}
	}
	if r := s.Exercise.InsulinRate; r != nil && *r < 0 {
		errs = append(errs, fmt.Errorf("exercise: negative insulin_rate"))
	}
	for i, p := range s.RatePeriods {
		if p.Rate < 0 {
			errs = append(errs, fmt.Errorf("rate_periods[%d]: negative rate", i))
		}
		if p.Duration < 0 {
			errs = append(errs, fmt.Errorf("rate_periods[%d]: negative duration", i))
		}
	}
	for i, p := range s.CarbSuspensions {
		if p.Duration < 0 {
			errs = append(errs, fmt.Errorf("carb_suspensions[%d]: negative duration", i))
		}
	}
	return errors.Join(errs...)
}

// SampleCount is the number of samples a run produces, the start and every
// step up to and including the horizon.
func (s Scenario) SampleCount() int {
	return int(s.Horizon/s.Step) + 1
}

// LoadScenario loads a Scenario from a JSON or YAML file, applying defaults
// and validating it.
func LoadScenario(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	sc, err := DecodeScenario(f, ext)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// DecodeScenario reads from r to decode a Scenario, applying defaults and
// validating it.
func DecodeScenario(r io.Reader, format string) (Scenario, error) {
	var sc Scenario
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil {
			return sc, err
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return sc, err
		}
	default:
		return sc, fmt.Errorf("unsupported format: %s", format)
	}
	sc.SetDefaults()
	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("invalid scenario: %w", err)
	}
	return sc, nil
}
