package curve

import (
	"time"

	"github.com/kilianp07/effectwarp/core/factory"
)

var (
	insulinRegistry = factory.NewRegistry[InsulinCurve]()
	carbRegistry    = factory.NewRegistry[CarbCurve]()
)

// RegisterInsulinCurve adds an insulin curve factory identified by name.
func RegisterInsulinCurve(name string, f factory.Factory[InsulinCurve]) error {
	return insulinRegistry.Register(name, f)
}

// RegisterCarbCurve adds a carb curve factory identified by name.
func RegisterCarbCurve(name string, f factory.Factory[CarbCurve]) error {
	return carbRegistry.Register(name, f)
}

// NewInsulinCurve creates an InsulinCurve from configuration. An empty type
// selects the rapid-acting adult exponential curve.
func NewInsulinCurve(cfg factory.ModuleConfig) (InsulinCurve, error) {
	if cfg.Type == "" {
		return NewExponentialPreset(RapidActingAdult)
	}
	return insulinRegistry.Create(cfg)
}

// NewCarbCurve creates a CarbCurve from configuration. An empty type
// selects the default piecewise linear curve.
func NewCarbCurve(cfg factory.ModuleConfig) (CarbCurve, error) {
	if cfg.Type == "" {
		return DefaultPiecewiseLinearAbsorption(), nil
	}
	return carbRegistry.Create(cfg)
}

// InsulinCurveTypes lists the registered insulin curve names.
func InsulinCurveTypes() []string { return insulinRegistry.Types() }

// CarbCurveTypes lists the registered carb curve names.
func CarbCurveTypes() []string { return carbRegistry.Types() }

type exponentialConf struct {
	Preset         string        `json:"preset"`
	ActionDuration time.Duration `json:"action_duration"`
	PeakActivity   time.Duration `json:"peak_activity"`
	Delay          time.Duration `json:"delay"`
}

type linearDecayConf struct {
	ActionDuration time.Duration `json:"action_duration"`
	Delay          time.Duration `json:"delay"`
}

type piecewiseConf struct {
	EndOfRise   float64 `json:"end_of_rise"`
	StartOfFall float64 `json:"start_of_fall"`
}

func init() {
	must(RegisterInsulinCurve("exponential", func(conf map[string]any) (InsulinCurve, error) {
		var c exponentialConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Preset != "" || c.ActionDuration == 0 {
			p := ExponentialPreset(c.Preset)
			if p == "" {
				p = RapidActingAdult
			}
			return NewExponentialPreset(p)
		}
		return NewExponential(c.ActionDuration, c.PeakActivity, c.Delay)
	}))
	must(RegisterInsulinCurve("linear", func(conf map[string]any) (InsulinCurve, error) {
		var c linearDecayConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewLinearDecay(c.ActionDuration, c.Delay)
	}))
	must(RegisterCarbCurve("linear", func(map[string]any) (CarbCurve, error) {
		return LinearAbsorption{}, nil
	}))
	must(RegisterCarbCurve("parabolic", func(map[string]any) (CarbCurve, error) {
		return ParabolicAbsorption{}, nil
	}))
	must(RegisterCarbCurve("piecewise_linear", func(conf map[string]any) (CarbCurve, error) {
		c := piecewiseConf{EndOfRise: 0.15, StartOfFall: 0.5}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewPiecewiseLinearAbsorption(c.EndOfRise, c.StartOfFall)
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
