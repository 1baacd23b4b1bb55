// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Curves and metrics sinks are both built this way:
//
//	reg := factory.NewRegistry[curve.InsulinCurve]()
//	reg.Register("linear", func(conf map[string]any) (curve.InsulinCurve, error) {
//	    var c struct{ ActionDuration time.Duration `json:"action_duration"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return curve.NewLinearDecay(c.ActionDuration, 0)
//	})
//	ic, err := reg.Create(factory.ModuleConfig{Type: "linear", Conf: map[string]any{"action_duration": "4h"}})
package factory
