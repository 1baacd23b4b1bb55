package metrics

import "github.com/kilianp07/effectwarp/core/factory"

var sinkRegistry = factory.NewRegistry[SampleSink]()

func init() {
	_ = RegisterSampleSink("nop", func(map[string]any) (SampleSink, error) {
		return NopSink{}, nil
	})
}

// RegisterSampleSink adds a sink factory identified by name.
func RegisterSampleSink(name string, f factory.Factory[SampleSink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSampleSink creates a SampleSink from the provided configuration.
func NewSampleSink(cfgs []factory.ModuleConfig) (SampleSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]SampleSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
