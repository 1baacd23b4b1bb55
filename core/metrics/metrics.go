package metrics

import "github.com/kilianp07/effectwarp/core/model"

// SampleSink records simulation samples for observability purposes.
type SampleSink interface {
	RecordSamples(samples []model.Sample) error
}

// SummaryRecorder is implemented by sinks able to record run summaries.
type SummaryRecorder interface {
	RecordSummary(summary model.Summary) error
}

// NopSink implements SampleSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSamples([]model.Sample) error { return nil }

func (NopSink) RecordSummary(model.Summary) error { return nil }

// MultiSink fans samples out to several sinks.
type MultiSink struct {
	Sinks []SampleSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...SampleSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSamples forwards the samples to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSamples(samples []model.Sample) error {
	for _, s := range m.Sinks {
		if err := s.RecordSamples(samples); err != nil {
			return err
		}
	}
	return nil
}

// RecordSummary forwards the summary to sinks implementing SummaryRecorder.
func (m *MultiSink) RecordSummary(summary model.Summary) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SummaryRecorder); ok {
			if err := rec.RecordSummary(summary); err != nil {
				return err
			}
		}
	}
	return nil
}
