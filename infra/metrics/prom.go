package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/effectwarp/core/metrics"
	"github.com/kilianp07/effectwarp/core/model"
)

// PromSink exposes simulation samples as Prometheus metrics. Gauges hold the
// latest sample of each scenario.
type PromSink struct {
	samples  *prometheus.CounterVec
	iob      *prometheus.GaugeVec
	activity *prometheus.GaugeVec
	cob      *prometheus.GaugeVec
	carbRate *prometheus.GaugeVec
	rate     *prometheus.HistogramVec
	peak     *prometheus.GaugeVec
}

// NewPromSink registers simulation metrics on the default Prometheus registerer.
// The HTTP endpoint should be started separately using StartPromServer.
func NewPromSink() (coremetrics.SampleSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"scenario"}
	s := &PromSink{
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "effectwarp_samples_total",
			Help: "Total number of simulation samples recorded",
		}, labels),
		iob: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "effectwarp_insulin_on_board_units",
			Help: "Insulin still active at the latest sample",
		}, labels),
		activity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "effectwarp_insulin_activity_units_per_hour",
			Help: "Insulin activity at the latest sample",
		}, labels),
		cob: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "effectwarp_carbs_on_board_grams",
			Help: "Carbohydrates not yet absorbed at the latest sample",
		}, labels),
		carbRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "effectwarp_carb_absorption_grams_per_hour",
			Help: "Carbohydrate absorption rate at the latest sample",
		}, labels),
		rate: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "effectwarp_insulin_rate_multiplier",
			Help:    "Insulin effect rate multiplier observed per sample",
			Buckets: []float64{0, 0.5, 1, 1.5, 2, 3},
		}, labels),
		peak: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "effectwarp_run_peak_insulin_activity_units_per_hour",
			Help: "Peak insulin activity of the latest completed run",
		}, labels),
	}

	var err error
	if s.samples, err = register(reg, s.samples); err != nil {
		return nil, err
	}
	if s.iob, err = register(reg, s.iob); err != nil {
		return nil, err
	}
	if s.activity, err = register(reg, s.activity); err != nil {
		return nil, err
	}
	if s.cob, err = register(reg, s.cob); err != nil {
		return nil, err
	}
	if s.carbRate, err = register(reg, s.carbRate); err != nil {
		return nil, err
	}
	if s.rate, err = register(reg, s.rate); err != nil {
		return nil, err
	}
	if s.peak, err = register(reg, s.peak); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an already registered collector of the same type so that
// several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSamples updates counters and histograms for every sample and sets the
// gauges to the last one of each scenario.
func (s *PromSink) RecordSamples(samples []model.Sample) error {
	for _, smp := range samples {
		s.samples.WithLabelValues(smp.Scenario).Inc()
		s.rate.WithLabelValues(smp.Scenario).Observe(smp.InsulinRate)
		s.iob.WithLabelValues(smp.Scenario).Set(smp.InsulinOnBoard)
		s.activity.WithLabelValues(smp.Scenario).Set(smp.InsulinActivity)
		s.cob.WithLabelValues(smp.Scenario).Set(smp.CarbsOnBoard)
		s.carbRate.WithLabelValues(smp.Scenario).Set(smp.CarbRate)
	}
	return nil
}

// RecordSummary sets the run-level gauges.
func (s *PromSink) RecordSummary(sum model.Summary) error {
	s.peak.WithLabelValues(sum.Scenario).Set(sum.PeakActivity)
	return nil
}
