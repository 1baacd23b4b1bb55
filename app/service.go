package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/effectwarp/config"
	coremetrics "github.com/kilianp07/effectwarp/core/metrics"
	"github.com/kilianp07/effectwarp/core/model"
	"github.com/kilianp07/effectwarp/core/scenario"
	"github.com/kilianp07/effectwarp/infra/logger"
	"github.com/kilianp07/effectwarp/infra/metrics"
)

// Service periodically evaluates a scenario at the current time and feeds
// the samples to the configured sinks.
type Service struct {
	scenario scenario.Scenario
	anchor   time.Time
	runID    string
	watch    config.WatchConfig
	sink     coremetrics.SampleSink
	log      logger.Logger
	promAddr string
	now      func() time.Time
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	sc, err := scenario.LoadScenario(cfg.Scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	sink, err := coremetrics.NewSampleSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc, err := NewWithSink(sc, cfg.Watch, sink, logger.New("watch"))
	if err != nil {
		return nil, err
	}
	svc.promAddr = cfg.Metrics.PrometheusAddr
	return svc, nil
}

// NewWithSink creates a Service around an already built sink. Scenario
// offsets are anchored at the scenario start, or at the current time when
// the scenario has none.
func NewWithSink(sc scenario.Scenario, watch config.WatchConfig, sink coremetrics.SampleSink, log logger.Logger) (*Service, error) {
	watch.SetDefaults()
	if err := watch.Validate(); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	anchor := sc.Start
	if anchor.IsZero() {
		anchor = time.Now()
	}
	if _, err := sc.Build(anchor); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return &Service{
		scenario: sc,
		anchor:   anchor,
		runID:    uuid.NewString(),
		watch:    watch,
		sink:     sink,
		log:      log,
		now:      time.Now,
	}, nil
}

// Run evaluates the scenario every watch interval and blocks until the
// context is cancelled. Buffered samples are flushed before returning.
func (s *Service) Run(ctx context.Context) error {
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("watching scenario %s every %s (run %s)", s.scenario.Name, s.watch.Interval, s.runID)

	ticker := time.NewTicker(s.watch.Interval)
	defer ticker.Stop()
	buf := make([]model.Sample, 0, s.watch.Batch)
	buf = s.tick(buf)
	for {
		select {
		case <-ctx.Done():
			s.flush(buf)
			return nil
		case <-ticker.C:
			buf = s.tick(buf)
		}
	}
}

func (s *Service) tick(buf []model.Sample) []model.Sample {
	smp, err := scenario.Evaluate(s.scenario, s.anchor, s.now())
	if err != nil {
		s.log.Errorf("evaluate: %v", err)
		return buf
	}
	smp.RunID = s.runID
	s.log.Debugw("sample", map[string]any{
		"iob":       smp.InsulinOnBoard,
		"cob":       smp.CarbsOnBoard,
		"rate":      smp.InsulinRate,
		"suspended": smp.CarbsSuspended,
	})
	buf = append(buf, smp)
	if len(buf) >= s.watch.Batch {
		s.flush(buf)
		buf = make([]model.Sample, 0, s.watch.Batch)
	}
	return buf
}

func (s *Service) flush(buf []model.Sample) {
	if len(buf) == 0 {
		return
	}
	if err := s.sink.RecordSamples(buf); err != nil {
		s.log.Errorf("metrics error: %v", err)
	}
}

// Close releases resources held by the sinks.
func (s *Service) Close() error {
	closeSink(s.sink)
	return nil
}

func closeSink(sink coremetrics.SampleSink) {
	switch v := sink.(type) {
	case interface{ Close() }:
		v.Close()
	case *coremetrics.MultiSink:
		for _, inner := range v.Sinks {
			closeSink(inner)
		}
	}
}
