package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/effectwarp/core/interval"
	"github.com/kilianp07/effectwarp/core/logger"
	"github.com/kilianp07/effectwarp/core/metrics"
	"github.com/kilianp07/effectwarp/core/model"
	"github.com/kilianp07/effectwarp/core/override"
)

// activityStep is the finite-difference step, in seconds, used to derive
// insulin activity from insulin on board.
const activityStep = 30.0

// Result is the outcome of a simulation run.
type Result struct {
	RunID   string
	Samples []model.Sample
	Summary model.Summary
}

// Simulator samples scenarios and forwards the samples to a sink.
type Simulator struct {
	sink metrics.SampleSink
	log  logger.Logger
	now  func() time.Time
}

// NewSimulator returns a Simulator. A nil sink discards samples; log must
// not be nil.
func NewSimulator(sink metrics.SampleSink, log logger.Logger) *Simulator {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Simulator{sink: sink, log: log, now: time.Now}
}

// Run samples sc every Step from its start through Start+Horizon. A zero
// start time is replaced by the current time. Sink failures are logged and
// do not fail the run.
func (s *Simulator) Run(ctx context.Context, sc Scenario) (Result, error) {
	if err := sc.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid scenario: %w", err)
	}
	start := sc.Start
	if start.IsZero() {
		start = s.now()
	}
	models, err := sc.Build(start)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	step := sc.Step.Std()
	n := sc.SampleCount()
	samples := make([]model.Sample, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		smp := sc.sample(models, start.Add(time.Duration(i)*step))
		smp.RunID = runID
		samples = append(samples, smp)
	}

	summary := summarize(runID, sc.Name, samples, step)
	s.log.Infof("run %s: %d samples, peak activity %.3f U/h at %s",
		runID, len(samples), summary.PeakActivity, summary.PeakActivityAt.Format(time.RFC3339))

	if err := s.sink.RecordSamples(samples); err != nil {
		s.log.Errorf("metrics error: %v", err)
	}
	if rec, ok := s.sink.(metrics.SummaryRecorder); ok {
		if err := rec.RecordSummary(summary); err != nil {
			s.log.Errorf("summary metrics error: %v", err)
		}
	}
	return Result{RunID: runID, Samples: samples, Summary: summary}, nil
}

// Evaluate returns the state of sc at a single instant, with offsets resolved
// against start.
func Evaluate(sc Scenario, start, at time.Time) (model.Sample, error) {
	models, err := sc.Build(start)
	if err != nil {
		return model.Sample{}, err
	}
	return sc.sample(models, at), nil
}

func (s Scenario) sample(m Models, at time.Time) model.Sample {
	smp := model.Sample{
		Scenario:       s.Name,
		Time:           at,
		InsulinRate:    m.RateAt(at),
		CarbsSuspended: m.Carbs.ZeroAbsorptionPeriods().Contains(at),
	}
	if o, ok := override.ActiveAt(m.Overrides, at); ok {
		smp.Override = o.Name
	}

	for _, d := range s.Doses {
		given := m.Start.Add(d.Offset.Std())
		if at.Before(given) {
			continue
		}
		iv := interval.New(given, at)
		smp.InsulinOnBoard += m.Insulin.InsulinOnBoard(d.Units, iv)
		smp.EffectiveElapsed = max(smp.EffectiveElapsed, m.Insulin.EffectiveElapsed(iv))
	}
	smp.InsulinActivity = s.insulinActivity(m, at)

	for _, meal := range s.Meals {
		eaten := m.Start.Add(meal.Offset.Std())
		if at.Before(eaten) {
			continue
		}
		iv := interval.WithDuration(eaten, meal.AbsorptionTime.Std())
		absorbed := m.Carbs.AbsorbedCarbs(meal.Grams, at, iv)
		smp.CarbsAbsorbed += absorbed
		smp.CarbsOnBoard += meal.Grams - absorbed
		smp.CarbRate += meal.Grams * m.Carbs.PercentRate(at, iv) / iv.Duration().Hours()
	}
	return smp
}

// insulinActivity is the rate at which insulin on board decreases at t, in
// units per hour. Doses are treated as fully on board before they are given
// so the derivative stays finite at the dose instant.
func (s Scenario) insulinActivity(m Models, at time.Time) float64 {
	if len(s.Doses) == 0 {
		return 0
	}
	iob := func(x float64) float64 {
		t := at.Add(time.Duration(x * float64(time.Second)))
		var total float64
		for _, d := range s.Doses {
			given := m.Start.Add(d.Offset.Std())
			end := t
			if end.Before(given) {
				end = given
			}
			total += m.Insulin.InsulinOnBoard(d.Units, interval.New(given, end))
		}
		return total
	}
	perSecond := fd.Derivative(iob, 0, &fd.Settings{Formula: fd.Central, Step: activityStep})
	return -perSecond * time.Hour.Seconds()
}

func summarize(runID, name string, samples []model.Sample, step time.Duration) model.Summary {
	sum := model.Summary{RunID: runID, Scenario: name, Samples: len(samples)}
	if len(samples) == 0 {
		return sum
	}
	activity := make([]float64, len(samples))
	iob := make([]float64, len(samples))
	absorbed := make([]float64, len(samples))
	for i, smp := range samples {
		activity[i] = smp.InsulinActivity
		iob[i] = smp.InsulinOnBoard
		absorbed[i] = smp.CarbsAbsorbed
		if smp.CarbsSuspended {
			sum.SuspendedCarbTime += step
		}
	}
	peak := floats.MaxIdx(activity)
	sum.PeakActivity = activity[peak]
	sum.PeakActivityAt = samples[peak].Time
	sum.MaxInsulinOnBoard = floats.Max(iob)
	sum.TotalCarbsAbsorbed = floats.Max(absorbed)
	sum.MeanInsulinActivity = floats.Sum(activity) / float64(len(activity))
	return sum
}
