package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/effectwarp/core/metrics"
	"github.com/kilianp07/effectwarp/core/model"
	"github.com/kilianp07/effectwarp/infra/logger"
)

// InfluxSink writes simulation samples to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.SampleSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSamples writes the samples in a single batch as effect_sample points.
func (s *InfluxSink) RecordSamples(samples []model.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(samples))
	for _, smp := range samples {
		points = append(points, samplePoint(smp))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordSummary writes a run summary as an effect_run point.
func (s *InfluxSink) RecordSummary(sum model.Summary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("effect_run").
		AddTag("run_id", sum.RunID).
		AddTag("scenario", sum.Scenario).
		AddField("samples", sum.Samples).
		AddField("peak_activity", round3(sum.PeakActivity)).
		AddField("max_iob", round3(sum.MaxInsulinOnBoard)).
		AddField("carbs_absorbed", round3(sum.TotalCarbsAbsorbed)).
		AddField("suspended_s", sum.SuspendedCarbTime.Seconds()).
		SetTime(sum.PeakActivityAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client resources.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func samplePoint(smp model.Sample) *write.Point {
	p := write.NewPointWithMeasurement("effect_sample").
		AddTag("run_id", smp.RunID).
		AddTag("scenario", smp.Scenario)
	if smp.Override != "" {
		p = p.AddTag("override", smp.Override)
	}
	return p.AddField("iob", round3(smp.InsulinOnBoard)).
		AddField("insulin_activity", round3(smp.InsulinActivity)).
		AddField("insulin_rate", round3(smp.InsulinRate)).
		AddField("cob", round3(smp.CarbsOnBoard)).
		AddField("carbs_absorbed", round3(smp.CarbsAbsorbed)).
		AddField("carb_rate", round3(smp.CarbRate)).
		AddField("carbs_suspended", smp.CarbsSuspended).
		SetTime(smp.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
