package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/effectwarp/core/factory"
	coremetrics "github.com/kilianp07/effectwarp/core/metrics"
)

// init registers built-in sample sinks.
func init() {
	_ = coremetrics.RegisterSampleSink("prometheus", func(map[string]any) (coremetrics.SampleSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterSampleSink("influx", func(conf map[string]any) (coremetrics.SampleSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
