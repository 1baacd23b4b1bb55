// Package metrics defines the sink interface that receives simulation
// samples. Sinks like PromSink and InfluxSink live in infra/metrics and
// register themselves here by name; NewSampleSink builds one from
// configuration and wraps several in a MultiSink automatically.
package metrics
