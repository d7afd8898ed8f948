// Package metrics records what a generation run did.
//
// Components receive a Recorder; NoopRecorder is the default so call sites
// never check for nil. PrometheusRecorder registers counters on a registry
// that can be written as a node-exporter textfile once a run completes:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run ...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
