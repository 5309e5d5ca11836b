// Package metrics records what batch runs and portfolio loads did.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// never need nil checks at call sites. When a metrics file is configured the
// commands inject a PrometheusRecorder and write its registry in the node
// exporter textfile format once the run is over:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	relocator := relocate.NewContentRelocator(fs, roots, relocate.WithRecorder(rec))
//	...
//	err := rec.WriteTextfile("/var/lib/node_exporter/portfolio.prom")
package metrics
