// Package metrics provides render and cache metrics for docdiagram.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	cache := rendercache.New(dir, r, rendercache.WithRecorder(recorder))
//
// The Prometheus implementation registers its collectors on a private registry.
// A filter run is a short-lived process, so metrics are not served over HTTP; instead
// WriteTextfile dumps the registry in the node-exporter textfile format at the end of
// the run.
package metrics
