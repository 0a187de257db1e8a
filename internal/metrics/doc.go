// Package metrics provides observability hooks for the dialog bus and the
// article watcher.
//
// Components receive a Recorder through options and default to NoopRecorder,
// so callers never nil-check:
//
//	bus := dialog.NewBus(dialog.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The watch command serves the registry over HTTP with Handler.
package metrics
