package metrics

import "time"

// DispatchOutcome labels what happened to an open request.
type DispatchOutcome string

const (
	OutcomeDelivered DispatchOutcome = "delivered"
	OutcomeDropped   DispatchOutcome = "dropped"
)

// Recorder defines observability hooks for dialog dispatch and article scans.
type Recorder interface {
	IncDialogOpen(kind string, outcome DispatchOutcome)
	ObserveDispatchDuration(kind string, d time.Duration)
	SetSubscribers(n int)
	IncDialogRender(kind string, success bool)
	IncArticleScan(trigger string, success bool)
	SetArticles(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDialogOpen(string, DispatchOutcome)         {}
func (NoopRecorder) ObserveDispatchDuration(string, time.Duration) {}
func (NoopRecorder) SetSubscribers(int)                            {}
func (NoopRecorder) IncDialogRender(string, bool)                  {}
func (NoopRecorder) IncArticleScan(string, bool)                   {}
func (NoopRecorder) SetArticles(int)                               {}
