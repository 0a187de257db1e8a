package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	dialogOpens      *prom.CounterVec
	dispatchDuration *prom.HistogramVec
	subscribers      prom.Gauge
	dialogRenders    *prom.CounterVec
	articleScans     *prom.CounterVec
	articles         prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		dialogOpens: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "dialog_open_total",
			Help:      "Dialog open requests by kind and dispatch outcome",
		}, []string{"kind", "outcome"}),
		dispatchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "dialog_dispatch_duration_seconds",
			Help:      "Time spent delivering one open request to all subscribers",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		subscribers: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "dialog_subscribers",
			Help:      "Currently attached dialog bus subscribers",
		}),
		dialogRenders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "dialog_render_total",
			Help:      "Dialog renders by kind and result",
		}, []string{"kind", "result"}),
		articleScans: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "article_scans_total",
			Help:      "Article directory scans by trigger and result",
		}, []string{"trigger", "result"}),
		articles: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "articles",
			Help:      "Articles listed in the sidebar after the last scan",
		}),
	}
	reg.MustRegister(pr.dialogOpens, pr.dispatchDuration, pr.subscribers, pr.dialogRenders, pr.articleScans, pr.articles)
	return pr
}

func (p *PrometheusRecorder) IncDialogOpen(kind string, outcome DispatchOutcome) {
	if p == nil {
		return
	}
	p.dialogOpens.WithLabelValues(kind, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveDispatchDuration(kind string, d time.Duration) {
	if p == nil {
		return
	}
	p.dispatchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetSubscribers(n int) {
	if p == nil {
		return
	}
	p.subscribers.Set(float64(n))
}

func (p *PrometheusRecorder) IncDialogRender(kind string, success bool) {
	if p == nil {
		return
	}
	p.dialogRenders.WithLabelValues(kind, result(success)).Inc()
}

func (p *PrometheusRecorder) IncArticleScan(trigger string, success bool) {
	if p == nil {
		return
	}
	p.articleScans.WithLabelValues(trigger, result(success)).Inc()
}

func (p *PrometheusRecorder) SetArticles(n int) {
	if p == nil {
		return
	}
	p.articles.Set(float64(n))
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

// Handler returns an http.Handler that serves Prometheus metrics for the provided registry.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
