package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncDialogOpen("confirm", OutcomeDelivered)
	pr.IncDialogOpen("confirm", OutcomeDelivered)
	pr.IncDialogOpen("notice", OutcomeDropped)
	pr.ObserveDispatchDuration("confirm", 2*time.Millisecond)
	pr.SetSubscribers(3)
	pr.IncDialogRender("confirm", false)
	pr.IncArticleScan("fsnotify", true)
	pr.SetArticles(7)

	require.InDelta(t, 2, testutil.ToFloat64(pr.dialogOpens.WithLabelValues("confirm", "delivered")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.dialogOpens.WithLabelValues("notice", "dropped")), 0)
	require.InDelta(t, 3, testutil.ToFloat64(pr.subscribers), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.dialogRenders.WithLabelValues("confirm", "failed")), 0)
	require.InDelta(t, 7, testutil.ToFloat64(pr.articles), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncDialogOpen("confirm", OutcomeDropped)
		pr.SetSubscribers(1)
		pr.IncArticleScan("interval", false)
	})
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetArticles(2)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "docsite_articles 2"))
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
