package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsCounters(t *testing.T) {
	m := NewMetrics("obs_counters_test")

	m.SandwichesDetected.Add(3)
	m.RecordsAttributed.Add(2)
	m.MisalignedSkipped.Inc()
	m.PriceLookupsFailed.Inc()
	m.RPCCallLatency.WithLabelValues("getBlock").Observe(0.05)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.SandwichesDetected))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RecordsAttributed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MisalignedSkipped))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PriceLookupsFailed))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCCallLatency))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics("obs_handler_test")
	m.SandwichesDetected.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "obs_handler_test_detection_sandwiches_detected_total 1"))
}
