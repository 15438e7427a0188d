package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/backend/internal/metrics"
	"github.com/planora/backend/internal/middleware"
)

func TestRequestMetrics_CountsByRoutePattern(t *testing.T) {
	m := metrics.NewWith(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middleware.NewRequestMetrics(m))
	r.Get("/trips/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Two different trip IDs must land on the same label value: the
	// route pattern keeps cardinality bounded.
	for _, path := range []string{"/trips/111", "/trips/222"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	counter, err := m.HTTPRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/trips/{id}", "200")
	require.NoError(t, err)
	assert.Equal(t, float64(2), promtestutil.ToFloat64(counter))
}

func TestRequestMetrics_RecordsStatus(t *testing.T) {
	m := metrics.NewWith(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middleware.NewRequestMetrics(m))
	r.Get("/trips", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	counter, err := m.HTTPRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/trips", "503")
	require.NoError(t, err)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(counter))
}
