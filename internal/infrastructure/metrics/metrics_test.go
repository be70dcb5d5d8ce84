package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)

	m.ImportStarted()
	m.ImportStarted()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.inFlight))

	m.ImportFinished(bulk.ImportStatusCompleted, 3*time.Second, 10, 2)
	m.ImportFinished(bulk.ImportStatusFailed, time.Second, 0, 0)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobs.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobs.WithLabelValues("failed")))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.rows.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.rows.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestImportMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewImportMetrics(reg)
	assert.Panics(t, func() { NewImportMetrics(reg) })
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/health", "200", 10*time.Millisecond)
	m.Observe(http.MethodGet, "/health", "200", 20*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("200", "GET", "/health")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)
	m.ImportStarted()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backoffice_import_in_flight 1")
}
