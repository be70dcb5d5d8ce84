package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/storefront/backoffice/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method, path, code string
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (r *recordingObserver) Observe(method, path, code string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observation{method, path, code})
}

func TestMetrics_RouteTemplate(t *testing.T) {
	obs := &recordingObserver{}
	router := gin.New()
	router.Use(Metrics(obs))
	router.GET("/status/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(router, httptest.NewRequest(http.MethodGet, "/status/abc", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/status/def", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, obs.seen, 3)
	assert.Equal(t, observation{"GET", "/status/:id", "404"}, obs.seen[0])
	assert.Equal(t, obs.seen[0], obs.seen[1])
	assert.Equal(t, "unmatched", obs.seen[2].path)
}

func TestMetrics_Prometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := gin.New()
	router.Use(Metrics(metrics.NewHTTPMetrics(reg)))
	router.GET("/history", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, httptest.NewRequest(http.MethodGet, "/history", nil))

	expected := `
# HELP backoffice_http_requests_total Number of HTTP requests partitioned by status code, method and route.
# TYPE backoffice_http_requests_total counter
backoffice_http_requests_total{code="200",method="GET",path="/history"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "backoffice_http_requests_total"))
}
