package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/barjames/funeral-planner/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg, "planner")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	count, err := testutil.GatherAndCount(reg, "planner_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per method/route/status")

	histograms, err := testutil.GatherAndCount(reg, "planner_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, histograms)
}
