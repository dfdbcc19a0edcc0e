package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/recipes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/recipes", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := newRouter()

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recipes/"+id, http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/recipes/:id", "200"))
	assert.GreaterOrEqual(t, got, 3.0)
	assert.NotZero(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddlewareStatusCodes(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/recipes", http.NoBody))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/recipes", "201")), 1.0)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404")), 1.0)
}

func TestObserveQuery(t *testing.T) {
	before := testutil.CollectAndCount(QueryDuration)
	ObserveQuery("scan", time.Now())
	ObserveQuery("pushdown", time.Now())
	assert.GreaterOrEqual(t, testutil.CollectAndCount(QueryDuration), before)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(QueryDuration), 2)
}
