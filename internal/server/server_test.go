package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, limiter middleware.Limiter) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = "0"

	health := new(mocks.MockHealthChecker)
	health.On("HealthCheck", mock.Anything).Return(nil)

	return New(cfg, zap.NewNop(), Deps{
		Recipes:      service.NewRecipeService(store.NewMemory(), zap.NewNop()),
		Health:       health,
		WriteLimiter: limiter,
	})
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:40000"
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(s, http.MethodGet, "/api/v1/recipes/find-all", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":[],"totalElements":0,"totalPages":0,"pageNumber":0,"pageSize":10}`, w.Body.String())

	w = serve(s, http.MethodGet, "/api/v1/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"NOT_FOUND"`)
}

func TestNewProductionUsesReleaseMode(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	cfg := config.Default()
	cfg.Environment = config.Production
	health := new(mocks.MockHealthChecker)
	New(cfg, zap.NewNop(), Deps{
		Recipes: service.NewRecipeService(store.NewMemory(), zap.NewNop()),
		Health:  health,
	})
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	serve(s, http.MethodGet, "/api/v1/recipes/find-all", "")

	w := serve(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `recipebox_http_requests_total{method="GET",path="/api/v1/recipes/find-all",status="200"}`)
}

func TestWriteLimiterApplied(t *testing.T) {
	limiter := middleware.NewLocalLimiter(middleware.RateLimitConfig{Limit: 1, Window: time.Hour})
	s := newTestServer(t, limiter)

	body := `{"name":"Boil egg","numberOfServings":1,"classification":"NON_VEGETARIAN",
		"ingredients":[{"name":"egg","quantity":1,"unitOfMeasure":"UNIT"}],
		"instructions":"Add water and egg to pot and bring to boil"}`

	assert.Equal(t, http.StatusCreated, serve(s, http.MethodPost, "/api/v1/recipes", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(s, http.MethodPost, "/api/v1/recipes", body).Code)

	// reads are never limited
	for range 3 {
		assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/api/v1/recipes/find-all", "").Code)
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Start()
	}()

	// give ListenAndServe a moment to bind before shutting down
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
