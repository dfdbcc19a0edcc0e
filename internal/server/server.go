package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Deps are the collaborators the HTTP server is assembled from
type Deps struct {
	Recipes service.IRecipeService
	Health  service.HealthChecker
	// WriteLimiter guards mutating recipe endpoints; nil disables limiting
	WriteLimiter middleware.Limiter
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *zap.Logger
}

// New creates a new server instance
func New(cfg *config.Config, log *zap.Logger, deps Deps) *Server {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)
	router.NoRoute(middleware.NoRoute)

	router.GET("/health", api.HealthCheck(deps.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var writes []gin.HandlerFunc
	if deps.WriteLimiter != nil {
		writes = append(writes, middleware.RateLimit(deps.WriteLimiter))
	}

	v1 := router.Group("/api/v1")
	recipeHandler := api.NewRecipeHandler(deps.Recipes, api.Paging{
		DefaultSize: cfg.DefaultPageSize,
		MaxSize:     cfg.MaxPageSize,
	})
	recipeHandler.RegisterRoutes(v1, writes...)

	return &Server{
		router: router,
		log:    log,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler exposes the routed engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
