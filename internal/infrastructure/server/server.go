package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AniWidgets/internal/api/http"
	"github.com/GriffinCanCode/AniWidgets/internal/api/middleware"
	"github.com/GriffinCanCode/AniWidgets/internal/app"
	"github.com/GriffinCanCode/AniWidgets/internal/host"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router      *gin.Engine
	container   *app.Container
	maintenance *host.Maintenance
	logger      *zap.Logger
}

// NewServer creates a new server instance on a built container
func NewServer(c *app.Container) (*Server, error) {
	cfg := c.Config
	logger := c.Logger.Logger

	logger.Info("Initializing AniWidgets server",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("container", c.Store.Root()),
		zap.String("mode", cfg.Timeline.Mode),
	)

	maintenance, err := c.Maintenance()
	if err != nil {
		return nil, fmt.Errorf("failed to configure maintenance: %w", err)
	}

	if !cfg.Logging.Development || logging.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.Middleware(tracing.New(logger, cfg.Server.SlowRequest)))
	router.Use(monitoring.Middleware(c.Metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.BodyLimit(utils.MaxJSONSize))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(c, apihttp.NewHandlerMetrics(c.Metrics))
	registerRoutes(router, handlers, c.Metrics)

	logger.Info("Server initialized successfully")

	return &Server{
		router:      router,
		container:   c,
		maintenance: maintenance,
		logger:      logger,
	}, nil
}

func registerRoutes(router *gin.Engine, h *apihttp.Handlers, metrics *monitoring.Metrics) {
	router.GET("/health", h.Health)

	// Host contract
	router.GET("/slots/:kind/timeline", h.SlotTimeline)
	router.GET("/slots/:kind/placeholder", h.SlotPlaceholder)

	// Instances
	router.GET("/instances", h.ListInstances)
	router.GET("/instances/:id", h.GetInstance)
	router.DELETE("/instances/:id", h.DeleteInstance)
	router.POST("/instances/:id/start", h.StartAnimation)
	router.POST("/instances/:id/complete", h.CompleteAnimation)

	// Featured registry
	router.GET("/featured", h.GetFeatured)
	router.POST("/featured", h.AddFeatured)
	router.PUT("/featured/order", h.ReorderFeatured)
	router.DELETE("/featured/:id", h.RemoveFeatured)

	// Designs
	router.GET("/designs", h.ListDesigns)
	router.POST("/designs/:id/provision", h.ProvisionDesign)
	router.DELETE("/designs/:id", h.RemoveDesign)
	router.GET("/designs/:id/frames/:frame", h.GetFrame)

	// Maintenance and metrics
	router.GET("/stats", h.Stats)
	router.POST("/maintenance/cleanup", h.Cleanup)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	cfg := s.container.Config
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.maintenance.Start()
	defer s.maintenance.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Close flushes logs
func (s *Server) Close() error {
	return s.container.Close()
}
