package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pwyang/riverwatt/services/api/analysis"
	"github.com/pwyang/riverwatt/services/api/cache"
	"github.com/pwyang/riverwatt/services/api/config"
	"github.com/pwyang/riverwatt/services/api/db"
	"github.com/pwyang/riverwatt/services/api/registry"
)

// WaterSource yields raw water-level readings for a region tag set.
type WaterSource interface {
	FetchWaterLevels(ctx context.Context, regions []string) ([]db.WaterReading, error)
}

// PowerSource yields the daily power series for one transmission line.
type PowerSource interface {
	LoadDaily(lineID string) (analysis.DailySeries, error)
}

// Server bundles router and dependencies for the analysis API.
type Server struct {
	cfg    config.Config
	reg    *registry.Registry
	water  WaterSource
	power  PowerSource
	log    *slog.Logger
	engine *gin.Engine

	waterCache *cache.Table[[]db.WaterReading]
	powerCache *cache.Table[analysis.DailySeries]
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, reg *registry.Registry, water WaterSource, power PowerSource, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{
		cfg:        cfg,
		reg:        reg,
		water:      water,
		power:      power,
		log:        log,
		engine:     engine,
		waterCache: cache.New[[]db.WaterReading](cfg.CacheTTL),
		powerCache: cache.New[analysis.DailySeries](cfg.CacheTTL),
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
