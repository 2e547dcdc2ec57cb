// Package server exposes the check-in pipeline, domain registry and coach
// over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/compoundverse/internal/coach"
	"github.com/julianstephens/compoundverse/internal/config"
	"github.com/julianstephens/compoundverse/internal/constants"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/registry"
	"github.com/julianstephens/compoundverse/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

type Deps struct {
	Tracker  *tracker.Service
	Registry *registry.Registry
	Coach    *coach.Coach
	Limiter  Limiter
	Metrics  *Metrics
}

type Server struct {
	cfg    config.Config
	deps   Deps
	engine *gin.Engine
}

func New(cfg config.Config, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Limiter == nil {
		deps.Limiter = NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
	}

	s := &Server{cfg: cfg, deps: deps, engine: gin.New()}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), requestLogger(), s.deps.Metrics.instrument())
	r.Use(cors.New(corsConfig(s.cfg.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": constants.Version})
	})
	r.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))

	api := r.Group("/api/v1", userMiddleware())
	{
		api.GET("/domains", s.listDomains)
		api.POST("/domains", s.addDomain)
		api.PATCH("/domains/:id", s.updateDomain)
		api.DELETE("/domains/:id", s.deleteDomain)
		api.POST("/domains/:id/archive", s.archiveDomain)
		api.POST("/domains/:id/restore", s.restoreDomain)
		api.POST("/domains/:id/disable", s.disableDomain)
		api.POST("/domains/:id/enable", s.enableDomain)
		api.POST("/domains/:id/actions", s.addAction)
		api.DELETE("/domains/:id/actions/:action", s.removeAction)

		api.POST("/checkins", s.checkIn)
		api.GET("/entries", s.listEntries)
		api.GET("/today", s.today)
		api.GET("/momentum", s.momentum)
		api.GET("/progress", s.progress)
		api.PUT("/protected/:day", s.protectDay)
		api.DELETE("/protected/:day", s.unprotectDay)

		api.POST("/coach", RateLimit(s.deps.Limiter, s.deps.Metrics), s.coach)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, constants.UserIDHeader, "Authorization")
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

const userKey = "user_id"

func userMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := strings.TrimSpace(c.GetHeader(constants.UserIDHeader))
		if user == "" {
			user = constants.DefaultUserID
		}
		if len(user) > 128 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user id too long"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API server listening", "addr", s.cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
