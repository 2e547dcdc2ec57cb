package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/compoundverse/internal/cli"
	"github.com/julianstephens/compoundverse/internal/config"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/server"
)

const redisPingTimeout = 3 * time.Second

type ServeCmd struct {
	ServerConfig string `help:"Path to a compoundverse.yaml server config file." type:"path"`
	Listen       string `help:"Override the listen address (e.g. :8080)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg, err := config.Load(c.ServerConfig, ctx.ConfigDir)
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.ListenAddr = c.Listen
	}

	if err := logger.Init(logger.Config{Debug: ctx.Debug, ConfigDir: ctx.ConfigDir, Stderr: true}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if !ctx.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := server.Deps{
		Tracker:  ctx.Tracker,
		Registry: ctx.Registry,
		Coach:    cli.NewCoach(cfg),
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(runCtx, redisPingTimeout)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// the limiter fails open, so an unreachable Redis only disables limiting
			logger.Warn("Redis unreachable, rate limiting will fail open", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		deps.Limiter = server.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
		logger.Info("Using Redis rate limiter", "addr", cfg.RedisAddr)
	}

	fmt.Printf("Serving compoundverse API on %s\n", cfg.ListenAddr)
	return server.New(cfg, deps).Run(runCtx)
}
