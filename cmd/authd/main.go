package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ratehub/authcore"
	"github.com/ratehub/authcore/api"
	"github.com/ratehub/authcore/authority"
	"github.com/ratehub/authcore/config"
	"github.com/ratehub/authcore/logger"
	"github.com/ratehub/authcore/persistence"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	defer logger.Log.Sync()

	logger.Log.Info("Starting authcore service",
		zap.Int("port", cfg.Port),
		zap.String("dsn", cfg.DSN),
	)

	repo, err := persistence.NewStorage(cfg.DBType, cfg.DSN, nil)
	if err != nil {
		logger.Log.Fatal("failed to initialize repository", zap.Error(err))
	}

	hasher := authority.NewBcryptHasher(cfg.BcryptCost)

	if cfg.SeedDemo {
		if err := authcore.SeedDemo(context.Background(), repo, hasher); err != nil {
			logger.Log.Fatal("failed to seed demo accounts", zap.Error(err))
		}
	}

	auth := authority.New(repo, authority.NewFileStore(cfg.SessionFile))
	auth.SetHasher(hasher)
	auth.SetLogger(logger.Log)

	var lockoutStore authority.LockoutStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		lockoutStore = authority.NewRedisLockoutStore(client, "")
	} else {
		lockoutStore = authority.NewMemoryLockoutStore()
	}
	auth.SetLockout(authority.NewLockout(lockoutStore,
		cfg.LockoutMaxFailures, cfg.LockoutDuration, cfg.LockoutWindow))

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET must be set")
	}
	tokens := api.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry)

	h := api.NewHandler(auth, tokens)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	g := e.Group("/api/v1")
	h.RegisterRoutes(g)

	logger.Log.Info("Server is starting", zap.Int("port", cfg.Port))
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Log.Fatal("server failed to start", zap.Error(err))
	}
}
