package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"salon-backend/internal/accounts"
	"salon-backend/internal/booking"
	"salon-backend/internal/catalog"
	"salon-backend/internal/config"
	"salon-backend/internal/handlers"
	"salon-backend/internal/middleware"
	"salon-backend/internal/notify"
	"salon-backend/internal/routes"
	"salon-backend/internal/store"
	"salon-backend/pkg/logger"
)

func main() {
	// 1. Config + logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := config.ConnectDB(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	st := store.New(db)

	// 3. Push notifications
	var notifier notify.Notifier = notify.Noop{}
	if cfg.FirebaseCredentials != "" {
		fcm, err := notify.NewFCM(ctx, cfg.FirebaseCredentials, zl)
		if err != nil {
			zl.Warn("firebase disabled", zap.Error(err))
		} else {
			notifier = fcm
		}
	}

	// 4. Rate limiting: shared through Redis when available, per process otherwise
	var rdb *redis.Client
	var limiter gin.HandlerFunc
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unreachable, rate limiter fails open until it recovers", zap.Error(err))
		}
		defer rdb.Close()
		limiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute).Middleware(zl)
	} else {
		ipLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		go ipLimiter.Cleanup(ctx)
		limiter = middleware.RateLimitMiddleware(ipLimiter, zl)
	}

	// 5. Services + handlers
	h := handlers.New(handlers.Deps{
		Engine:   booking.NewEngine(st, st, notifier, zl),
		Catalog:  catalog.NewManager(st, cfg.MaxServicePrice, zl),
		Accounts: accounts.NewManager(st, cfg.JWTSecret, cfg.TokenTTL(), zl),
		Store:    st,
		Redis:    rdb,
		Log:      zl,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h, cfg.JWTSecret,
		middleware.RequestID(),
		middleware.AccessLog(zl),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
		limiter,
	)

	// 6. Serve until signalled
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
