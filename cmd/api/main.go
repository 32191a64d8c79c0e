package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialout-service/internal/calllog"
	"dialout-service/internal/config"
	"dialout-service/internal/dialer"
	"dialout-service/internal/guard"
	"dialout-service/internal/httpapi"
	"dialout-service/internal/observability"
	"dialout-service/internal/platform"
	"dialout-service/internal/trunk"
	"dialout-service/pkg/logger"
	"dialout-service/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := platform.NewClient(cfg.Platform, logger.Component(log, "platform"))
	if err != nil {
		log.Error("platform client init failed", "err", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	opts := dialer.Options{
		Metrics: metrics,
		Logger:  logger.Component(log, "dialer"),
	}

	var records *calllog.Service
	if cfg.DB.Enabled() {
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		records = calllog.NewService(calllog.NewPostgresRepo(db), logger.Component(log, "calllog"))
		opts.Recorder = records
	}

	if cfg.Redis.Enabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		if cfg.Dial.MaxActivePerNumber > 0 {
			opts.Guard = guard.NewRedisGuard(rdb, cfg.Dial.MaxActivePerNumber)
		}
	}

	dialSvc, err := dialer.NewService(client, client, cfg.Dial.TrunkID, opts)
	if err != nil {
		log.Error("dialer init failed", "err", err)
		os.Exit(1)
	}
	trunkSvc := trunk.NewService(client, client, cfg.Dial.TrunkID)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, httpapi.Handlers{
		Dialer:      dialSvc,
		Trunks:      trunkSvc,
		Records:     records,
		CallTimeout: cfg.Dial.RequestTimeout,
	}, metrics)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "trunk_id", cfg.Dial.TrunkID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
