package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-web/internal/app"
	"github.com/oggyb/muzz-web/internal/cache"
	"github.com/oggyb/muzz-web/internal/config"
	"github.com/oggyb/muzz-web/internal/db"
	"github.com/oggyb/muzz-web/internal/logger"
	"github.com/oggyb/muzz-web/internal/server"
	"github.com/oggyb/muzz-web/internal/service/explore"
	"github.com/oggyb/muzz-web/internal/session"
	"github.com/oggyb/muzz-web/internal/storage"
)

func main() {
	cfg := config.Load()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	sqlLevel := gormlogger.Warn
	if logger.IsDebug() {
		sqlLevel = gormlogger.Info
	}

	// Init DB
	database, err := db.NewDB(cfg, sqlLevel)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	uploads, err := storage.NewUploads(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		log.Error("failed to init uploads", "err", err)
		os.Exit(1)
	}

	appCtx := app.New(database, session.NewStore(redisCache, cfg.Session.TTL), uploads, log)

	if cfg.IsDevelopment() {
		var count int64
		if err := database.Model(&db.User{}).Count(&count).Error; err != nil {
			log.Error("failed to count users", "err", err)
		} else if count == 0 {
			if err := db.SeedTestData(database); err != nil {
				log.Error("failed to seed", "err", err)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// internal gRPC listener
	grpcServer, health := server.NewGRPCServer(explore.NewRegistrar(appCtx))
	go func() {
		addr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
		log.Info("starting gRPC server", "addr", addr)
		if err := server.ServeGRPC(ctx, cfg, grpcServer, health); err != nil {
			log.Error("gRPC server failed", "err", err)
			stop()
		}
	}()

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      server.NewRouter(appCtx, cfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", "err", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
