package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-api/cache"
	"blog-api/config"
	"blog-api/jobs"
	"blog-api/logger"
	"blog-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	seedSample := flag.Bool("seed-sample", false, "create sample users, articles and comments")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("database init failed", zap.Error(err))
	}
	if err := config.SeedGroups(db); err != nil {
		zlog.Fatal("seed groups failed", zap.Error(err))
	}
	if err := config.SeedAdmin(db, cfg.Seed, zlog); err != nil {
		zlog.Fatal("seed admin failed", zap.Error(err))
	}
	if *seedSample {
		if err := config.SeedSample(db, zlog); err != nil {
			zlog.Fatal("seed sample data failed", zap.Error(err))
		}
	}

	store, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, zlog)
	if err != nil {
		zlog.Fatal("cache init failed", zap.Error(err))
	}
	defer store.Close()

	app := routes.NewContainer(cfg, db, zlog)
	router := routes.NewRouter(cfg, app, store, zlog)

	scheduler := jobs.NewScheduler(zlog)
	if err := scheduler.Add(cfg.Jobs.TokenCleanupSpec, "token_cleanup", jobs.NewTokenCleanupJob(app.Tokens, zlog)); err != nil {
		zlog.Fatal("schedule token cleanup failed", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
