package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/config"
	"github.com/Masaru124/Attendance-app/internal/api/handler"
	"github.com/Masaru124/Attendance-app/internal/api/router"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/internal/service"
	"github.com/Masaru124/Attendance-app/pkg/database"
	"github.com/Masaru124/Attendance-app/pkg/firebase"
	"github.com/Masaru124/Attendance-app/pkg/identity"
	applogger "github.com/Masaru124/Attendance-app/pkg/logger"
	"github.com/Masaru124/Attendance-app/pkg/push"
	"github.com/Masaru124/Attendance-app/pkg/redis"
)

func main() {
	// 1. load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting server",
		zap.Int("port", cfg.Server.Port),
		zap.String("auth_mode", cfg.Auth.Mode),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("unwrap sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis is optional: without it the claims cache and rate limiting
	// are skipped
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and rate limiting", zap.Error(err))
		rdb = nil
	}

	// 5. identity verifier and push sender per auth mode
	ctx := context.Background()
	var verifier identity.TokenVerifier
	var sender service.PushSender

	switch cfg.Auth.Mode {
	case "firebase":
		app, err := firebase.NewApp(ctx, &cfg.Auth.Firebase)
		if err != nil {
			logger.Fatal("init firebase app", zap.Error(err))
		}
		fv, err := identity.NewFirebaseVerifier(ctx, app)
		if err != nil {
			logger.Fatal("init firebase verifier", zap.Error(err))
		}
		verifier = fv
		fcm, err := push.NewFCMSender(ctx, app, logger)
		if err != nil {
			logger.Fatal("init fcm sender", zap.Error(err))
		}
		sender = fcm
	case "static":
		verifier = identity.NewStaticVerifier(cfg.Auth.JWTSecret)
		sender = push.NewLogSender(logger)
		logger.Warn("static auth mode enabled, do not use in production")
	}

	// 6. dependency wiring: repository -> service -> handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, sender, logger)
	h := handler.NewHandler(svc)

	// 7. router
	engine := router.Setup(cfg, h, svc.Access, verifier, rdb, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
