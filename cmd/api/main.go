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

	"engagement-platform/internal/analytics"
	"engagement-platform/internal/audit"
	"engagement-platform/internal/auth"
	"engagement-platform/internal/calls"
	"engagement-platform/internal/config"
	"engagement-platform/internal/events"
	"engagement-platform/internal/httpapi"
	"engagement-platform/internal/messages"
	"engagement-platform/internal/settings"
	"engagement-platform/pkg/logger"
	"engagement-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const bootstrapAttempts = 5

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

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgresRetry(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{}, bootstrapAttempts, log)
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Event sinks: Redis pub/sub always; webhook fan-out only when configured.
	redisPub, err := events.NewRedisPublisher(rdb, cfg.Events.Channel)
	if err != nil {
		log.Error("event publisher init failed", "err", err)
		os.Exit(1)
	}
	var pub events.Publisher = redisPub
	if cfg.Events.WebhookURL != "" {
		webhookPub, err := events.NewWebhookPublisher(events.WebhookConfig{
			URL:     cfg.Events.WebhookURL,
			AuthKey: cfg.Events.WebhookAuthKey,
		})
		if err != nil {
			log.Error("webhook publisher init failed", "err", err)
			os.Exit(1)
		}
		pub = events.Fanout{redisPub, webhookPub}
	}

	// Services over Postgres repositories.
	auditSvc := audit.NewService(audit.NewPostgresRepo(db))
	callRepo := calls.NewPostgresRepo(db)
	msgRepo := messages.NewPostgresRepo(db)

	callSvc := calls.NewService(callRepo, pub, auditSvc, log)
	msgSvc := messages.NewService(msgRepo, callSvc, pub, auditSvc, log)
	analyticsSvc := analytics.NewService(analytics.Repo{Calls: callRepo, Messages: msgRepo})
	settingsSvc := settings.NewService(settings.NewPostgresRepo(db), auditSvc, log)

	// Seed voice defaults; existing values are never overwritten.
	seedCtx, cancelSeed := context.WithTimeout(rootCtx, 10*time.Second)
	if err := settingsSvc.Seed(seedCtx); err != nil {
		cancelSeed()
		log.Error("settings seed failed", "err", err)
		os.Exit(1)
	}
	cancelSeed()

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	h := httpapi.Handlers{
		Auth:      authManager,
		Calls:     callSvc,
		Messages:  msgSvc,
		Analytics: analyticsSvc,
		Settings:  settingsSvc,
	}
	registerRoutes(r, h, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
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
