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

	"receptionist-platform/internal/auth"
	"receptionist-platform/internal/business"
	"receptionist-platform/internal/call"
	"receptionist-platform/internal/config"
	"receptionist-platform/internal/conversation"
	"receptionist-platform/internal/httpapi"
	"receptionist-platform/internal/integration"
	"receptionist-platform/internal/prompt"
	"receptionist-platform/internal/telephony"
	"receptionist-platform/pkg/logger"
	"receptionist-platform/pkg/utils"

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

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
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

	businesses := business.NewService(business.NewPostgresRepo(db))
	prompts := prompt.NewService(prompt.NewPostgresRepo(db))
	calls := call.NewService(call.NewPostgresRepo(db))
	integrations := integration.NewService(integration.NewPostgresRepo(db))

	orchestrator := conversation.NewOrchestrator(
		conversation.NewRegistry(),
		business.NewPostgresRepo(db),
		prompt.NewPostgresRepo(db),
		call.NewPostgresRepo(db),
		conversation.NewOpenAIClient(cfg.OpenAI.APIKey),
		telephony.ResponseBuilder{
			InputAction: "/webhooks/twilio/handle-input",
			EntryPoint:  "/webhooks/twilio/voice",
		},
		conversation.NewRedisCallGate(rdb, 0, 0),
		log,
	)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		authMW:      auth.RequireAccessToken(authManager),
		webhooks:    telephony.NewWebhookHandlers(orchestrator),
		signatureMW: telephony.RequireSignature(cfg.Twilio.AuthToken),
		api: httpapi.Handlers{
			Auth:         authManager,
			Businesses:   businesses,
			Prompts:      prompts,
			Calls:        calls,
			Integrations: integrations,
		},
		db: db,
	})

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
