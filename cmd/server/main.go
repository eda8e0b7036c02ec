package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"katalian_bank/internal/api"
	"katalian_bank/internal/assistant"
	"katalian_bank/internal/auth"
	"katalian_bank/internal/config"
	"katalian_bank/internal/gateway"
	"katalian_bank/internal/ledger"
	"katalian_bank/internal/notify"
	"katalian_bank/internal/repository/memory"
	"katalian_bank/pkg/crypto"
	"katalian_bank/pkg/metrics"
)

const (
	appName = "katalian_bank"
)

func main() {
	logger := setupLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting application",
		slog.String("name", appName),
		slog.String("addr", cfg.Server.Addr))

	metricsCollector := metrics.NewMetricsCollector(logger)
	signer := crypto.NewSigner(cfg.Signing.Secret, logger)

	userRepo := memory.NewUserRepository()
	if err := memory.Seed(context.Background(), userRepo); err != nil {
		logger.Error("Failed to seed user store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier := notify.NewService(&notify.MockEmailSender{}, &notify.MockSMSSender{}, 3, logger)
	gw := gateway.NewSimulatedGateway(cfg.Gateway, signer, logger)
	ledgerService := ledger.NewService(userRepo, gw, metricsCollector, notifier, logger)
	sessions := auth.NewSessionManager(userRepo, metricsCollector, logger)
	assistantService := assistant.NewService(chatModel(cfg.Assistant, logger), userRepo, logger)

	apiHandler := api.NewAPIHandler(ledgerService, sessions, assistantService, logger)
	metricsServer := metricsCollector.StartMetricsServer(cfg.Server.MetricsAddr)
	httpServer := startHTTPServer(cfg.Server.Addr, apiHandler, logger)

	waitForShutdown(logger, httpServer, metricsServer, notifier, metricsCollector)
	logger.Info("Application shutdown complete")
}

func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

func chatModel(cfg config.AssistantConfig, logger *slog.Logger) assistant.ChatModel {
	if cfg.Provider == "gemini" {
		apiKey := os.Getenv(cfg.APIKeyEnv)
		if apiKey != "" {
			logger.Info("Assistant using Gemini", slog.String("model", cfg.Model))
			return assistant.NewGeminiModel(apiKey, cfg.Model)
		}
		logger.Warn("Gemini selected but API key env is empty, falling back to simulated model",
			slog.String("env", cfg.APIKeyEnv))
	}
	return assistant.NewSimulatedModel()
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	apiHandler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	notifier *notify.Service,
	metricsCollector *metrics.MetricsCollector,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}

	if err := notifier.Shutdown(ctx); err != nil {
		logger.Error("Notification service shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsCollector.Shutdown(ctx); err != nil {
		logger.Error("Metrics collector shutdown failed", slog.String("error", err.Error()))
	}
}
