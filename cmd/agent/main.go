package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-client/internal/apiclient"
	"github.com/stemsi/exstem-client/internal/config"
	"github.com/stemsi/exstem-client/internal/database"
	"github.com/stemsi/exstem-client/internal/handler"
	"github.com/stemsi/exstem-client/internal/logger"
	"github.com/stemsi/exstem-client/internal/router"
	"github.com/stemsi/exstem-client/internal/service"
	"github.com/stemsi/exstem-client/internal/validator"
	ws "github.com/stemsi/exstem-client/internal/websocket"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup("agent", cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.AgentPort).
		Str("mode", cfg.GinMode).
		Str("api", cfg.APIBaseURL).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ExStem Agent")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Credential Store ─────────────────────────────────────────
	store, closeStore, err := database.OpenCredentialStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.CredentialStore).Msg("Failed to open credential store")
	}
	defer closeStore()

	// ─── Initialize Services ──────────────────────────────────────────
	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, store, log)
	hub := ws.NewHub()

	authService := service.NewAuthService(client, store, log)
	studentService := service.NewStudentService(client)
	attemptService := service.NewAttemptService(client, hub, cfg.TickInterval, log,
		service.WithRetention(cfg.AttemptRetention))

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Student: handler.NewStudentHandler(studentService),
		Attempt: handler.NewAttemptHandler(attemptService),
		WS:      handler.NewWSHandler(attemptService, hub, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(attemptService, cfg.CredentialStore),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.AgentPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.AgentPort).Msg("Agent listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop every attempt clock; attempts live only in memory.
	if n := attemptService.Count(); n > 0 {
		log.Warn().Int("attempts", n).Msg("Dropping hosted attempts")
	}
	attemptService.Shutdown()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
