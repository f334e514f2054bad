package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/amtamaddon/analytics.simlane.ai/internal/auth"
	"github.com/amtamaddon/analytics.simlane.ai/internal/config"
	"github.com/amtamaddon/analytics.simlane.ai/internal/dataset"
	"github.com/amtamaddon/analytics.simlane.ai/internal/generator"
	"github.com/amtamaddon/analytics.simlane.ai/internal/logging"
	"github.com/amtamaddon/analytics.simlane.ai/internal/notify"
	"github.com/amtamaddon/analytics.simlane.ai/internal/server"
	"github.com/amtamaddon/analytics.simlane.ai/internal/store"
)

func main() {
	// Optional .env for local development; environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	memberStore := store.NewMemberStore()
	if err := seedDataset(logger, cfg, memberStore); err != nil {
		logger.Error("failed to seed dataset", "error", err)
		os.Exit(1)
	}

	authenticator, err := buildAuthenticator(logger, cfg.Auth)
	if err != nil {
		logger.Error("failed to configure authentication", "error", err)
		os.Exit(1)
	}

	alerts := notify.NewManager(logger, notify.LogSender{Logger: logger},
		cfg.Twilio.Credentials(), cfg.Alert.MinRiskCategory)
	if !alerts.Enabled() {
		logger.Warn("sms delivery not configured, alert routes will report unavailable")
	}

	apiHandlers := server.NewAPIHandlers(logger, server.APIDependencies{
		Store:        memberStore,
		Codec:        dataset.NewCodec(cfg.Risk),
		Generator:    cfg.Generator,
		Thresholds:   cfg.Risk,
		Alerts:       alerts,
		DefaultPhone: cfg.Alert.DefaultPhone,
		BulkLimit:    cfg.Alert.BulkLimit,
		Auth:         authenticator,
	})

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: memberStore},
		API:              apiHandlers,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// seedDataset fills the store with synthetic members so the API serves
// data from the first request.
func seedDataset(logger *slog.Logger, cfg config.Config, memberStore *store.MemberStore) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	members, err := generator.New(cfg.Generator).WithThresholds(cfg.Risk).Generate(ctx)
	if err != nil {
		return err
	}

	memberStore.Replace(members)
	logger.Info("seeded synthetic dataset",
		"members", len(members),
		"groups", cfg.Generator.NumGroups,
		"seed", cfg.Generator.Seed,
	)
	return nil
}

func buildAuthenticator(logger *slog.Logger, cfg config.AuthConfig) (*auth.Authenticator, error) {
	if !cfg.Enabled() {
		logger.Warn("authentication not configured, API runs open")
		return nil, nil
	}
	return auth.NewAuthenticator([]byte(cfg.JWTSecret), cfg.Users, cfg.TokenTTL)
}
