package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mmind/mastermind-go/internal/api"
	"github.com/mmind/mastermind-go/internal/config"
	"github.com/mmind/mastermind-go/internal/factory"
)

func main() {
	// Set up logging with JSON output
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "mastermind").Logger()

	settings, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger = logger.Level(settings.Level())

	// Create application factory
	app, err := factory.New(factory.FromSettings(settings, logger))
	if err != nil {
		logger.Fatal().Err(err).Str("storage", settings.StorageType).Msg("failed to create application")
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		PlayerService:      app.PlayerService,
		GameController:     app.GameController,
		LeaderboardService: app.LeaderboardService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = settings.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info().
		Str("addr", server.Addr()).
		Str("storage", settings.StorageType).
		Str("secret_source", settings.SecretSource).
		Msg("server started")

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
			return
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
			return
		}
	}

	logger.Info().Msg("server stopped")
}
