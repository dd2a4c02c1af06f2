// Entry point of the spotify-clone user-account service.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iakindev/spotify-clone-backend/internal/app"
	"github.com/iakindev/spotify-clone-backend/internal/config"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
)

// @title Spotify Clone Backend API
// @version 1.0
// @description User accounts, sessions and liked songs.
// @BasePath /api/v1
func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting spotify-clone-backend", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", sl.Err(err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("server stopped with error", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
