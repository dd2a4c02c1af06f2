package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/iakindev/spotify-clone-backend/internal/cache"
	"github.com/iakindev/spotify-clone-backend/internal/config"
	"github.com/iakindev/spotify-clone-backend/internal/lib/jwt"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
	services "github.com/iakindev/spotify-clone-backend/internal/services/user"
	"github.com/iakindev/spotify-clone-backend/internal/storage"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New builds the application: storage, cache, user service, router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.MongoConnection)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	userService := services.NewUserService(db, cacheRedis, jwtMaker, logger, cfg.UserTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, userService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if dbErr := a.db.Close(timeoutCtx); dbErr != nil {
			a.logger.Error("failed to close storage", sl.Err(dbErr))
		}
		if cacheErr := a.cache.Db.Close(); cacheErr != nil {
			a.logger.Error("failed to close cache", sl.Err(cacheErr))
		}
		return err
	}
}
