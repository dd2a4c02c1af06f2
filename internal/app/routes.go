// Package app wires the service together: storage, cache, business logic,
// router and the HTTP server lifecycle.
package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/auth/login"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/auth/logout"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/auth/logoutall"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/auth/register"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/health"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/songs/isliked"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/songs/like"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/songs/unlike"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/user/avatar"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/user/avatarupload"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/user/list"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/user/profile"
	"github.com/iakindev/spotify-clone-backend/internal/http/handlers/user/remove"
	"github.com/iakindev/spotify-clone-backend/internal/http/middlewarectx"
	services "github.com/iakindev/spotify-clone-backend/internal/services/user"
)

// RegisterRoutes mounts every route of the application on the router.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *services.UserService) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints, rate limited
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/users/register", register.New(logger, userService).ServeHTTP)
			r.Post("/users/login", login.New(logger, userService).ServeHTTP)
		})

		// Everything else requires a valid session token
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(userService, logger))
			r.Get("/users", list.New(logger, userService).ServeHTTP)
			r.Get("/users/me", profile.New(logger).ServeHTTP)
			r.Get("/users/me/avatar", avatar.New(logger).ServeHTTP)
			r.Put("/users/me/avatar", avatarupload.New(logger, userService).ServeHTTP)
			r.Delete("/users/me", remove.New(logger, userService).ServeHTTP)
			r.Post("/users/logout", logout.New(logger, userService).ServeHTTP)
			r.Post("/users/logoutall", logoutall.New(logger, userService).ServeHTTP)
			r.Post("/songs/like", like.New(logger, userService).ServeHTTP)
			r.Post("/songs/unlike", unlike.New(logger, userService).ServeHTTP)
			r.Post("/songs/isliked", isliked.New(logger).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
