// Package logout implements the single-session sign-out HTTP handler.
//
// Only the token presented in the current request is revoked, sessions on
// other devices stay valid. Revoking a token that is already gone still
// answers success.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/iakindev/spotify-clone-backend/internal/http/middlewarectx"
	"github.com/iakindev/spotify-clone-backend/internal/http/response"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
)

// Service describes the session-revocation part of the business logic.
type Service interface {
	Logout(ctx context.Context, email, token string) error
}

// Handler handles sign-out requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("principal missing from context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Logout(r.Context(), principal.User.Email, principal.Token); err != nil {
		log.Error("failed to log out", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to log out"))
		return
	}

	log.Info("session revoked", slog.String("email", principal.User.Email))
	render.JSON(w, r, response.OK())
}
