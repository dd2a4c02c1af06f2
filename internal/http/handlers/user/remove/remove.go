// Package remove implements the account-deletion HTTP handler.
//
// The password is re-verified against the authenticated principal before
// anything is deleted and the supplied name/email must be the principal's
// own, so a valid session cannot delete another account.
package remove

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/iakindev/spotify-clone-backend/internal/http/middlewarectx"
	"github.com/iakindev/spotify-clone-backend/internal/http/response"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
	"github.com/iakindev/spotify-clone-backend/internal/models"
	services "github.com/iakindev/spotify-clone-backend/internal/services/user"
)

// Request is the account-deletion payload.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service describes the account-deletion part of the business logic.
type Service interface {
	DeleteAccount(ctx context.Context, principal *models.User, name, email, password string) error
}

// Handler handles account-deletion requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.DeleteAccount(r.Context(), principal.User, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Error("password does not match", slog.String("email", principal.User.Email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("password does not match"))
		case errors.Is(err, services.ErrIdentityMismatch):
			log.Error("deletion target differs from principal", slog.String("email", principal.User.Email))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("can only delete your own account"))
		default:
			log.Error("failed to delete account", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete account"))
		}
		return
	}

	log.Info("account deleted", slog.String("email", principal.User.Email))
	render.JSON(w, r, response.OK())
}
