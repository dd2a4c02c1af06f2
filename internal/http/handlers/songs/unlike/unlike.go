// Package unlike implements the unlike-a-song HTTP handler.
//
// Unliking a song that was never liked fails with 404 and mutates nothing.
package unlike

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
	services "github.com/iakindev/spotify-clone-backend/internal/services/user"
)

// Request carries the song identifier to unlike.
type Request struct {
	ID string `json:"id" validate:"required"`
}

// Service describes the liked-songs part of the business logic.
type Service interface {
	Unlike(ctx context.Context, email, songID string) error
}

// Handler handles unlike requests.
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
	const op = "handlers.songs.unlike"

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

	if err := h.service.Unlike(r.Context(), principal.User.Email, req.ID); err != nil {
		if errors.Is(err, services.ErrNotLiked) {
			log.Error("song not liked", slog.String("song_id", req.ID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("does not exist"))
			return
		}
		log.Error("failed to unlike song", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to unlike song"))
		return
	}

	log.Info("song unliked", slog.String("email", principal.User.Email), slog.String("song_id", req.ID))
	render.JSON(w, r, response.OK())
}
