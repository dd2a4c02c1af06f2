// Package like implements the like-a-song HTTP handler.
//
// Liking a song that is already liked fails with 409 and leaves the set
// untouched, the liked-songs list never holds duplicates.
package like

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

// Request carries the song identifier to like.
type Request struct {
	ID string `json:"id" validate:"required"`
}

// Service describes the liked-songs part of the business logic.
type Service interface {
	Like(ctx context.Context, email, songID string) error
}

// Handler handles like requests.
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

// ServeHTTP godoc
// @Summary Like a song
// @Description Adds a song id to the authenticated user's liked songs.
// @Tags Songs
// @Accept json
// @Produce json
// @Param request body Request true "Song id"
// @Success 200 {object} response.Response "Liked"
// @Failure 400 {object} response.ErrorResponse "Malformed body"
// @Failure 409 {object} response.ErrorResponse "Song already liked"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /songs/like [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.songs.like"

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

	if err := h.service.Like(r.Context(), principal.User.Email, req.ID); err != nil {
		if errors.Is(err, services.ErrAlreadyLiked) {
			log.Error("song already liked", slog.String("song_id", req.ID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("already liked"))
			return
		}
		log.Error("failed to like song", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to like song"))
		return
	}

	log.Info("song liked", slog.String("email", principal.User.Email), slog.String("song_id", req.ID))
	render.JSON(w, r, response.OK())
}
