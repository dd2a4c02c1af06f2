// Package isliked implements the liked-membership HTTP handler.
//
// Pure read on the principal resolved by the auth middleware, the response
// body is a bare JSON boolean.
package isliked

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/iakindev/spotify-clone-backend/internal/http/middlewarectx"
	"github.com/iakindev/spotify-clone-backend/internal/http/response"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
)

// Request carries the song identifier to check.
type Request struct {
	ID string `json:"id" validate:"required"`
}

// Handler handles liked-membership requests.
type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

// New creates a Handler with the given logger.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.songs.isliked"

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

	render.JSON(w, r, principal.User.HasLikedSong(req.ID))
}
