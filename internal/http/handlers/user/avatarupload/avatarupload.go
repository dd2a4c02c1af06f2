// Package avatarupload implements the avatar-upload HTTP handler. The raw
// request body is stored as the user's avatar blob, capped at maxAvatarBytes.
package avatarupload

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/iakindev/spotify-clone-backend/internal/http/middlewarectx"
	"github.com/iakindev/spotify-clone-backend/internal/http/response"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
)

const maxAvatarBytes = 1 << 20

// Service describes the avatar-storage part of the business logic.
type Service interface {
	UploadAvatar(ctx context.Context, email string, avatar []byte) error
}

// Handler handles avatar-upload requests.
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
	const op = "handlers.user.avatarupload"

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

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		log.Error("failed to read avatar body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("avatar too large or unreadable"))
		return
	}
	if len(body) == 0 {
		log.Error("empty avatar body")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("empty avatar body"))
		return
	}

	if err = h.service.UploadAvatar(r.Context(), principal.User.Email, body); err != nil {
		log.Error("failed to store avatar", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to store avatar"))
		return
	}

	log.Info("avatar stored", slog.String("email", principal.User.Email), slog.Int("bytes", len(body)))
	render.JSON(w, r, response.OK())
}
