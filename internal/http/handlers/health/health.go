// Package health implements the liveness probe handler.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/iakindev/spotify-clone-backend/internal/http/response"
)

// Handler answers liveness probes.
type Handler struct {
	log *slog.Logger
}

// New creates a Handler with the given logger.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
