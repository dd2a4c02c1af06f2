// Package login implements the sign-in HTTP handler.
//
// Lookup and password verification failures produce the same generic 401, so
// the response does not reveal whether an email is registered.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/iakindev/spotify-clone-backend/internal/http/response"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
	"github.com/iakindev/spotify-clone-backend/internal/models"
	services "github.com/iakindev/spotify-clone-backend/internal/services/user"
)

// Request is the sign-in payload.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response is the signed-in profile plus the new session token.
type Response struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Country   string `json:"country"`
	Token     string `json:"token"`
}

// Service describes the credential-verification part of the business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// Handler handles sign-in requests.
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
// @Summary Sign in with email and password
// @Description Verifies the credentials and issues a new session token. Existing sessions stay valid.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Credentials"
// @Success 200 {object} Response "Signed in"
// @Failure 400 {object} response.ErrorResponse "Malformed body"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /users/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// same message for unknown email and wrong password
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("login failed, check authentication credentials"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("login success", slog.String("email", user.Email))
	render.JSON(w, r, Response{
		Email:     user.Email,
		Name:      user.Name,
		BirthDate: user.BirthDate,
		Country:   user.Country,
		Token:     token,
	})
}
