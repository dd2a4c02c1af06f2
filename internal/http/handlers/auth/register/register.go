// Package register implements the sign-up HTTP handler.
//
// It decodes and validates the candidate account payload, delegates creation
// to the user service and answers with the public profile plus the first
// session token. The password hash never appears in a response.
package register

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

// Request is the sign-up payload.
type Request struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,min=2,max=50"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Country   string `json:"country" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// Response is the created-account payload returned on success.
type Response struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
	Country   string `json:"country"`
	Token     string `json:"token"`
}

// Service describes the account-creation part of the business logic.
type Service interface {
	Register(ctx context.Context, email, name, birthDate, country, password string) (*models.User, string, error)
}

// Handler handles sign-up requests.
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
// @Summary Register a new account
// @Description Creates a user account and returns the profile with the first session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Candidate account"
// @Success 201 {object} Response "Account created"
// @Failure 400 {object} response.ErrorResponse "Malformed body or validation failure"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 500 {object} response.ErrorResponse "Internal error"
// @Router /users/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	user, token, err := h.service.Register(r.Context(), req.Email, req.Name, req.BirthDate, req.Country, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			log.Error("email already registered", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already taken"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("email", user.Email))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, Response{
		Email:     user.Email,
		Name:      user.Name,
		BirthDate: user.BirthDate,
		Country:   user.Country,
		Token:     token,
	})
}
