// Package middlewarectx contains HTTP middleware attaching request context:
// the authenticated principal resolved from a bearer token and rate limiting.
//
// AuthMiddleware checks the Authorization header, resolves the token to a
// user through the user service and stores a Principal in the context. The
// handlers behind it never authenticate on their own.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/iakindev/spotify-clone-backend/internal/http/response"
	"github.com/iakindev/spotify-clone-backend/internal/lib/sl"
	"github.com/iakindev/spotify-clone-backend/internal/models"
)

// Key is the type of context keys set by this package.
type Key string

// PrincipalKey is the context key of the authenticated principal.
const PrincipalKey Key = "principal"

// Principal is the authenticated identity of a request: the resolved user
// plus the exact session token that was presented, so sign-out can revoke
// this one device only.
type Principal struct {
	User  *models.User
	Token string
}

// Service resolves a bearer token to the user it belongs to.
type Service interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// PrincipalFromContext extracts the authenticated principal set by
// AuthMiddleware from the request context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*Principal)
	return p, ok
}

// AuthMiddleware returns middleware that verifies the bearer token of the
// request and attaches the Principal to the context. Requests without a
// valid, unrevoked token get 401 Unauthorized.
func AuthMiddleware(service Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := service.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, &Principal{User: user, Token: tokenStr})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
