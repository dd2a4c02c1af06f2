package remove

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iakindev/spotify-clone-backend/internal/http/middlewarectx"
	"github.com/iakindev/spotify-clone-backend/internal/models"
	services "github.com/iakindev/spotify-clone-backend/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) DeleteAccount(ctx context.Context, principal *models.User, name, email, password string) error {
	args := m.Called(ctx, principal, name, email, password)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withPrincipal(req *http.Request, user *models.User) *http.Request {
	principal := &middlewarectx.Principal{User: user, Token: "session-token"}
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.PrincipalKey, principal))
}

func TestRemoveHandler_ServeHTTP(t *testing.T) {
	user := &models.User{Email: "a@x.com", Name: "Alice"}
	validRequest := Request{Name: "Alice", Email: "a@x.com", Password: "Secret1"}

	tests := []struct {
		name           string
		requestBody    any
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "account deleted",
			requestBody:    validRequest,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    validRequest,
			mockCalled:     true,
			mockErr:        services.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "password does not match",
		},
		{
			name:           "target is not the caller",
			requestBody:    Request{Name: "Mallory", Email: "victim@x.com", Password: "Secret1"},
			mockCalled:     true,
			mockErr:        services.ErrIdentityMismatch,
			wantStatusCode: http.StatusForbidden,
			wantError:      "can only delete your own account",
		},
		{
			name:           "missing fields",
			requestBody:    Request{Email: "a@x.com"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Name is a required field",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "storage failure",
			requestBody:    validRequest,
			mockCalled:     true,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to delete account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockCalled {
				req := tt.requestBody.(Request)
				serviceMock.On("DeleteAccount", mock.Anything, user, req.Name, req.Email, req.Password).
					Return(tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodDelete, "/users/me", bytes.NewReader(bodyBytes))
			req = withPrincipal(req, user)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Contains(t, errStr, tt.wantError)
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
