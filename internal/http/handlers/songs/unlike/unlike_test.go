package unlike

import (
	"bytes"
	"context"
	"encoding/json"
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

func (m *ServiceMock) Unlike(ctx context.Context, email, songID string) error {
	args := m.Called(ctx, email, songID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withPrincipal(req *http.Request, user *models.User) *http.Request {
	principal := &middlewarectx.Principal{User: user, Token: "session-token"}
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.PrincipalKey, principal))
}

func TestUnlikeHandler_ServeHTTP(t *testing.T) {
	user := &models.User{Email: "a@x.com"}

	tests := []struct {
		name           string
		requestBody    Request
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "song unliked",
			requestBody:    Request{ID: "song1"},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "song was never liked",
			requestBody:    Request{ID: "song2"},
			mockCalled:     true,
			mockErr:        services.ErrNotLiked,
			wantStatusCode: http.StatusNotFound,
			wantError:      "does not exist",
		},
		{
			name:           "missing song id",
			requestBody:    Request{},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field ID is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockCalled {
				serviceMock.On("Unlike", mock.Anything, "a@x.com", tt.requestBody.ID).
					Return(tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/songs/unlike", bytes.NewReader(bodyBytes))
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
