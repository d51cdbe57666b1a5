package current

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/models"
)

type UserGetterMock struct{ mock.Mock }

func (m *UserGetterMock) CurrentUser(ctx context.Context, userUID string) (*models.PublicUser, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicUser), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCurrentHandler(t *testing.T) {
	publicUser := &models.PublicUser{
		UID:       "uid-1",
		Username:  "johndoe",
		Email:     "john@example.com",
		AvatarURL: "http://cdn/avatar.png",
	}

	tests := []struct {
		name           string
		withIdentity   bool
		setupMocks     func(m *UserGetterMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:         "success",
			withIdentity: true,
			setupMocks: func(m *UserGetterMock) {
				m.On("CurrentUser", mock.Anything, "uid-1").Return(publicUser, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "missing identity",
			withIdentity:   false,
			setupMocks:     func(_ *UserGetterMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "unauthorized request",
		},
		{
			name:         "user gone",
			withIdentity: true,
			setupMocks: func(m *UserGetterMock) {
				m.On("CurrentUser", mock.Anything, "uid-1").
					Return(nil, apperr.NotFound("user does not exist")).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "user does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getterMock := new(UserGetterMock)
			tt.setupMocks(getterMock)

			handler := New(newNoopLogger(), getterMock)

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withIdentity {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "johndoe", data["username"])
			}
			getterMock.AssertExpectations(t)
		})
	}
}
