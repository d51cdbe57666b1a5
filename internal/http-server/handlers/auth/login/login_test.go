package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/models"
	"github.com/clipstream/user-service/internal/services/session"
)

type LoginerMock struct{ mock.Mock }

func (m *LoginerMock) Login(ctx context.Context, in session.LoginInput) (*models.PublicUser, *session.TokenPair, error) {
	args := m.Called(ctx, in)
	var user *models.PublicUser
	var pair *session.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*models.PublicUser)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*session.TokenPair)
	}
	return user, pair, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler(t *testing.T) {
	publicUser := &models.PublicUser{UID: "uid-1", Username: "johndoe"}
	pair := &session.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}

	tests := []struct {
		name           string
		requestBody    any
		setupMocks     func(m *LoginerMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantCookies    bool
	}{
		{
			name:        "valid login",
			requestBody: LoginRequest{Username: "johndoe", Password: "secret123"},
			setupMocks: func(m *LoginerMock) {
				m.On("Login", mock.Anything, session.LoginInput{Username: "johndoe", Password: "secret123"}).
					Return(publicUser, pair, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantCookies:    true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMocks:     func(_ *LoginerMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "failed to decode request",
		},
		{
			name:           "missing password",
			requestBody:    LoginRequest{Username: "johndoe"},
			setupMocks:     func(_ *LoginerMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name:        "missing identifier",
			requestBody: LoginRequest{Password: "secret123"},
			setupMocks: func(m *LoginerMock) {
				m.On("Login", mock.Anything, session.LoginInput{Password: "secret123"}).
					Return(nil, nil, apperr.Validation("username or email is required")).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "username or email is required",
		},
		{
			name:        "unknown user",
			requestBody: LoginRequest{Email: "nobody@example.com", Password: "secret123"},
			setupMocks: func(m *LoginerMock) {
				m.On("Login", mock.Anything, mock.Anything).
					Return(nil, nil, apperr.NotFound("user does not exist")).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "user does not exist",
		},
		{
			name:        "wrong password",
			requestBody: LoginRequest{Username: "johndoe", Password: "wrong"},
			setupMocks: func(m *LoginerMock) {
				m.On("Login", mock.Anything, mock.Anything).
					Return(nil, nil, apperr.Unauthorized("password is incorrect")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "password is incorrect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loginerMock := new(LoginerMock)
			tt.setupMocks(loginerMock)

			handler := New(newNoopLogger(), loginerMock, 15*time.Minute, 240*time.Hour)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Contains(t, errStr, tt.wantError)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "access-1", data["accessToken"])
				assert.Equal(t, "refresh-1", data["refreshToken"])
			}

			res := rec.Result()
			defer res.Body.Close()
			var names []string
			for _, c := range res.Cookies() {
				names = append(names, c.Name)
			}
			if tt.wantCookies {
				assert.Contains(t, names, cookies.AccessToken)
				assert.Contains(t, names, cookies.RefreshToken)
			} else {
				assert.Empty(t, names)
			}
			loginerMock.AssertExpectations(t)
		})
	}
}
