package changepassword

import (
	"bytes"
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
)

type PasswordChangerMock struct{ mock.Mock }

func (m *PasswordChangerMock) ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error {
	return m.Called(ctx, userUID, oldPassword, newPassword).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestChangePasswordHandler(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		withIdentity   bool
		setupMocks     func(m *PasswordChangerMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:         "success",
			requestBody:  ChangePasswordRequest{OldPassword: "oldsecret", NewPassword: "newsecret"},
			withIdentity: true,
			setupMocks: func(m *PasswordChangerMock) {
				m.On("ChangePassword", mock.Anything, "uid-1", "oldsecret", "newsecret").
					Return(nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "missing identity",
			requestBody:    ChangePasswordRequest{OldPassword: "oldsecret", NewPassword: "newsecret"},
			withIdentity:   false,
			setupMocks:     func(_ *PasswordChangerMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "unauthorized request",
		},
		{
			name:           "short new password",
			requestBody:    ChangePasswordRequest{OldPassword: "oldsecret", NewPassword: "123"},
			withIdentity:   true,
			setupMocks:     func(_ *PasswordChangerMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "field NewPassword is too short",
		},
		{
			name:         "wrong old password",
			requestBody:  ChangePasswordRequest{OldPassword: "not-it", NewPassword: "newsecret"},
			withIdentity: true,
			setupMocks: func(m *PasswordChangerMock) {
				m.On("ChangePassword", mock.Anything, "uid-1", "not-it", "newsecret").
					Return(apperr.Validation("invalid old password")).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid old password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changerMock := new(PasswordChangerMock)
			tt.setupMocks(changerMock)

			handler := New(newNoopLogger(), changerMock)

			bodyBytes, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/users/change-password", bytes.NewReader(bodyBytes))
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
				assert.Contains(t, errStr, tt.wantError)
			} else {
				assert.Equal(t, "password changed successfully", got["message"])
			}
			changerMock.AssertExpectations(t)
		})
	}
}
