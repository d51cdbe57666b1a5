package logout

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

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
)

type LogouterMock struct{ mock.Mock }

func (m *LogouterMock) Logout(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLogoutHandler(t *testing.T) {
	t.Run("success clears cookies", func(t *testing.T) {
		logouterMock := new(LogouterMock)
		logouterMock.On("Logout", mock.Anything, "uid-1").Return(nil).Once()

		handler := New(newNoopLogger(), logouterMock)

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])
		assert.Equal(t, "user logged out successfully", got["message"])

		res := rec.Result()
		defer res.Body.Close()
		cleared := map[string]bool{}
		for _, c := range res.Cookies() {
			cleared[c.Name] = c.MaxAge < 0
		}
		assert.True(t, cleared[cookies.AccessToken])
		assert.True(t, cleared[cookies.RefreshToken])
		logouterMock.AssertExpectations(t)
	})

	t.Run("missing user identity", func(t *testing.T) {
		handler := New(newNoopLogger(), new(LogouterMock))

		req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Error", got["status"])
		assert.Equal(t, "unauthorized request", got["error"])
	})
}
