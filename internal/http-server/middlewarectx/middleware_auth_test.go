package middlewarectx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/lib/jwt"
)

type ParserMock struct{ mock.Mock }

func (m *ParserMock) ParseAccessToken(tokenStr string) (*jwt.AccessClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.AccessClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthMiddleware(t *testing.T) {
	claims := &jwt.AccessClaims{UserUID: "uid-1", Username: "johndoe"}

	tests := []struct {
		name        string
		setupReq    func(r *http.Request)
		setupMocks  func(p *ParserMock)
		wantStatus  int
		wantUserUID string
	}{
		{
			name: "token from cookie",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookies.AccessToken, Value: "valid-token"})
			},
			setupMocks: func(p *ParserMock) {
				p.On("ParseAccessToken", "valid-token").Return(claims, nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantUserUID: "uid-1",
		},
		{
			name: "token from authorization header",
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
			},
			setupMocks: func(p *ParserMock) {
				p.On("ParseAccessToken", "header-token").Return(claims, nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantUserUID: "uid-1",
		},
		{
			name:       "missing token",
			setupReq:   func(_ *http.Request) {},
			setupMocks: func(_ *ParserMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookies.AccessToken, Value: "expired"})
			},
			setupMocks: func(p *ParserMock) {
				p.On("ParseAccessToken", "expired").
					Return(nil, errors.New("token is expired")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(ParserMock)
			tt.setupMocks(parser)

			var gotUID string
			var gotOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID, gotOK = UserUIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			tt.setupReq(req)
			rec := httptest.NewRecorder()

			AuthMiddleware(parser, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantUserUID != "" {
				assert.True(t, gotOK)
				assert.Equal(t, tt.wantUserUID, gotUID)
			}
			parser.AssertExpectations(t)
		})
	}
}

func TestUserUIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserUIDFromContext(req.Context())
	assert.False(t, ok)
}
