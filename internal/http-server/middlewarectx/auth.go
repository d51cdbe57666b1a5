// Package middlewarectx содержит HTTP middleware для проверки access-токена
// и ограничения частоты запросов.
//
// AuthMiddleware читает access-токен из cookie или заголовка Authorization,
// проверяет его подпись и срок действия и кладет в контекст запроса uid и
// имя пользователя. При ошибке возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/jwt"
	"github.com/clipstream/user-service/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для uid пользователя в контексте
	UserUID Key = "useruid"
	// Username — ключ для имени пользователя в контексте
	Username Key = "username"
)

// TokenParser описывает проверку access-токена.
type TokenParser interface {
	ParseAccessToken(tokenStr string) (*jwt.AccessClaims, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет access-токен
// из cookie accessToken или заголовка Authorization: Bearer.
func AuthMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := cookies.Value(r, cookies.AccessToken)
			if tokenStr == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}
			if tokenStr == "" {
				log.Error("missing access token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized request"))
				return
			}

			claims, err := parser.ParseAccessToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, Username, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserUIDFromContext возвращает uid аутентифицированного пользователя.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUID).(string)
	return uid, ok && uid != ""
}
