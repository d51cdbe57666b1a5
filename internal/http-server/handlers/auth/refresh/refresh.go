package refresh

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/services/session"
)

// RefreshRequest — тело запроса ротации, используется при отсутствии cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresher описывает операцию ротации refresh-токена.
type Refresher interface {
	Refresh(ctx context.Context, rawToken string) (*session.TokenPair, error)
}

// New возвращает обработчик POST /users/refresh-token. Токен читается из
// cookie refreshToken либо из тела запроса; при успехе новая пара токенов
// возвращается в теле и в cookie.
func New(log *slog.Logger, refresher Refresher, accessTTL, refreshTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.refresh.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rawToken := cookies.Value(r, cookies.RefreshToken)
		if rawToken == "" {
			var refreshRequest RefreshRequest
			// тело может отсутствовать, токен тогда обязан быть в cookie
			_ = render.DecodeJSON(r.Body, &refreshRequest)
			rawToken = refreshRequest.RefreshToken
		}

		pair, err := refresher.Refresh(r.Context(), rawToken)
		if err != nil {
			log.Error("failed to refresh tokens", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		cookies.Set(w, cookies.AccessToken, pair.AccessToken, accessTTL)
		cookies.Set(w, cookies.RefreshToken, pair.RefreshToken, refreshTTL)

		log.Info("tokens refreshed")
		render.JSON(w, r, response.StatusOKWithMessage(pair, "access token refreshed"))
	}
}
