package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
)

// Logouter описывает операцию выхода из системы.
type Logouter interface {
	Logout(ctx context.Context, userUID string) error
}

// New возвращает обработчик POST /users/logout. Очищает сохраненный
// refresh-токен пользователя и обе cookie токенов.
func New(log *slog.Logger, logouter Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.logout.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userUID, ok := middlewarectx.UserUIDFromContext(r.Context())
		if !ok {
			log.Error("user identification missing")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized request"))
			return
		}

		if err := logouter.Logout(r.Context(), userUID); err != nil {
			log.Error("failed to logout user", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		cookies.Clear(w, cookies.AccessToken)
		cookies.Clear(w, cookies.RefreshToken)

		log.Info("user logged out", "useruid", userUID)
		render.JSON(w, r, response.StatusOKWithMessage(nil, "user logged out successfully"))
	}
}
