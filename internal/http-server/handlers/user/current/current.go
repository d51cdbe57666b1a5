package current

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/models"
)

// UserGetter описывает чтение профиля текущего пользователя.
type UserGetter interface {
	CurrentUser(ctx context.Context, userUID string) (*models.PublicUser, error)
}

// New возвращает обработчик GET /users/me.
func New(log *slog.Logger, getter UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.current.New"

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

		user, err := getter.CurrentUser(r.Context(), userUID)
		if err != nil {
			log.Error("failed to load current user", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		render.JSON(w, r, response.StatusOKWithMessage(user, "current user fetched successfully"))
	}
}
