package updatecover

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
	"github.com/clipstream/user-service/internal/media"
	"github.com/clipstream/user-service/internal/models"
)

const maxMultipartMemory = 32 << 20

// CoverUpdater описывает операцию замены обложки профиля.
type CoverUpdater interface {
	UpdateCoverImage(ctx context.Context, userUID string, file *media.File) (*models.PublicUser, error)
}

// New возвращает обработчик PATCH /users/me/cover-image. Принимает
// multipart-форму с файлом в поле coverImage.
func New(log *slog.Logger, updater CoverUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.updatecover.New"

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

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			log.Error("failed to parse multipart form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		file, closer, err := media.FromMultipart(r, "coverImage")
		if err != nil {
			log.Error("failed to read cover image file", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read cover image file"))
			return
		}
		if closer != nil {
			defer func() { _ = closer.Close() }()
		}

		user, err := updater.UpdateCoverImage(r.Context(), userUID, file)
		if err != nil {
			log.Error("failed to update cover image", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		log.Info("cover image updated", "useruid", userUID)
		render.JSON(w, r, response.StatusOKWithMessage(user, "cover image updated successfully"))
	}
}
