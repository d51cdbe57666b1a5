package updatedetails

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/models"
)

// UpdateDetailsRequest — тело запроса обновления данных аккаунта.
type UpdateDetailsRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// DetailsUpdater описывает операцию обновления данных аккаунта.
type DetailsUpdater interface {
	UpdateAccountDetails(ctx context.Context, userUID, fullName, email string) (*models.PublicUser, error)
}

// New возвращает обработчик PATCH /users/me.
func New(log *slog.Logger, updater DetailsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.updatedetails.New"
		var updateRequest UpdateDetailsRequest

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

		if err := render.DecodeJSON(r.Body, &updateRequest); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(updateRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		user, err := updater.UpdateAccountDetails(r.Context(), userUID, updateRequest.FullName, updateRequest.Email)
		if err != nil {
			log.Error("failed to update account details", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		log.Info("account details updated", "useruid", userUID)
		render.JSON(w, r, response.StatusOKWithMessage(user, "account details updated successfully"))
	}
}
