package changepassword

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
)

// ChangePasswordRequest — тело запроса смены пароля.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// PasswordChanger описывает операцию смены пароля.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error
}

// New возвращает обработчик POST /users/change-password.
func New(log *slog.Logger, changer PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.changepassword.New"
		var changeRequest ChangePasswordRequest

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

		if err := render.DecodeJSON(r.Body, &changeRequest); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(changeRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		if err := changer.ChangePassword(r.Context(), userUID, changeRequest.OldPassword, changeRequest.NewPassword); err != nil {
			log.Error("failed to change password", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		log.Info("password changed", "useruid", userUID)
		render.JSON(w, r, response.StatusOKWithMessage(nil, "password changed successfully"))
	}
}
