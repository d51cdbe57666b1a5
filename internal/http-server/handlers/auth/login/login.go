package login

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clipstream/user-service/internal/http-server/cookies"
	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/models"
	"github.com/clipstream/user-service/internal/services/session"
)

// LoginRequest — тело запроса входа: username или email плюс пароль.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// Loginer описывает операцию входа.
type Loginer interface {
	Login(ctx context.Context, in session.LoginInput) (*models.PublicUser, *session.TokenPair, error)
}

// New возвращает обработчик POST /users/login. При успехе выдает пару
// токенов в теле ответа и в cookie accessToken/refreshToken.
func New(log *slog.Logger, loginer Loginer, accessTTL, refreshTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"
		var loginRequest LoginRequest

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := render.DecodeJSON(r.Body, &loginRequest); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(loginRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		user, pair, err := loginer.Login(r.Context(), session.LoginInput{
			Username: loginRequest.Username,
			Email:    loginRequest.Email,
			Password: loginRequest.Password,
		})
		if err != nil {
			log.Error("failed to login user", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		cookies.Set(w, cookies.AccessToken, pair.AccessToken, accessTTL)
		cookies.Set(w, cookies.RefreshToken, pair.RefreshToken, refreshTTL)

		log.Info("user logged in", "username", user.Username)
		render.JSON(w, r, response.StatusOKWithMessage(map[string]any{
			"user":         user,
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		}, "user logged in successfully"))
	}
}
