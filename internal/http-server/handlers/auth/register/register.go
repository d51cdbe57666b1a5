package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clipstream/user-service/internal/http-server/response"
	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/media"
	"github.com/clipstream/user-service/internal/models"
	"github.com/clipstream/user-service/internal/services/session"
)

const maxMultipartMemory = 32 << 20

// RegisterRequest — текстовые поля multipart-формы регистрации.
type RegisterRequest struct {
	FullName string `validate:"required"`
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Registration описывает операцию регистрации нового пользователя.
type Registration interface {
	Register(ctx context.Context, in session.RegisterInput) (*models.PublicUser, error)
}

// New возвращает обработчик POST /users/register. Принимает multipart-форму
// с полями fullName, username, email, password и файлами avatar
// (обязательный) и coverImage (опциональный).
func New(log *slog.Logger, registration Registration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			log.Error("failed to parse multipart form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		registerRequest := RegisterRequest{
			FullName: r.FormValue("fullName"),
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}

		if err := validator.New().Struct(registerRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		avatar, avatarCloser, err := media.FromMultipart(r, "avatar")
		if err != nil {
			log.Error("failed to read avatar file", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read avatar file"))
			return
		}
		if avatarCloser != nil {
			defer func() { _ = avatarCloser.Close() }()
		}

		coverImage, coverCloser, err := media.FromMultipart(r, "coverImage")
		if err != nil {
			log.Error("failed to read cover image file", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to read cover image file"))
			return
		}
		if coverCloser != nil {
			defer func() { _ = coverCloser.Close() }()
		}

		user, err := registration.Register(r.Context(), session.RegisterInput{
			FullName:   registerRequest.FullName,
			Username:   registerRequest.Username,
			Email:      registerRequest.Email,
			Password:   registerRequest.Password,
			Avatar:     avatar,
			CoverImage: coverImage,
		})
		if err != nil {
			log.Error("failed to register new user", sl.Err(err))
			render.Status(r, apperr.HTTPStatus(err))
			render.JSON(w, r, response.AppError(err))
			return
		}

		log.Info("created new user", "username", user.Username)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.StatusOKWithMessage(user, "user registered successfully"))
	}
}
