// Package session содержит бизнес-логику регистрации, входа, выхода,
// ротации refresh-токена и смены пароля.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/jwt"
	"github.com/clipstream/user-service/internal/lib/password"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/media"
	"github.com/clipstream/user-service/internal/models"
	"github.com/clipstream/user-service/internal/storage/repository"
)

// UserRepository описывает контракт хранилища учетных записей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, userUID, token string) error
	SwapRefreshToken(ctx context.Context, userUID, oldToken, newToken string) (bool, error)
	ClearRefreshToken(ctx context.Context, userUID string) error
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// MediaUploader загружает файл во внешнее хранилище и возвращает публичный URL.
type MediaUploader interface {
	Upload(ctx context.Context, file media.File) (string, error)
}

// EventPublisher публикует события жизненного цикла пользователей.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event models.UserRegisteredEvent) error
}

// TokenPair — пара выданных токенов сессии.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service реализует операции над сессией пользователя.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	uploader MediaUploader
	events   EventPublisher
	log      *slog.Logger
}

// New создает новый экземпляр Service. events может быть nil,
// тогда события регистрации не публикуются.
func New(users UserRepository, jwtMaker jwt.Maker, uploader MediaUploader, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		uploader: uploader,
		events:   events,
		log:      log,
	}
}

// RegisterInput — данные регистрации нового пользователя.
type RegisterInput struct {
	FullName   string
	Username   string
	Email      string
	Password   string
	Avatar     *media.File
	CoverImage *media.File
}

// Register создает нового пользователя: проверяет уникальность username и
// email, загружает аватар (обязателен) и обложку (опциональна), сохраняет
// запись и перечитывает её из хранилища.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Username == "" || in.Email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.Validation("all fields are required")
	}
	if in.Avatar == nil {
		return nil, apperr.Validation("avatar is required")
	}

	existing, err := s.users.GetUserByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Internal("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("user with email or username already exists")
	}

	avatarURL, err := s.uploader.Upload(ctx, *in.Avatar)
	if err != nil {
		return nil, apperr.Internal("failed to upload avatar", err)
	}

	var coverImageURL string
	if in.CoverImage != nil {
		coverImageURL, err = s.uploader.Upload(ctx, *in.CoverImage)
		if err != nil {
			return nil, apperr.Internal("failed to upload cover image", err)
		}
	}

	hash, err := password.GetHash(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	uid, err := s.users.CreateUser(ctx, models.User{
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, apperr.Conflict("user with email or username already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	created, err := s.users.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("failed to load created user", err)
	}

	if s.events != nil {
		event := models.UserRegisteredEvent{
			UserUID:  created.UID,
			Username: created.Username,
			Email:    created.Email,
			FullName: created.FullName,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			// письмо не критично для регистрации
			s.log.Error("failed to publish user.registered event", sl.Err(err))
		}
	}

	return created.Public(), nil
}

// LoginInput — данные входа: username или email плюс пароль.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Login проверяет учетные данные и выдает новую пару токенов, сохраняя
// refresh-токен на записи пользователя. Предыдущий refresh-токен при этом
// перестает действовать.
func (s *Service) Login(ctx context.Context, in LoginInput) (*models.PublicUser, *TokenPair, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" && in.Email == "" {
		return nil, nil, apperr.Validation("username or email is required")
	}

	user, err := s.users.GetUserByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, apperr.NotFound("user does not exist")
		}
		return nil, nil, apperr.Internal("failed to load user", err)
	}

	if err := password.CompareHash(user.PasswordHash, in.Password); err != nil {
		return nil, nil, apperr.Unauthorized("password is incorrect")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.UID, pair.RefreshToken); err != nil {
		return nil, nil, apperr.Internal("failed to persist refresh token", err)
	}

	return user.Public(), pair, nil
}

// Refresh проверяет refresh-токен, сверяет его с сохраненным значением и
// выдает новую пару токенов. Старый токен атомарно заменяется новым;
// повторное использование уже замененного токена отклоняется.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, apperr.Unauthorized("unauthorized request")
	}

	claims, err := s.jwtMaker.ParseRefreshToken(rawToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	if rawToken != user.RefreshToken {
		return nil, apperr.Unauthorized("refresh token is expired or used")
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	swapped, err := s.users.SwapRefreshToken(ctx, user.UID, rawToken, pair.RefreshToken)
	if err != nil {
		return nil, apperr.Internal("failed to rotate refresh token", err)
	}
	if !swapped {
		// конкурентная ротация или выход успели заменить токен
		return nil, apperr.Unauthorized("refresh token is expired or used")
	}

	return pair, nil
}

// Logout очищает сохраненный refresh-токен пользователя.
func (s *Service) Logout(ctx context.Context, userUID string) error {
	if err := s.users.ClearRefreshToken(ctx, userUID); err != nil {
		return apperr.Internal("failed to clear refresh token", err)
	}
	return nil
}

// ChangePassword проверяет старый пароль и сохраняет хэш нового.
func (s *Service) ChangePassword(ctx context.Context, userUID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.Validation("new password is required")
	}

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("user does not exist")
		}
		return apperr.Internal("failed to load user", err)
	}

	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		return apperr.Validation("invalid old password")
	}

	hash, err := password.GetHash(newPassword)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userUID, hash); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}

func (s *Service) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Username)
	if err != nil {
		return nil, apperr.Internal("failed to issue access token", err)
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, apperr.Internal("failed to issue refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
