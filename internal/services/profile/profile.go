// Package profile содержит бизнес-логику чтения и обновления профиля:
// данных аккаунта, аватара и обложки. Чтение текущего профиля идет через
// кэш с коротким сроком жизни, мутации инвалидируют кэшированную запись.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/clipstream/user-service/internal/lib/apperr"
	"github.com/clipstream/user-service/internal/lib/sl"
	"github.com/clipstream/user-service/internal/media"
	"github.com/clipstream/user-service/internal/models"
	"github.com/clipstream/user-service/internal/storage/repository"
)

const cacheTTL = 5 * time.Minute

// UserRepository описывает контракт хранилища для операций профиля.
type UserRepository interface {
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	UpdateAccountDetails(ctx context.Context, userUID, fullName, email string) (*models.User, error)
	UpdateAvatarURL(ctx context.Context, userUID, avatarURL string) (*models.User, error)
	UpdateCoverImageURL(ctx context.Context, userUID, coverImageURL string) (*models.User, error)
}

// MediaUploader загружает файл во внешнее хранилище и возвращает публичный URL.
type MediaUploader interface {
	Upload(ctx context.Context, file media.File) (string, error)
}

// Cache описывает кэш профилей пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции над профилем пользователя.
type Service struct {
	users    UserRepository
	uploader MediaUploader
	cache    Cache
	log      *slog.Logger
}

// New создает новый экземпляр Service. cache может быть nil.
func New(users UserRepository, uploader MediaUploader, cache Cache, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		uploader: uploader,
		cache:    cache,
		log:      log,
	}
}

func cacheKey(userUID string) string {
	return "user:" + userUID
}

// CurrentUser возвращает профиль аутентифицированного пользователя.
func (s *Service) CurrentUser(ctx context.Context, userUID string) (*models.PublicUser, error) {
	if s.cache != nil {
		var cached models.PublicUser
		found, err := s.cache.Get(ctx, cacheKey(userUID), &cached)
		if err != nil {
			s.log.Error("failed to read profile cache", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	public := user.Public()
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(userUID), public, cacheTTL); err != nil {
			s.log.Error("failed to write profile cache", sl.Err(err))
		}
	}
	return public, nil
}

// UpdateAccountDetails обновляет полное имя и email пользователя.
func (s *Service) UpdateAccountDetails(ctx context.Context, userUID, fullName, email string) (*models.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, apperr.Validation("all fields are required")
	}

	user, err := s.users.UpdateAccountDetails(ctx, userUID, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperr.NotFound("user does not exist")
		case errors.Is(err, repository.ErrUserExists):
			return nil, apperr.Conflict("email is already taken")
		default:
			return nil, apperr.Internal("failed to update account details", err)
		}
	}

	s.invalidate(ctx, userUID)
	return user.Public(), nil
}

// UpdateAvatar загружает новый аватар и заменяет ссылку на записи
// пользователя. Предыдущий объект в хранилище медиа не удаляется.
func (s *Service) UpdateAvatar(ctx context.Context, userUID string, file *media.File) (*models.PublicUser, error) {
	return s.updateImage(ctx, userUID, file, "avatar", s.users.UpdateAvatarURL)
}

// UpdateCoverImage загружает новую обложку и заменяет ссылку на записи
// пользователя. Предыдущий объект в хранилище медиа не удаляется.
func (s *Service) UpdateCoverImage(ctx context.Context, userUID string, file *media.File) (*models.PublicUser, error) {
	return s.updateImage(ctx, userUID, file, "cover image", s.users.UpdateCoverImageURL)
}

func (s *Service) updateImage(ctx context.Context, userUID string, file *media.File, kind string,
	update func(ctx context.Context, userUID, url string) (*models.User, error)) (*models.PublicUser, error) {
	if file == nil {
		return nil, apperr.Validation(kind + " file is missing")
	}

	url, err := s.uploader.Upload(ctx, *file)
	if err != nil || url == "" {
		return nil, apperr.Validation("error while uploading " + kind)
	}

	user, err := update(ctx, userUID, url)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, apperr.Internal("failed to update "+kind, err)
	}

	s.invalidate(ctx, userUID)
	return user.Public(), nil
}

func (s *Service) invalidate(ctx context.Context, userUID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(userUID)); err != nil {
		s.log.Error("failed to invalidate profile cache", sl.Err(err))
	}
}
