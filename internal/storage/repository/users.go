package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clipstream/user-service/internal/models"
)

const userColumns = `uid, username, email, full_name, password_hash,
			      avatar_url, cover_image_url, COALESCE(refresh_token, ''), created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.AvatarURL, &u.CoverImageURL, &u.RefreshToken, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Нарушение уникальности username или email возвращается как ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, email, full_name, password_hash,
			      avatar_url, cover_image_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.CoverImageURL).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsernameOrEmail возвращает пользователя, чей username или email
// совпадает с одним из переданных значений. Пустые значения не совпадают
// ни с одной записью.
func (s *Storage) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	const op = "storage.GetUserByUsernameOrEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetRefreshToken безусловно записывает новый refresh-токен пользователя,
// инвалидируя ранее выданный. Используется при входе.
func (s *Storage) SetRefreshToken(ctx context.Context, userUID, token string) error {
	const op = "storage.SetRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET refresh_token = $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, token, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SwapRefreshToken атомарно заменяет refresh-токен пользователя, только если
// сохраненное значение совпадает с oldToken. Возвращает false, если значение
// уже было заменено конкурентной ротацией или очищено при выходе.
func (s *Storage) SwapRefreshToken(ctx context.Context, userUID, oldToken, newToken string) (bool, error) {
	const op = "storage.SwapRefreshToken"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET refresh_token = $1
			  WHERE uid = $2 AND refresh_token = $3`
	res, err := s.DB.ExecContext(ctx, query, newToken, userUID, oldToken)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// ClearRefreshToken очищает сохраненный refresh-токен пользователя.
// Используется при выходе из системы.
func (s *Storage) ClearRefreshToken(ctx context.Context, userUID string) error {
	const op = "storage.ClearRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET refresh_token = NULL
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePassword записывает новый хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdateAccountDetails обновляет полное имя и email пользователя и возвращает
// обновленную запись. Занятый email возвращается как ErrUserExists.
func (s *Storage) UpdateAccountDetails(ctx context.Context, userUID, fullName, email string) (*models.User, error) {
	const op = "storage.UpdateAccountDetails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name = $1, email = $2
			  WHERE uid = $3
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, fullName, email, userUID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateAvatarURL заменяет ссылку на аватар и возвращает обновленную запись.
func (s *Storage) UpdateAvatarURL(ctx context.Context, userUID, avatarURL string) (*models.User, error) {
	const op = "storage.UpdateAvatarURL"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET avatar_url = $1
			  WHERE uid = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, avatarURL, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateCoverImageURL заменяет ссылку на обложку профиля и возвращает
// обновленную запись.
func (s *Storage) UpdateCoverImageURL(ctx context.Context, userUID, coverImageURL string) (*models.User, error) {
	const op = "storage.UpdateCoverImageURL"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET cover_image_url = $1
			  WHERE uid = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, coverImageURL, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
