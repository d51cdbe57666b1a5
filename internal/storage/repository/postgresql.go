// Package repository реализует хранилище учетных записей на основе PostgreSQL.
// Предоставляет методы создания и чтения пользователей, обновления профиля
// и управления текущим refresh-токеном.
package repository

import (
	"context"
	"errors"
	"fmt"

	"database/sql"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища, отображаемые сервисами в ошибки бизнес-уровня.
var (
	// ErrUserNotFound — пользователь с указанным идентификатором отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists — username или email уже заняты другим пользователем.
	ErrUserExists = errors.New("user already exists")
)

const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
