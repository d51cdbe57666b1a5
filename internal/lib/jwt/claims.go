// Package jwt реализует выпуск и проверку пары подписанных токенов сессии.
//
// Access-токен — короткоживущий, содержит uid и username пользователя.
// Refresh-токен — долгоживущий, содержит только uid; его значение
// дополнительно сохраняется на записи пользователя для обнаружения повторного
// использования после ротации.
//
// Токены подписываются разными секретами, поэтому access-токен никогда не
// пройдет проверку как refresh-токен и наоборот.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims описывает данные access-токена.
type AccessClaims struct {
	UserUID              string `json:"useruid"`  // Уникальный идентификатор пользователя
	Username             string `json:"username"` // Имя пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// RefreshClaims описывает данные refresh-токена.
type RefreshClaims struct {
	UserUID              string `json:"useruid"` // Уникальный идентификатор пользователя
	jwt.RegisteredClaims
}

// Maker описывает интерфейс для выпуска и разбора токенов сессии.
type Maker interface {
	GenerateAccessToken(userUID, username string) (string, error)
	GenerateRefreshToken(userUID string) (string, error)
	ParseAccessToken(tokenStr string) (*AccessClaims, error)
	ParseRefreshToken(tokenStr string) (*RefreshClaims, error)
}

// MakerImpl реализует интерфейс Maker с двумя секретными ключами
// и двумя сроками жизни токенов.
type MakerImpl struct {
	accessSecret  string        // Секретный ключ для подписи access-токенов.
	refreshSecret string        // Секретный ключ для подписи refresh-токенов.
	accessTTL     time.Duration // Время жизни access-токена.
	refreshTTL    time.Duration // Время жизни refresh-токена.
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL возвращает срок жизни access-токена.
func (j *MakerImpl) AccessTTL() time.Duration { return j.accessTTL }

// RefreshTTL возвращает срок жизни refresh-токена.
func (j *MakerImpl) RefreshTTL() time.Duration { return j.refreshTTL }
