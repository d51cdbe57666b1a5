package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken создает короткоживущий access-токен с uid и username,
// подписывая его access-секретом.
func (j *MakerImpl) GenerateAccessToken(userUID, username string) (string, error) {
	claims := AccessClaims{
		UserUID:  userUID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.accessSecret))
}

// GenerateRefreshToken создает долгоживущий refresh-токен с uid пользователя,
// подписывая его refresh-секретом.
func (j *MakerImpl) GenerateRefreshToken(userUID string) (string, error) {
	claims := RefreshClaims{
		UserUID: userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.refreshTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.refreshSecret))
}

// ParseAccessToken проверяет подпись и срок действия access-токена,
// возвращает AccessClaims, если токен корректен.
func (j *MakerImpl) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	const op = "jwt.ParseAccessToken"
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.accessSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

// ParseRefreshToken проверяет подпись и срок действия refresh-токена,
// возвращает RefreshClaims, если токен корректен.
func (j *MakerImpl) ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	const op = "jwt.ParseRefreshToken"
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.refreshSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
