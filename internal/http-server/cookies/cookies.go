// Package cookies управляет транспортными cookie пары токенов сессии.
// Обе cookie выставляются с флагами HttpOnly и Secure.
package cookies

import (
	"net/http"
	"time"
)

const (
	// AccessToken — имя cookie access-токена.
	AccessToken = "accessToken"
	// RefreshToken — имя cookie refresh-токена.
	RefreshToken = "refreshToken"
)

// Set выставляет cookie токена со сроком жизни ttl.
func Set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie токена.
func Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Value возвращает значение cookie или пустую строку, если её нет.
func Value(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
