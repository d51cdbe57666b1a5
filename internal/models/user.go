// Package models содержит доменную модель пользователя сервиса.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Username      string    // Имя пользователя (уникальное, в нижнем регистре)
	Email         string    // Электронная почта (уникальная)
	FullName      string    // Полное имя
	PasswordHash  string    // Хэш пароля пользователя
	AvatarURL     string    // Ссылка на аватар (обязательная)
	CoverImageURL string    // Ссылка на обложку профиля (опциональная)
	RefreshToken  string    // Текущий refresh-токен, пустая строка если сессии нет
	CreatedAt     time.Time // Дата создания записи
}

// PublicUser — представление пользователя без пароля и refresh-токена,
// единственная форма, в которой запись покидает сервис.
type PublicUser struct {
	UID           string    `json:"uid"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public возвращает представление пользователя без чувствительных полей.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		UID:           u.UID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// UserRegisteredEvent — событие о регистрации нового пользователя,
// публикуется в очередь для отправки приветственного письма.
type UserRegisteredEvent struct {
	UserUID  string `json:"useruid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
}
