// Package apperr определяет закрытый набор видов ошибок бизнес-уровня.
//
// Сервисы возвращают ошибки с одним из перечисленных видов, а HTTP-граница
// один раз отображает вид в статус-код ответа. Никакие повторы не
// выполняются: первая неудача — терминальная для запроса.
package apperr

import (
	"errors"
	"net/http"
)

// Kind — вид ошибки бизнес-уровня.
type Kind int

const (
	// KindInternal — непредвиденная ошибка хранилища или внешнего сервиса.
	KindInternal Kind = iota
	// KindValidation — некорректный или неполный ввод.
	KindValidation
	// KindConflict — нарушение уникальности идентичности пользователя.
	KindConflict
	// KindNotFound — пользователь не найден.
	KindNotFound
	// KindUnauthorized — неверные учетные данные или невалидный токен.
	KindUnauthorized
)

// Error — ошибка с видом и сообщением, пригодным для ответа клиенту.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation возвращает ошибку вида KindValidation.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Conflict возвращает ошибку вида KindConflict.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// NotFound возвращает ошибку вида KindNotFound.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Unauthorized возвращает ошибку вида KindUnauthorized.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

// Internal возвращает ошибку вида KindInternal, оборачивая причину.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf возвращает вид ошибки. Ошибки без вида считаются внутренними.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message возвращает сообщение, безопасное для отдачи клиенту.
// Для ошибок без вида возвращается нейтральный текст.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return "internal server error"
}

// HTTPStatus отображает вид ошибки в статус-код HTTP.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
