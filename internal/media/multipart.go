package media

import (
	"errors"
	"io"
	"net/http"
)

// FromMultipart извлекает файл из multipart-поля запроса. Возвращает (nil,
// nil, nil), если поле отсутствует: обязательность файла решает вызывающий.
// Возвращенный io.Closer должен быть закрыт после использования файла.
func FromMultipart(r *http.Request, field string) (*File, io.Closer, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	}, f, nil
}
