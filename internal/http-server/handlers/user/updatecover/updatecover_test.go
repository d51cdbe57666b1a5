package updatecover

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/user-service/internal/http-server/middlewarectx"
	"github.com/clipstream/user-service/internal/media"
	"github.com/clipstream/user-service/internal/models"
)

type CoverUpdaterMock struct{ mock.Mock }

func (m *CoverUpdaterMock) UpdateCoverImage(ctx context.Context, userUID string, file *media.File) (*models.PublicUser, error) {
	args := m.Called(ctx, userUID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PublicUser), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUpdateCoverHandler(t *testing.T) {
	updated := &models.PublicUser{
		UID:           "uid-1",
		Username:      "johndoe",
		AvatarURL:     "http://cdn/avatar.png",
		CoverImageURL: "http://cdn/new-cover.png",
	}

	updaterMock := new(CoverUpdaterMock)
	updaterMock.On("UpdateCoverImage", mock.Anything, "uid-1", mock.MatchedBy(func(f *media.File) bool {
		return f != nil && f.Name == "cover.png"
	})).Return(updated, nil).Once()

	handler := New(newNoopLogger(), updaterMock)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("coverImage", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users/me/cover-image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "OK", got["status"])
	data, ok := got["data"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "http://cdn/new-cover.png", data["coverImage"])
	updaterMock.AssertExpectations(t)
}
