// Package media реализует загрузку медиафайлов в S3-совместимое хранилище.
//
// Загруженные объекты раскладываются по датированным ключам вида
// media/ГГГГ/М/Д/<uuid><расширение>; публичная ссылка собирается из
// базового URL бакета. Ранее загруженные объекты не удаляются при замене.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/clipstream/user-service/internal/config"
)

// File описывает один загружаемый файл.
type File struct {
	Name        string    // Исходное имя файла, используется только ради расширения
	ContentType string    // MIME-тип из multipart-заголовка
	Size        int64     // Размер в байтах
	Reader      io.Reader // Содержимое файла
}

// S3Uploader загружает файлы в бакет S3-совместимого хранилища.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader создает клиента S3 со статическими учетными данными
// и кастомным endpoint (minio или любой S3-совместимый сервис).
func NewS3Uploader(ctx context.Context, cfg config.MediaStorage) (*S3Uploader, error) {
	const op = "media.NewS3Uploader"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// StorageKey возвращает новый датированный ключ объекта с расширением
// исходного файла.
func StorageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v%s", d.Year(), int(d.Month()), d.Day(), uuid.New(), filepath.Ext(filename))
}

// Upload записывает файл в бакет и возвращает его публичный URL.
func (u *S3Uploader) Upload(ctx context.Context, file File) (string, error) {
	const op = "media.Upload"

	key := StorageKey(file.Name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          file.Reader,
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return u.publicBaseURL + "/" + key, nil
}
