package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Popolzen/ossconvert/internal/config"
	"github.com/Popolzen/ossconvert/internal/model"
)

// Client реализует ObjectStorage поверх S3-совместимого хранилища
type Client struct {
	s3       *awss3.Client
	presign  *awss3.PresignClient
	bucket   string
	endpoint string
	expires  time.Duration
}

func NewClient(cfg *config.Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось собрать конфигурацию хранилища: %w", err)
	}

	// Кастомный endpoint и path-style адресация: хранилище не обязано
	// быть самим AWS, достаточно совместимости по протоколу
	s3Client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3:       s3Client,
		presign:  awss3.NewPresignClient(s3Client),
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		expires:  time.Duration(cfg.URLExpires) * time.Second,
	}, nil
}

// objectKey добавляет к имени файла случайный суффикс перед расширением,
// чтобы повторная загрузка одного имени не перетирала объект
func objectKey(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	return fmt.Sprintf("%s_%s%s", name, uuid.New().String()[:8], ext)
}

// Upload кладет объект в бакет и возвращает presigned-ссылку
// с настроенным сроком жизни
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (model.UploadResult, error) {
	key := objectKey(filename)

	_, err := c.s3.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("ошибка загрузки в хранилище: %w", err)
	}

	req, err := c.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(c.expires))
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("ошибка генерации ссылки: %w", err)
	}

	return model.UploadResult{URL: req.URL, ObjectKey: key}, nil
}

// Endpoint возвращает адрес хранилища; по нему воркеры распознают
// уже сконвертированные ссылки
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Ping проверяет доступность бакета
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	return err
}
