package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platefeed/backend/config"
)

// ImageStorage persists a decoded image and returns its public URL.
type ImageStorage interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

// ImageService turns base64 data-URI uploads (recipe images, avatars) into
// stored files. Plain URLs pass through untouched so clients can resend the
// read representation on update.
type ImageService struct {
	storage ImageStorage
}

func NewImageService(storage ImageStorage) *ImageService {
	return &ImageService{storage: storage}
}

// SaveDataURI decodes a "data:image/...;base64," payload and stores it.
// Non-data-URI values are returned as-is.
func (s *ImageService) SaveDataURI(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, "data:") {
		return value, nil
	}

	meta, payload, ok := strings.Cut(value, ",")
	if !ok {
		return "", newValidationError("image", "invalid image payload")
	}
	contentType := strings.TrimPrefix(meta, "data:")
	contentType = strings.TrimSuffix(contentType, ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return "", newValidationError("image", "unsupported content type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", newValidationError("image", "invalid base64 image data")
	}

	return s.storage.Save(ctx, data, contentType)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}

// S3ImageStorage stores images in the configured S3 bucket.
type S3ImageStorage struct {
	cfg *config.S3Config
}

func NewS3ImageStorage(cfg *config.S3Config) *S3ImageStorage {
	return &S3ImageStorage{cfg: cfg}
}

func (s *S3ImageStorage) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("images/%s.%s", uuid.New().String(), extensionFor(contentType))

	_, err := s.cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.BucketName, key), nil
}

// LocalImageStorage writes images under a media directory; used in
// development and tests.
type LocalImageStorage struct {
	root string
}

func NewLocalImageStorage(root string) *LocalImageStorage {
	return &LocalImageStorage{root: root}
}

func (s *LocalImageStorage) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	name := fmt.Sprintf("%s.%s", uuid.New().String(), extensionFor(contentType))
	dir := filepath.Join(s.root, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return "/media/images/" + name, nil
}
