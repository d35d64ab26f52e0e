// Package photo stores report photos in MinIO. Submissions carry the image
// as a base64 payload; approved photos are served straight from the public
// bucket.
package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"akses-lakbay/internal/config"
)

var ErrEmptyPayload = errors.New("photo payload is empty")

type Service interface {
	Store(ctx context.Context, reportID uuid.UUID, payload string) (string, error)
	Remove(ctx context.Context, storagePath string) error
	PublicURL(storagePath string) string
}

type service struct {
	client *minio.Client
	cfg    *config.Config
}

func NewService(client *minio.Client, cfg *config.Config) Service {
	return &service{client: client, cfg: cfg}
}

// Store decodes the base64 payload and uploads it, returning the object's
// storage path. Data-URL prefixes ("data:image/jpeg;base64,") are tolerated.
func (s *service) Store(ctx context.Context, reportID uuid.UUID, payload string) (string, error) {
	if payload == "" {
		return "", ErrEmptyPayload
	}

	contentType := "image/jpeg"
	if idx := strings.Index(payload, ";base64,"); idx > 0 {
		if strings.HasPrefix(payload, "data:") {
			contentType = payload[len("data:"):idx]
		}
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("invalid photo payload: %w", err)
	}

	storagePath := fmt.Sprintf("reports/%s/%s", time.Now().Format("2006/01"), reportID.String())

	_, err = s.client.PutObject(ctx, s.cfg.MinIOBucket, storagePath,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return storagePath, nil
}

func (s *service) Remove(ctx context.Context, storagePath string) error {
	return s.client.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
}

func (s *service) PublicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}

	escaped := url.PathEscape(storagePath)
	escaped = strings.ReplaceAll(escaped, "%2F", "/")

	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, escaped)
}
