// Package storage keeps report image payloads in S3-compatible object
// storage. Reports persist only object keys; clients fetch images through
// short-lived presigned URLs.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore abstracts the object storage used for report images.
type ImageStore interface {
	PutImage(ctx context.Context, reportID uuid.UUID, dataURL string) (key string, err error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// MinioImageStore implements ImageStore on MinIO/S3.
type MinioImageStore struct {
	client *minio.Client
	bucket string
}

// NewMinioImageStore connects and ensures the bucket exists.
func NewMinioImageStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioImageStore{client: client, bucket: bucket}, nil
}

// PutImage decodes a base64 data URL and uploads it under a
// report-scoped key.
func (m *MinioImageStore) PutImage(ctx context.Context, reportID uuid.UUID, dataURL string) (string, error) {
	contentType, payload, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ext := "bin"
	if idx := strings.LastIndex(contentType, "/"); idx >= 0 && idx < len(contentType)-1 {
		ext = contentType[idx+1:]
	}
	key := fmt.Sprintf("reports/%s/%s.%s", reportID, uuid.NewString(), ext)

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put image: %w", err)
	}
	return key, nil
}

// PresignGet generates a pre-signed GET URL for an image key.
func (m *MinioImageStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign image: %w", err)
	}
	return url.String(), nil
}

// Delete removes an image object.
func (m *MinioImageStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// DecodeDataURL splits a "data:<type>;base64,<payload>" URL into its
// content type and decoded bytes.
func DecodeDataURL(dataURL string) (contentType string, payload []byte, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, encoded, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	if contentType == meta {
		return "", nil, fmt.Errorf("only base64 data URLs are supported")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	payload, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return contentType, payload, nil
}
