package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"bazario/api/internal/config"
)

// ObjectStore holds uploaded avatars and product images. The rest of the
// system only ever stores object keys, never bytes.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.BucketAvatars, s.cfg.BucketProducts} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket exists %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

func (s *ObjectStore) PutAvatar(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.put(ctx, s.cfg.BucketAvatars, key, r, size, contentType)
}

func (s *ObjectStore) PutProductImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.put(ctx, s.cfg.BucketProducts, key, r, size, contentType)
}

func (s *ObjectStore) RemoveAvatar(ctx context.Context, key string) error {
	return s.remove(ctx, s.cfg.BucketAvatars, key)
}

func (s *ObjectStore) RemoveProductImage(ctx context.Context, key string) error {
	return s.remove(ctx, s.cfg.BucketProducts, key)
}

func (s *ObjectStore) put(ctx context.Context, bucket string, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *ObjectStore) remove(ctx context.Context, bucket string, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}
