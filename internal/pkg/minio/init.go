package minio

import (
	"Buildrs/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage uploads build media and avatars into one bucket.
type Storage struct {
	client           *minio.Client
	bucket           string
	externalEndpoint string
	externalSSL      bool
}

// NewStorage connects to MinIO and creates the bucket if it is missing.
func NewStorage(ctx context.Context, cfg config.MinIOConfig) (*Storage, error) {
	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MainBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.MainBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MainBucket, err)
		}
		log.Info("MinIO bucket created", "bucket", cfg.MainBucket)
	}

	externalEndpoint := cfg.ExternalEndpoint
	if externalEndpoint == "" {
		externalEndpoint = endpoint
	}
	return &Storage{
		client:           client,
		bucket:           cfg.MainBucket,
		externalEndpoint: externalEndpoint,
		externalSSL:      cfg.ExternalEndpoint != "" || useSSL,
	}, nil
}
