package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/config"
)

// minioStore keeps attachment blobs in an S3-compatible backend (MinIO, AWS
// S3, etc.). Safe for concurrent use.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates the attachment blob store. It validates connectivity and
// creates the bucket when it does not exist yet.
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, fmt.Errorf("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, fmt.Errorf("minio credentials are required")
	case cfg.Bucket == "":
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	if err := ensureBucket(cli, cfg.Bucket); err != nil {
		return nil, err
	}

	return &minioStore{client: cli, bucket: cfg.Bucket}, nil
}

func ensureBucket(cli *minio.Client, bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Put streams an attachment blob to the backend; the content never touches
// local disk.
func (m *minioStore) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(), // PutObject does not report LastModified
		Metadata:     opt.Metadata,
	}, nil
}

// Get returns the blob content as a streaming reader alongside its stat info.
func (m *minioStore) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, err
	}
	return obj, ObjectInfo{
		Key:          key,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}, nil
}

func (m *minioStore) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// PresignGet returns a time-limited download URL so document bytes are served
// straight from the backend instead of through the API.
func (m *minioStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
