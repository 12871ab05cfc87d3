// Package objectstore writes listing images to an S3-compatible bucket.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/betahouse/listings/internal/domain"
	"github.com/betahouse/listings/internal/metrics"
)

// Compile-time check: Uploader implements domain.ImageStore.
var _ domain.ImageStore = (*Uploader)(nil)

// Config holds the object store settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	Prefix    string
	// PublicURL is the base under which stored objects are readable, e.g. https://cdn.example.com/betahouse.
	PublicURL string
	Logger    *zap.Logger
}

// bucketClient is the subset of *minio.Client the uploader needs (ISP).
type bucketClient interface {
	PutObject(
		ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucket, policy string) error
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// Uploader stores images under random keys and returns their public URLs.
type Uploader struct {
	client    bucketClient
	bucket    string
	prefix    string
	publicURL string
	region    string
	logger    *zap.Logger
	newKey    func() string
}

// New creates an uploader backed by MinIO or any S3-compatible endpoint.
func New(cfg *Config) (*Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return newUploader(mc, cfg), nil
}

func newUploader(c bucketClient, cfg *Config) *Uploader {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}
	return &Uploader{
		client:    c,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		region:    cfg.Region,
		logger:    logger,
		newKey:    func() string { return uuid.NewString() },
	}
}

// Store uploads files in order. The first failure aborts the batch; objects
// already written stay in the bucket.
func (u *Uploader) Store(ctx context.Context, files []domain.Upload) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := u.objectKey(f.Filename)

		start := time.Now()
		_, err := u.client.PutObject(ctx, u.bucket, key, f.Body, f.Size, minio.PutObjectOptions{
			ContentType: f.ContentType(),
		})
		metrics.ImageUploadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("put object %s: %w", key, err)
		}
		metrics.ImageUploadsTotal.WithLabelValues("success").Inc()
		metrics.ImageUploadBytes.Add(float64(f.Size))

		u.logger.Debug("image stored", zap.String("key", key), zap.Int64("bytes", f.Size))
		urls = append(urls, u.publicURL+"/"+key)
	}
	return urls, nil
}

// Remove deletes the objects behind urls. URLs outside this bucket's public base,
// such as the placeholder image, are skipped. Every object is attempted.
func (u *Uploader) Remove(ctx context.Context, urls []string) error {
	base := u.publicURL + "/"
	var errs []error
	for _, url := range urls {
		key, ok := strings.CutPrefix(url, base)
		if !ok || key == "" {
			continue
		}
		if err := u.client.RemoveObject(ctx, u.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			errs = append(errs, fmt.Errorf("remove object %s: %w", key, err))
			continue
		}
		u.logger.Debug("image removed", zap.String("key", key))
	}
	return errors.Join(errs...)
}

// EnsureBucket creates the bucket when missing and opens its objects to anonymous reads.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", u.bucket, err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: u.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", u.bucket, err)
		}
		u.logger.Info("bucket created", zap.String("bucket", u.bucket))
	}
	if err := u.client.SetBucketPolicy(ctx, u.bucket, publicReadPolicy(u.bucket)); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", u.bucket, err)
	}
	return nil
}

func (u *Uploader) objectKey(filename string) string {
	name := u.newKey() + strings.ToLower(filepath.Ext(filename))
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

func publicReadPolicy(bucket string) string {
	return `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},` +
		`"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::` + bucket + `/*"]}]}`
}
