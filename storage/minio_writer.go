package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/VigneshAMPT001/kind-ui/config"
	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// objectAPI is the subset of *minio.Client the writer needs.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioAdapter narrows PutObject's reader to a concrete type so fakes stay simple.
type minioAdapter struct {
	*minio.Client
}

func (a minioAdapter) PutObject(ctx context.Context, bucket, object string, r *bytes.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.Client.PutObject(ctx, bucket, object, r, size, opts)
}

// ObjectWriter uploads snapshot documents to S3-compatible storage under
// <prefix>/<run id>/.
type ObjectWriter struct {
	client objectAPI
	bucket string
	prefix string
	logger *utils.Logger
}

// NewObjectWriter connects to the configured MinIO endpoint.
func NewObjectWriter(cfg config.MinIOConfig, logger *utils.Logger) (*ObjectWriter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: new client: %w", err)
	}
	return newObjectWriter(minioAdapter{client}, cfg.Bucket, cfg.Prefix, logger), nil
}

func newObjectWriter(client objectAPI, bucket, prefix string, logger *utils.Logger) *ObjectWriter {
	return &ObjectWriter{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Write uploads the families, summary and diagnostics of snap, creating the
// bucket on first use.
func (w *ObjectWriter) Write(ctx context.Context, snap *models.Snapshot) error {
	exists, err := w.client.BucketExists(ctx, w.bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket exists %q: %w", w.bucket, err)
	}
	if !exists {
		if err := w.client.MakeBucket(ctx, w.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("minio: make bucket %q: %w", w.bucket, err)
		}
		w.logger.Info("[minio] created bucket %s", w.bucket)
	}

	docs := []struct {
		name string
		v    any
	}{
		{FamiliesFile, nonNilFamilies(snap.Families)},
		{SummaryFile, snap.Summary},
		{RunFile, runInfo{RunID: snap.RunID, GeneratedAt: snap.GeneratedAt.UTC().Format(timeLayout), Diagnostics: snap.Diagnostics}},
	}
	for _, d := range docs {
		data, err := json.MarshalIndent(d.v, "", "  ")
		if err != nil {
			return fmt.Errorf("minio: marshal %s: %w", d.name, err)
		}
		key := w.objectKey(snap.RunID, d.name)
		if _, err := w.client.PutObject(ctx, w.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: "application/json"}); err != nil {
			return fmt.Errorf("minio: put %s: %w", key, err)
		}
		w.logger.Debug("[minio] uploaded %s/%s (%d bytes)", w.bucket, key, len(data))
	}
	return nil
}

func (w *ObjectWriter) objectKey(runID, name string) string {
	return path.Join(w.prefix, runID, name)
}

// Close is a no-op; the minio client holds no persistent connection.
func (w *ObjectWriter) Close() error { return nil }
