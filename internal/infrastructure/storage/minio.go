package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/pkg/config"
)

// MinIOArchive stores sealed session documents and analytics exports in an
// S3-compatible bucket. The bucket stays private; downloads go through
// presigned URLs.
type MinIOArchive struct {
	client *minio.Client
	bucket string
}

// sessionDocument is the archived shape of one sealed session.
type sessionDocument struct {
	ArchivedAt time.Time                 `json:"archived_at"`
	Session    *entities.TrainingSession `json:"session"`
	Record     *entities.FeedbackRecord  `json:"record"`
}

// NewMinIOArchive creates a MinIO-backed archive client
func NewMinIOArchive(cfg *config.StorageConfig) (*MinIOArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archive := &MinIOArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx := context.Background()
	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return archive, nil
}

// ensureBucket creates the bucket if it does not exist yet
func (m *MinIOArchive) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// PutSession archives a sealed session together with its aggregated record.
// Objects are partitioned by day so retention jobs can prune by prefix.
func (m *MinIOArchive) PutSession(ctx context.Context, session *entities.TrainingSession, record *entities.FeedbackRecord) error {
	doc := sessionDocument{
		ArchivedAt: time.Now().UTC(),
		Session:    session,
		Record:     record,
	}

	day := doc.ArchivedAt
	if record != nil && !record.Timestamp.IsZero() {
		day = record.Timestamp
	}
	objectName := fmt.Sprintf("sessions/%s/%s.json", day.UTC().Format("2006-01-02"), session.SessionID)

	return m.putJSON(ctx, objectName, doc)
}

// PutSummary stores an analytics export and returns the object name
func (m *MinIOArchive) PutSummary(ctx context.Context, payload []byte) (string, error) {
	objectName := fmt.Sprintf("exports/feedback_summary_%s.json", time.Now().UTC().Format("20060102T150405Z"))

	reader := bytes.NewReader(payload)
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload summary: %w", err)
	}

	return objectName, nil
}

// PresignedURL returns a time-limited download URL for an archived object
func (m *MinIOArchive) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// putJSON marshals a document and uploads it
func (m *MinIOArchive) putJSON(ctx context.Context, objectName string, doc interface{}) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal archive document: %w", err)
	}

	reader := bytes.NewReader(payload)
	_, err = m.client.PutObject(ctx, m.bucket, objectName, reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive document: %w", err)
	}

	return nil
}
