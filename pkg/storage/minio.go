package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// ErrUnknownKind means the upload kind is not one this app stores
	ErrUnknownKind = errors.New("unknown upload kind")
	// ErrUnsupportedType means the file's content type is not allowed
	// for the requested kind
	ErrUnsupportedType = errors.New("unsupported file type for this upload kind")
)

// kindSpec couples an object-key prefix with the content types that may
// land under it
type kindSpec struct {
	prefix  string
	allowed []string // content-type prefixes, e.g. "image/"
}

// uploadKinds routes each upload to its own corner of the bucket.
// Verification evidence keeps its own prefix so it can get a stricter
// bucket policy than public media.
var uploadKinds = map[string]kindSpec{
	"avatars":      {prefix: "avatars", allowed: []string{"image/"}},
	"covers":       {prefix: "covers", allowed: []string{"image/"}},
	"posts":        {prefix: "posts", allowed: []string{"image/", "video/"}},
	"messages":     {prefix: "messages", allowed: []string{"image/", "audio/", "video/"}},
	"verification": {prefix: "verification", allowed: []string{"image/", "video/", "application/pdf"}},
}

// IsValidKind reports whether kind names a known upload destination
func IsValidKind(kind string) bool {
	_, ok := uploadKinds[kind]
	return ok
}

// Storage defines the interface for media storage operations
type Storage interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, kind string) (*UploadResult, error)
	Delete(ctx context.Context, objectName string) error
	GetPublicURL(objectName string) string
}

// UploadResult contains the result of a file upload
type UploadResult struct {
	URL      string
	Key      string // object key in storage
	FileName string
	FileSize int64
	MimeType string
}

// MinIOStorage implements Storage using MinIO
type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	endpoint  string
	publicURL string // External URL
	useSSL    bool
}

// Config holds MinIO connection configuration
type Config struct {
	Endpoint  string
	PublicURL string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinIO creates a new MinIO storage client
func NewMinIO(cfg Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("📦 Created MinIO bucket: %s", cfg.Bucket)

		// Public read for everything except verification evidence
		policy := fmt.Sprintf(`{
			"Version": "2012-10-17",
			"Statement": [{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": [
					"arn:aws:s3:::%[1]s/avatars/*",
					"arn:aws:s3:::%[1]s/covers/*",
					"arn:aws:s3:::%[1]s/posts/*",
					"arn:aws:s3:::%[1]s/messages/*"
				]
			}]
		}`, cfg.Bucket)
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, policy); err != nil {
			log.Printf("⚠️  Failed to set bucket policy: %v", err)
		}
	}

	return &MinIOStorage{
		client:    client,
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
		publicURL: cfg.PublicURL,
		useSSL:    cfg.UseSSL,
	}, nil
}

// Upload stores a file under the key prefix of its kind after checking
// the content type against the kind's whitelist
func (s *MinIOStorage) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, kind string) (*UploadResult, error) {
	spec, ok := uploadKinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	ext := filepath.Ext(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = detectContentType(ext)
	}
	if !typeAllowed(contentType, spec.allowed) {
		return nil, ErrUnsupportedType
	}

	objectKey := fmt.Sprintf("%s/%s/%s%s",
		spec.prefix,
		time.Now().Format("2006/01/02"),
		uuid.New().String(),
		ext,
	)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, file, header.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		URL:      s.GetPublicURL(objectKey),
		Key:      objectKey,
		FileName: header.Filename,
		FileSize: header.Size,
		MimeType: contentType,
	}, nil
}

// Delete removes a file from MinIO
func (s *MinIOStorage) Delete(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

// GetPublicURL returns the public URL for an object
func (s *MinIOStorage) GetPublicURL(objectName string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.publicURL, "/"), s.bucket, objectName)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName)
}

// UploadFromReader uploads from an io.Reader (useful for internal operations)
func (s *MinIOStorage) UploadFromReader(ctx context.Context, reader io.Reader, size int64, objectName, contentType string) (*UploadResult, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		URL:      s.GetPublicURL(objectName),
		Key:      objectName,
		MimeType: contentType,
	}, nil
}

// typeAllowed matches a content type against a kind's whitelist; exact
// entries like "application/pdf" and family prefixes like "image/" both
// work
func typeAllowed(contentType string, allowed []string) bool {
	for _, a := range allowed {
		if contentType == a || strings.HasPrefix(contentType, a) {
			return true
		}
	}
	return false
}

// detectContentType returns the MIME type for a file extension
func detectContentType(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
