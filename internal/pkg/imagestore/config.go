package imagestore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixmyward/fixmyward/internal/pkg/env"
)

// Supported IMAGE_STORE values.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds image storage configuration
type Config struct {
	Backend   string
	UploadDir string
	PublicURL string

	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
}

// LoadConfig loads image storage configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Backend:         strings.ToLower(env.GetEnv("IMAGE_STORE", BackendLocal)),
		UploadDir:       env.GetEnv("UPLOAD_DIR", "uploads"),
		PublicURL:       env.GetEnv("S3_PUBLIC_URL", ""),
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
	}

	switch cfg.Backend {
	case BackendLocal:
	case BackendS3:
		if cfg.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when IMAGE_STORE=s3")
		}
		if cfg.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when IMAGE_STORE=s3")
		}
		if cfg.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when IMAGE_STORE=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported IMAGE_STORE %q", cfg.Backend)
	}

	return cfg, nil
}

// ObjectKey generates the storage key for a report photo
func ObjectKey(reportID, fileExtension string, t time.Time) string {
	// Format: reports/YYYY/MM/ID.ext
	return fmt.Sprintf("reports/%04d/%02d/%s%s", t.Year(), int(t.Month()), reportID, fileExtension)
}
