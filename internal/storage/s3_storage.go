package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/jinwoo-dev/storefront-backend/config"
	"github.com/jinwoo-dev/storefront-backend/pkg/logger"
)

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var ErrUnsupportedFileType = errors.New("unsupported file type")

// S3Storage issues presigned PUT URLs so clients upload images straight to
// the bucket; the API never proxies file bytes.
type S3Storage struct {
	presigner *s3.PresignClient
	bucket    string
	baseURL   string
	region    string
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

func NewS3Storage(cfg *appconfig.S3Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		baseURL:   strings.TrimRight(baseURL, "/"),
		region:    cfg.Region,
	}, nil
}

// PresignUpload returns a short-lived PUT URL for a new object under the
// given folder. The object key is a UUID so uploads never collide or
// overwrite each other.
func (s *S3Storage) PresignUpload(ctx context.Context, folder, filename, contentType string) (*PresignedUpload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowedImageExtensions, ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
	expiry := 15 * time.Minute

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		logger.Error("Failed to presign upload", err, map[string]interface{}{
			"key": key,
		})
		return nil, fmt.Errorf("presign put object: %w", err)
	}

	logger.Debug("Presigned upload URL issued", map[string]interface{}{
		"key":    key,
		"bucket": s.bucket,
	})

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   fmt.Sprintf("%s/%s", s.baseURL, key),
		Key:       key,
		ExpiresIn: int(expiry.Seconds()),
	}, nil
}
