package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// MaxImageSize is the upload size limit for profile images
const MaxImageSize = 1 * 1024 * 1024 // 1MB

const uploadTimeout = 10 * time.Second

// allowedImageTypes is the fixed MIME allow-list for profile images
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// Client represents an S3-compatible object storage client for profile images
type Client struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewClient creates a new object storage client (works with any S3-compatible endpoint)
func NewClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// UploadImage uploads an image and returns its stable public URL.
// The call carries a bounded timeout; failures surface to the caller untouched
// so it can decide whether to retry.
func (c *Client) UploadImage(ctx context.Context, imageBytes []byte, key, contentType string) (string, error) {
	start := time.Now()
	operation := "uploadImage"

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)),
	)

	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key), nil
}

// ValidateImageType checks the declared MIME type against the allow-list
func (c *Client) ValidateImageType(contentType string) error {
	if _, ok := allowedImageTypes[strings.ToLower(contentType)]; !ok {
		return fmt.Errorf("file type %s not allowed (jpg, jpeg, png): %w",
			contentType, apperrors.ErrUnsupportedMediaType)
	}
	return nil
}

// ValidateImageSize checks the image against the size limit
func (c *Client) ValidateImageSize(imageBytes []byte) error {
	if len(imageBytes) > MaxImageSize {
		return fmt.Errorf("image exceeds %d bytes: %w", MaxImageSize, apperrors.ErrValidation)
	}
	if len(imageBytes) == 0 {
		return fmt.Errorf("empty image: %w", apperrors.ErrValidation)
	}
	return nil
}

// GenerateKey builds a unique object key for a user's profile image.
// A random component busts CDN caches on replacement.
func (c *Client) GenerateKey(userID, originalFileName string) string {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("profiles/%s/%s%s", userID, uuid.NewString()[:8], ext)
}
