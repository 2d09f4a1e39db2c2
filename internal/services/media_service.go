// internal/services/media_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/models"
)

// MediaService turns stored image keys into URLs the storefront can load.
type MediaService struct {
	s3Client *s3.S3
	cfg      config.StorageConfig
}

func NewMediaService(cfg config.StorageConfig) (*MediaService, error) {
	if cfg.AccessKeyID == "" {
		// Public bucket or CDN, no signing needed
		return &MediaService{cfg: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &MediaService{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

// URL resolves one image reference. Absolute URLs are returned unchanged.
func (s *MediaService) URL(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || isAbsoluteURL(key) {
		return key
	}
	key = strings.TrimPrefix(key, "/")

	if s.cfg.Presign && s.s3Client != nil {
		url, err := s.presign(key, s.cfg.PresignTTL)
		if err == nil {
			return url
		}
		logrus.WithError(err).WithField("key", key).Warn("Falling back to public media URL")
	}

	return s.publicURL(key)
}

// ResolveProduct returns a copy of p whose images are loadable URLs.
func (s *MediaService) ResolveProduct(p models.Product) models.Product {
	if len(p.Images) == 0 {
		return p
	}
	images := make([]string, len(p.Images))
	for i, img := range p.Images {
		images[i] = s.URL(img)
	}
	p.Images = images
	return p
}

func (s *MediaService) presign(key string, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url, nil
}

func (s *MediaService) publicURL(key string) string {
	if s.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "data:")
}
