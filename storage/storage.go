// Package storage provides object storage for lesson media and certificate
// files over any S3-compatible backend.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	appconfig "elearn/config"
	courseModels "elearn/models/course"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Service is the object storage contract used by handlers.
type Service interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	PublicURL(bucket, key string) string
}

// Storage is the global storage instance, set during startup.
var Storage Service

// S3Storage implements Service using the AWS SDK. It works with any
// S3-compatible backend (AWS S3, MinIO, etc.)
type S3Storage struct {
	client    *s3.Client
	publicURL string
}

// Connect builds the S3 client from application configuration and installs
// it as the global Storage instance.
func Connect() {
	cfg := appconfig.AppConfig

	endpoint := cfg.StorageEndpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.StorageRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		log.Fatalf("Failed to create storage config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(endpoint)
	})

	Storage = &S3Storage{
		client:    client,
		publicURL: strings.TrimSuffix(cfg.StoragePublicURL, "/"),
	}
}

// Upload stores an object in the given bucket under the given key,
// overwriting any existing object.
func (s *S3Storage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	return err
}

// PublicURL derives the public URL for an object.
func (s *S3Storage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, key)
}

// BucketForContentType selects the bucket for a lesson's declared content
// type. Video is the default, matching the upload form's initial state.
func BucketForContentType(contentType string) string {
	switch contentType {
	case courseModels.ContentPDF:
		return appconfig.AppConfig.DocumentBucket
	case courseModels.ContentPresentation:
		return appconfig.AppConfig.PresentationBucket
	default:
		return appconfig.AppConfig.VideoBucket
	}
}

// LessonObjectKey builds the object key for lesson media, namespaced by
// course/module/lesson/filename.
func LessonObjectKey(courseID, moduleID, lessonID uint, filename string) string {
	return fmt.Sprintf("%d/%d/%d/%s", courseID, moduleID, lessonID, filename)
}
