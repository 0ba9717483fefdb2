package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
)

// uploadKeyPrefix namespaces chat uploads inside the bucket.
const uploadKeyPrefix = "uploads/"

// s3Service implements Service against S3-compatible object storage.
type s3Service struct {
	cfg      ServiceConfig
	uploader *manager.Uploader
}

// newS3Service initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints.
func newS3Service(cfg ServiceConfig) (*s3Service, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Service{
		cfg:      cfg,
		uploader: manager.NewUploader(client),
	}, nil
}

// Save uploads the payload under a fresh random key and returns the public URL.
func (s *s3Service) Save(ctx context.Context, originalFilename string, data []byte) (string, error) {
	name := randx.UploadName(originalFilename)
	key := uploadKeyPrefix + name
	contentType := mimeForName(name)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.S3BucketName,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		logx.Error(err, "S3 upload failed", "key", key)
		return "", errors.New("failed to upload file to S3")
	}

	return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key), nil
}
