package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"tumanina/internal/config"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// s3Storage implements Storage on AWS S3 with the multipart upload manager.
type s3Storage struct {
	uploader uploader
	bucket   string
	region   string
}

// NewS3 creates an S3-backed Storage. Static credentials are used when both keys are
// configured, otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg config.S3Config) (Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3 region is required")
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsConf, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConf)
	return &s3Storage{uploader: manager.NewUploader(client), bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (s *s3Storage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	in := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		Body:     r,
		Metadata: opt.Metadata,
	}
	if opt.ContentType != "" {
		in.ContentType = aws.String(opt.ContentType)
	}
	if opt.PublicRead {
		in.ACL = types.ObjectCannedACLPublicRead
	}
	out, err := s.uploader.Upload(ctx, in)
	if err != nil {
		return ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:         key,
		Size:        opt.Size,
		ContentType: opt.ContentType,
		URL:         s.PublicURL(key),
	}
	if out.ETag != nil {
		info.ETag = *out.ETag
	}
	return info, nil
}

// PublicURL returns the virtual-hosted-style URL of key.
func (s *s3Storage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escapeKey(key))
}
