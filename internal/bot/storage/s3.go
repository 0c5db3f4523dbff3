package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/semaphore"

	sc "github.com/dmitrijs2005/winelog/internal/bot/config"
	"github.com/dmitrijs2005/winelog/internal/common"
	"github.com/dmitrijs2005/winelog/internal/logging"
)

// Seams for testing the AWS SDK calls.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// Downloader fetches attachment bytes from the chat transport.
// transport.Transport satisfies it.
type Downloader interface {
	DownloadAttachment(ctx context.Context, fileID string) ([]byte, error)
}

// Uploader is the engine-facing contract: fetch the attachment behind fileID
// and store it under key.
type Uploader interface {
	Upload(ctx context.Context, fileID, key string) error
}

// S3Uploader pushes blobs to an S3-compatible backend. A weighted semaphore
// bounds in-flight transfers so one slow or large upload cannot starve the
// event loop serving other users.
type S3Uploader struct {
	client     *s3.Client
	bucket     string
	downloader Downloader
	sem        *semaphore.Weighted
	logger     logging.Logger
}

func NewS3Uploader(cfg *sc.Config, downloader Downloader, logger logging.Logger) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config error: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	workers := cfg.UploadWorkers
	if workers < 1 {
		workers = 1
	}

	return &S3Uploader{
		client:     client,
		bucket:     cfg.S3Bucket,
		downloader: downloader,
		sem:        semaphore.NewWeighted(int64(workers)),
		logger:     logger.With("component", "uploader"),
	}, nil
}

// Upload fetches the attachment into memory and writes it to the bucket
// under key. Failures of either half surface as common.ErrUpload; nothing
// references the key yet, so no partial object is observable.
func (u *S3Uploader) Upload(ctx context.Context, fileID, key string) error {
	if err := u.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUpload, err)
	}
	defer u.sem.Release(1)

	u.logger.Info(ctx, "downloading attachment", "file_id", fileID)
	body, err := u.downloader.DownloadAttachment(ctx, fileID)
	if err != nil {
		return fmt.Errorf("%w: attachment fetch: %v", common.ErrUpload, err)
	}

	u.logger.Info(ctx, "putting object", "key", key, "bytes", len(body))
	_, err = putObject(u.client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("%w: object write: %v", common.ErrUpload, err)
	}

	return nil
}
