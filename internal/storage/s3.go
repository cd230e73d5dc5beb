package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrS3BucketRequired is returned when S3 storage is built without a bucket
// or region.
var ErrS3BucketRequired = errors.New("storage: S3 bucket and region are required")

// S3Config names the bucket that receives uploaded artifacts.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible endpoint, addressed path-style
	AccessKeyID     string
	SecretAccessKey string
}

// loadAWSConfig resolves credentials: static keys when both are set,
// otherwise the default AWS chain.
func (c S3Config) loadAWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		static := credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")
		opts = append(opts, config.WithCredentialsProvider(static))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

func (c S3Config) applyEndpoint(o *s3.Options) {
	if c.Endpoint == "" {
		return
	}
	o.BaseEndpoint = aws.String(c.Endpoint)
	o.UsePathStyle = true
}

// objectBaseURL is the URL prefix of every object in the bucket.
func (c S3Config) objectBaseURL() string {
	if endpoint := strings.TrimRight(c.Endpoint, "/"); endpoint != "" {
		return endpoint + "/" + c.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}

// S3Storage saves artifacts on local disk like LocalStorage and can also
// push them to an S3 bucket.
type S3Storage struct {
	*LocalStorage
	uploader *s3.Client
	bucket   string
	baseURL  string
}

// NewS3Storage creates an S3Storage writing local artifacts under outputDir.
func NewS3Storage(outputDir string, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrS3BucketRequired
	}

	local, err := NewLocalStorage(outputDir)
	if err != nil {
		return nil, err
	}

	awsCfg, err := cfg.loadAWSConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("storage: load AWS config: %w", err)
	}

	return &S3Storage{
		LocalStorage: local,
		uploader:     s3.NewFromConfig(awsCfg, cfg.applyEndpoint),
		bucket:       cfg.Bucket,
		baseURL:      cfg.objectBaseURL(),
	}, nil
}

// UploadToS3 stores data as a zip object under key and returns its URL.
func (s *S3Storage) UploadToS3(ctx context.Context, key string, data io.Reader) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("storage: upload: empty object key")
	}

	if _, err := s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String("application/zip"),
	}); err != nil {
		return "", fmt.Errorf("storage: upload %s to bucket %s: %w", key, s.bucket, err)
	}

	return s.objectURL(key), nil
}

func (s *S3Storage) objectURL(key string) string {
	return s.baseURL + "/" + key
}
