package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gziptool/gziptool/internal/engine"
	"github.com/hashicorp/go-cleanhttp"
)

// S3Uploader is an interface for uploading objects to S3.
// This allows for easy mocking in tests.
type S3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Getter is an interface for downloading objects from S3.
type S3Getter interface {
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config contains configuration for the S3 storage.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

// S3 reads and writes objects in S3-compatible object storage.
type S3 struct {
	bucket   string
	prefix   string
	uploader S3Uploader
	getter   S3Getter
}

var (
	_ engine.Sink   = (*S3)(nil)
	_ engine.Source = (*S3)(nil)
)

// NewS3 creates S3 storage with the given configuration.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithHTTPClient(cleanhttp.DefaultPooledClient()),
	}

	// Set region if provided
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	// Set explicit credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)

	// Set custom endpoint for S3-compatible services (R2, MinIO, etc.)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	// Force path-style addressing for MinIO and some S3-compatible services
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)

	return NewS3WithClients(cfg.Bucket, cfg.Prefix, manager.NewUploader(client), client), nil
}

// NewS3WithClients creates S3 storage with custom clients.
// This is useful for testing.
func NewS3WithClients(bucket, prefix string, uploader S3Uploader, getter S3Getter) *S3 {
	return &S3{
		bucket:   bucket,
		prefix:   prefix,
		uploader: uploader,
		getter:   getter,
	}
}

func (s *S3) Name() string {
	if s.prefix != "" {
		return fmt.Sprintf("s3(%s/%s)", s.bucket, s.prefix)
	}
	return fmt.Sprintf("s3(%s)", s.bucket)
}

func (s *S3) Kind() string {
	return "s3"
}

func (s *S3) key(objectPath string) string {
	if s.prefix != "" {
		return path.Join(s.prefix, objectPath)
	}
	return objectPath
}

// Create buffers everything written and uploads it as one object on Close.
func (s *S3) Create(ctx context.Context, objectPath string) (io.WriteCloser, error) {
	return &s3Object{ctx: ctx, storage: s, path: objectPath}, nil
}

func (s *S3) upload(ctx context.Context, objectPath string, data io.Reader) error {
	key := s.key(objectPath)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   data,
	}

	// Set Content-Type based on file extension
	if contentType := contentTypeFromPath(objectPath); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", s.bucket, key, err)
	}

	return nil
}

func (s *S3) Open(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	key := s.key(objectPath)

	out, err := s.getter.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, key, err)
	}

	return out.Body, nil
}

func (s *S3) Close(ctx context.Context) error {
	return nil
}

type s3Object struct {
	bytes.Buffer
	ctx     context.Context
	storage *S3
	path    string
	closed  bool
}

func (o *s3Object) Close() error {
	if o.closed {
		return fmt.Errorf("object %s already closed", o.path)
	}
	o.closed = true
	return o.storage.upload(o.ctx, o.path, bytes.NewReader(o.Bytes()))
}

// contentTypeFromPath returns the Content-Type based on the file extension.
func contentTypeFromPath(p string) string {
	switch path.Ext(p) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/x-yaml"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain"
	case ".gz":
		return "application/gzip"
	case ".zst":
		return "application/zstd"
	case ".lz4":
		return "application/x-lz4"
	default:
		return ""
	}
}

// ParseS3URL splits an s3://bucket/key URL. ok is false for anything else.
func ParseS3URL(raw string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(raw, "s3://") {
		return "", "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", false
	}

	return u.Host, strings.TrimPrefix(u.Path, "/"), true
}
