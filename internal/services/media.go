package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaStorage stores uploaded bytes and returns a stable reference to them
type MediaStorage interface {
	Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// mediaKey builds a fresh object name that keeps the upload's extension
func mediaKey(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}

// LocalMediaStorage writes uploads to a directory served under urlPrefix
type LocalMediaStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalMediaStorage creates the upload directory if needed
func NewLocalMediaStorage(dir, urlPrefix string) (*LocalMediaStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalMediaStorage{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the directory uploads are written to
func (s *LocalMediaStorage) Dir() string {
	return s.dir
}

// Store writes r to a new file
func (s *LocalMediaStorage) Store(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	name := mediaKey(filename)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close media file: %w", err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// S3MediaStorage uploads media to an S3 compatible bucket
type S3MediaStorage struct {
	s3Client *s3.Client
	s3Bucket string
	baseURL  string
}

// NewS3MediaStorage creates an S3 media storage. Static keys are used when
// given, otherwise the default AWS credential chain.
func NewS3MediaStorage(ctx context.Context, region, bucket, accessKey, secretKey, endpoint string) (*S3MediaStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	if endpoint != "" {
		baseURL = strings.TrimRight(endpoint, "/") + "/" + bucket
	}

	return &S3MediaStorage{
		s3Client: s3Client,
		s3Bucket: bucket,
		baseURL:  baseURL,
	}, nil
}

// Store uploads r under pgs/ and returns the object URL
func (s *S3MediaStorage) Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := "pgs/" + mediaKey(filename)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	return s.baseURL + "/" + key, nil
}
