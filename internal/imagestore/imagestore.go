// Package imagestore uploads recipe photos to S3-compatible object storage
// and hands back public URLs for the stored objects.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint      string
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Uploader stores recipe images in a bucket under recipe-images/.
type Uploader struct {
	cfg    Config
	client s3Client
	now    func() time.Time
}

func NewUploader(cfg Config) *Uploader {
	u := &Uploader{cfg: cfg, now: time.Now}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		u.client = newS3Client(cfg)
	}
	return u
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether storage credentials are configured.
func (u *Uploader) Enabled() bool {
	return u.client != nil
}

// Upload stores data under a timestamped key derived from fileName and
// returns the public URL of the object.
func (u *Uploader) Upload(ctx context.Context, data []byte, fileName, fileType string) (string, error) {
	if u.client == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	ext := path.Ext(fileName)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("recipe-images/%d%s", u.now().UnixNano(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(fileType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	base := u.cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimSuffix(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
	}
	return strings.TrimSuffix(base, "/") + "/" + key, nil
}

// DecodeDataURI decodes base64 image data, tolerating an optional
// "data:image/...;base64," prefix.
func DecodeDataURI(s string) ([]byte, error) {
	if idx := strings.Index(s, ","); idx != -1 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return data, nil
}
