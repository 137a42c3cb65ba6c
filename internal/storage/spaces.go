// Package storage uploads gallery images to an S3-compatible object store
// (DigitalOcean Spaces) fronted by a CDN.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxImageSize caps uploads at 10 MB before they reach the bucket.
const MaxImageSize = 10 << 20

var (
	ErrNotAnImage = errors.New("file is not an image")
	ErrTooLarge   = errors.New("file exceeds maximum size")
)

// Config locates the bucket and the CDN in front of it.
type Config struct {
	Endpoint  string // e.g. nyc3.digitaloceanspaces.com
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	CDNDomain string // e.g. cdn.example.com; empty falls back to the origin URL
}

// Upload is the result of a stored object.
type Upload struct {
	Key       string
	OriginURL string
	CDNURL    string
}

// Uploader is the object storage surface used by the gallery handlers.
type Uploader interface {
	UploadImage(ctx context.Context, prefix, filename, contentType string, size int64, r io.Reader) (*Upload, error)
	Delete(ctx context.Context, key string) error
}

type spacesUploader struct {
	client *minio.Client
	cfg    Config
}

// NewSpacesUploader connects to the Spaces endpoint.
func NewSpacesUploader(cfg Config) (Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to spaces: %w", err)
	}
	return &spacesUploader{client: client, cfg: cfg}, nil
}

// UploadImage stores an image under prefix with a random object name, keeping
// the original extension. Objects are public-read; profiles embed them
// directly.
func (u *spacesUploader) UploadImage(ctx context.Context, prefix, filename, contentType string, size int64, r io.Reader) (*Upload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if size > MaxImageSize {
		return nil, ErrTooLarge
	}

	ext := strings.ToLower(path.Ext(filename))
	key := path.Join(prefix, uuid.NewString()+ext)

	_, err := u.client.PutObject(ctx, u.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	originURL := fmt.Sprintf("https://%s.%s/%s", u.cfg.Bucket, u.cfg.Endpoint, key)
	cdnURL := originURL
	if u.cfg.CDNDomain != "" {
		cdnURL = fmt.Sprintf("https://%s/%s", u.cfg.CDNDomain, key)
	}
	return &Upload{Key: key, OriginURL: originURL, CDNURL: cdnURL}, nil
}

// Delete removes an object from the bucket.
func (u *spacesUploader) Delete(ctx context.Context, key string) error {
	if err := u.client.RemoveObject(ctx, u.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
