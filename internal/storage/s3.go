// Package storage is the upload collaborator: it turns raw multipart uploads
// into attachment descriptors, enforcing size, type and count limits before
// anything reaches the reconciler.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/internal/utils"
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	MaxAttachmentCount = 10
	MaxAttachmentBytes = 10 << 20 // 10 MiB per file
)

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
	"application/zip": true,
}

// S3Storage uploads attachment files to an S3 bucket and hands back
// descriptors keyed by public URL.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(client *s3.Client, bucket, baseURL string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// UploadAttachments validates and stores every file in the batch, returning
// one descriptor per file. The prefix namespaces the batch in the bucket:
// the engagement id for updates, a fresh batch id at creation. Validation
// failures surface before any upload starts so a rejected batch leaves
// nothing behind.
func (s *S3Storage) UploadAttachments(ctx context.Context, prefix string, files []*multipart.FileHeader) ([]types.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > MaxAttachmentCount {
		return nil, types.NewValidationError("attachments", fmt.Sprintf("at most %d files per request", MaxAttachmentCount))
	}

	for _, fh := range files {
		if fh.Size > MaxAttachmentBytes {
			return nil, types.NewValidationError("attachments", fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, MaxAttachmentBytes))
		}
		if !allowedContentTypes[fh.Header.Get("Content-Type")] {
			return nil, types.NewValidationError("attachments", fmt.Sprintf("%s has an unsupported content type", fh.Filename))
		}
	}

	descriptors := make([]types.Attachment, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}

		contentType := fh.Header.Get("Content-Type")
		key := s.objectKey(prefix, fh.Filename)

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          file,
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(fh.Size),
		})
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", fh.Filename, err)
		}

		descriptors = append(descriptors, types.Attachment{
			URL:         s.PublicURL(key),
			Filename:    fh.Filename,
			ContentType: contentType,
			SizeBytes:   fh.Size,
			UploadedAt:  time.Now().UTC(),
		})
	}

	return descriptors, nil
}

// DeleteFile removes one stored object. Callers pass the key, not the URL.
func (s *S3Storage) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL the descriptor carries for a stored key.
func (s *S3Storage) PublicURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// objectKey prefixes a nanoid so two uploads of the same filename never
// collide.
func (s *S3Storage) objectKey(prefix, filename string) string {
	return path.Join("engagements", prefix, fmt.Sprintf("%s-%s", utils.NanoIDSize(12), filename))
}
