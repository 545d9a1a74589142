package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/google/uuid"
)

type MediaStorage interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// S3MediaStorage stores candidate pictures and signature images in a public
// bucket and hands back the object URL for the UI to embed.
type S3MediaStorage struct {
	Client *s3.Client
	Bucket string
	Region string
}

func (s *S3MediaStorage) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("media/%s-%s", uuid.NewString(), sanitizeObjectName(name))

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		logging.Log.Errorf("MEDIA: failed to upload %s: %v", name, err)
		return "", err
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key)
	logging.Log.Infof("MEDIA: uploaded %s (%d bytes)", key, len(data))
	return publicURL, nil
}

func (s *S3MediaStorage) Delete(ctx context.Context, publicURL string) error {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		logging.Log.Errorf("MEDIA: invalid media url %s: %v", publicURL, err)
		return err
	}
	key := strings.TrimPrefix(parsed.Path, "/")

	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	})
	if err != nil {
		logging.Log.Errorf("MEDIA: failed to delete %s: %v", key, err)
		return err
	}
	logging.Log.Infof("MEDIA: deleted %s", key)
	return nil
}

func sanitizeObjectName(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '.' || r == '_':
			return r
		}
		return -1
	}, name)
}
