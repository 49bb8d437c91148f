// Package storage hosts screen images and hands back the public URLs that
// go into display responses. Local disk is the default; an S3-compatible
// Spaces bucket with a CDN in front is the production option.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

type Storage interface {
	// SaveFile stores an uploaded file and returns its public URL.
	SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error)

	// SaveBytes stores raw image bytes (rendered screens) and returns the
	// public URL.
	SaveBytes(data []byte, filename string) (string, error)
}

type LocalStorage struct {
	uploadDir string
	baseURL   string
}

// NewLocalStorage serves files from uploadDir under baseURL/uploads.
func NewLocalStorage(uploadDir, baseURL string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (l *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return l.SaveBytes(data, filename)
}

func (l *LocalStorage) SaveBytes(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(l.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	path := filepath.Join(l.uploadDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("stored screen image locally")
	return fmt.Sprintf("%s/uploads/%s", l.baseURL, filename), nil
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
	cdnURL string
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: strings.TrimSuffix(cdnURL, "/"),
	}, nil
}

func (s *SpacesStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return s.SaveBytes(data, filename)
}

func (s *SpacesStorage) SaveBytes(data []byte, filename string) (string, error) {
	key := "screens/" + filename
	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(data)).Msg("stored screen image in spaces")
	return fmt.Sprintf("%s/%s", s.cdnURL, key), nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// NormalizeFilename produces a unique, URL-safe filename from an upload
// name. The timestamp doubles as the firmware's change-detection key.
func NormalizeFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	base := strings.TrimSuffix(originalFilename, ext)
	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	if base == "" {
		base = "screen"
	}
	return fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), ext)
}
