// internal/services/storage_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lebem/lebem-backend/internal/config"
)

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrFileNotAllowed = errors.New("file type not allowed")
)

// StorageService keeps catalog images on S3 when credentials are set and
// on local disk otherwise. Images are shrunk to fit the configured square.
type StorageService struct {
	s3Client *s3.S3
	config   config.StorageConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

func (s *StorageService) UsesS3() bool {
	return s.s3Client != nil
}

// UploadImage validates and resizes an uploaded image and stores it.
func (s *StorageService) UploadImage(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, header.Size, options.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if len(options.AllowedTypes) > 0 && !contains(options.AllowedTypes, ext) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotAllowed, ext)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !isValidImageType(raw) {
		return nil, fmt.Errorf("%w: not an image", ErrFileNotAllowed)
	}

	data, img, err := s.fitImage(raw, ext)
	if err != nil {
		return nil, err
	}

	key := generateFileName(header.Filename, options.Folder)
	contentType := contentTypeFor(ext)

	url, err := s.put(key, data, contentType)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		URL:      url,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}, nil
}

// fitImage shrinks img to fit MaxImageSide x MaxImageSide keeping its aspect
// ratio. Smaller images are stored unchanged.
func (s *StorageService) fitImage(raw []byte, ext string) ([]byte, image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFileNotAllowed, err)
	}

	side := s.config.MaxImageSide
	bounds := img.Bounds()
	if side <= 0 || (bounds.Dx() <= side && bounds.Dy() <= side) {
		return raw, img, nil
	}

	resized := imaging.Fit(img, side, side, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), resized, nil
}

func (s *StorageService) put(key string, data []byte, contentType string) (string, error) {
	if s.s3Client != nil {
		_, err := s.s3Client.PutObject(&s3.PutObjectInput{
			Bucket:        aws.String(s.config.S3Bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(int64(len(data))),
			ACL:           aws.String("public-read"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to S3: %w", err)
		}
		return s.publicURL(key), nil
	}

	path := filepath.Join(s.config.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.publicURL(key), nil
}

// DeleteFile accepts either a storage key or a URL returned by UploadImage.
func (s *StorageService) DeleteFile(keyOrURL string) error {
	key := s.KeyFromURL(keyOrURL)
	if key == "" {
		return nil
	}

	if s.s3Client == nil {
		path := filepath.Join(s.config.LocalDir, filepath.FromSlash(key))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		logrus.WithField("key", key).Debug("Local file deleted")
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

func (s *StorageService) GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case "categories":
		return UploadOptions{
			Folder:       "categories",
			MaxSize:      5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png"},
		}
	default:
		return UploadOptions{
			Folder:       "products",
			MaxSize:      10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif"},
		}
	}
}

func (s *StorageService) publicURL(key string) string {
	if s.s3Client == nil {
		return strings.TrimRight(s.config.PublicURL, "/") + "/" + key
	}
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.S3Bucket, s.config.Region, key)
}

// KeyFromURL strips the public prefix of a stored URL.
func (s *StorageService) KeyFromURL(value string) string {
	for _, prefix := range []string{
		strings.TrimRight(s.config.PublicURL, "/") + "/",
		strings.TrimRight(s.config.CloudFrontURL, "/") + "/",
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.config.S3Bucket, s.config.Region),
	} {
		if prefix != "/" && strings.HasPrefix(value, prefix) {
			return strings.TrimPrefix(value, prefix)
		}
	}
	if strings.Contains(value, "://") || strings.Contains(value, "..") {
		return ""
	}
	return strings.TrimPrefix(value, "/")
}

func generateFileName(originalName, folder string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}
	return filename
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
