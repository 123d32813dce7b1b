package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lebem/lebem-backend/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartFile builds the file/header pair gin hands to handlers.
func multipartFile(t *testing.T, name string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func localStorage(t *testing.T) *StorageService {
	t.Helper()
	svc, err := NewStorageService(config.StorageConfig{
		LocalDir:     t.TempDir(),
		PublicURL:    "/media",
		MaxImageSide: 800,
	})
	require.NoError(t, err)
	require.False(t, svc.UsesS3())
	return svc
}

func TestUploadImageFitsIntoSquare(t *testing.T) {
	svc := localStorage(t)
	file, header := multipartFile(t, "Divan.PNG", pngBytes(t, 1600, 1000))

	result, err := svc.UploadImage(file, header, svc.GetDefaultUploadOptions("products"))
	require.NoError(t, err)

	assert.Equal(t, 800, result.Width)
	assert.Equal(t, 500, result.Height)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, "/media/"+result.Key, result.URL)

	stored, err := imaging.Open(filepath.Join(svc.config.LocalDir, result.Key))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(800, 500), stored.Bounds().Size())
}

func TestUploadImageKeepsSmallImages(t *testing.T) {
	svc := localStorage(t)
	raw := pngBytes(t, 300, 200)
	file, header := multipartFile(t, "stul.png", raw)

	result, err := svc.UploadImage(file, header, svc.GetDefaultUploadOptions("products"))
	require.NoError(t, err)
	assert.Equal(t, 300, result.Width)

	stored, err := os.ReadFile(filepath.Join(svc.config.LocalDir, result.Key))
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestUploadImageRejects(t *testing.T) {
	svc := localStorage(t)

	file, header := multipartFile(t, "notes.txt", []byte("hello"))
	_, err := svc.UploadImage(file, header, svc.GetDefaultUploadOptions("products"))
	assert.ErrorIs(t, err, ErrFileNotAllowed)

	file, header = multipartFile(t, "fake.jpg", []byte("definitely not a jpeg"))
	_, err = svc.UploadImage(file, header, svc.GetDefaultUploadOptions("products"))
	assert.ErrorIs(t, err, ErrFileNotAllowed)

	file, header = multipartFile(t, "big.png", pngBytes(t, 10, 10))
	_, err = svc.UploadImage(file, header, UploadOptions{MaxSize: 10})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDeleteFileByURL(t *testing.T) {
	svc := localStorage(t)
	file, header := multipartFile(t, "a.png", pngBytes(t, 10, 10))

	result, err := svc.UploadImage(file, header, svc.GetDefaultUploadOptions("categories"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(result.URL))
	_, err = os.Stat(filepath.Join(svc.config.LocalDir, result.Key))
	assert.True(t, os.IsNotExist(err))

	// Missing files are not an error
	assert.NoError(t, svc.DeleteFile(result.URL))
}

func TestKeyFromURL(t *testing.T) {
	svc := &StorageService{config: config.StorageConfig{
		PublicURL:     "/media",
		CloudFrontURL: "https://cdn.lebem.uz",
		S3Bucket:      "lebem-media",
		Region:        "eu-central-1",
	}}

	assert.Equal(t, "products/a.jpg", svc.KeyFromURL("/media/products/a.jpg"))
	assert.Equal(t, "products/a.jpg", svc.KeyFromURL("https://cdn.lebem.uz/products/a.jpg"))
	assert.Equal(t, "products/a.jpg", svc.KeyFromURL("https://lebem-media.s3.eu-central-1.amazonaws.com/products/a.jpg"))
	assert.Equal(t, "products/a.jpg", svc.KeyFromURL("products/a.jpg"))
	assert.Equal(t, "", svc.KeyFromURL("https://elsewhere.example/a.jpg"))
	assert.Equal(t, "", svc.KeyFromURL("../../etc/passwd"))
}
