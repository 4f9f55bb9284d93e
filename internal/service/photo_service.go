package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/mlexterramirez/loanmate/loanmate-backend/internal/repository/storage"
)

const (
	MaxPhotoSize   = 5 * 1024 * 1024 // 5MB
	MinPhotoWidth  = 50
	MinPhotoHeight = 50
	PhotoMaxWidth  = 800
	JPEGQuality    = 85
	PhotoURLExpiry = 24 * time.Hour
)

var (
	ErrPhotoTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrPhotoInvalidFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrPhotoTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrPhotoInvalidData          = errors.New("invalid image data")
	ErrPhotoStorageNotConfigured = errors.New("photo storage not configured")
)

// AllowedPhotoExtensions maps extensions to content types
var AllowedPhotoExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// PhotoService handles borrower photo processing and storage
type PhotoService struct {
	storage storage.PhotoRepository
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(storage storage.PhotoRepository) *PhotoService {
	return &PhotoService{storage: storage}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *PhotoService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the photo and returns the decoded image
func (s *PhotoService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxPhotoSize {
		return nil, ErrPhotoTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedPhotoExtensions[ext]; !ok {
		return nil, ErrPhotoInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrPhotoInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinPhotoWidth || bounds.Dy() < MinPhotoHeight {
		return nil, ErrPhotoTooSmall
	}

	return img, nil
}

// ProcessAndUpload resizes a borrower photo and uploads it, returning
// the stored object path.
func (s *PhotoService) ProcessAndUpload(ctx context.Context, borrowerID int32, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrPhotoStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	var processed image.Image = img
	if img.Bounds().Dx() > PhotoMaxWidth {
		processed = imaging.Resize(img, PhotoMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	objectPath := fmt.Sprintf("borrowers/%d/%s.jpg", borrowerID, uuid.New().String())

	path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return path, nil
}

// PresignedURL generates a temporary download URL for a stored photo
func (s *PhotoService) PresignedURL(ctx context.Context, objectPath string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrPhotoStorageNotConfigured
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, PhotoURLExpiry)
}

// Delete removes a stored photo. A missing path is not an error.
func (s *PhotoService) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrPhotoStorageNotConfigured
	}
	return s.storage.Delete(ctx, objectPath)
}
