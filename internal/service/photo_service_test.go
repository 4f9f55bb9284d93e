package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"
)

// fakePhotoStore is an in-memory PhotoRepository for tests
type fakePhotoStore struct {
	objects map[string][]byte
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{objects: make(map[string][]byte)}
}

func (s *fakePhotoStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.objects[objectPath] = buf
	return objectPath, nil
}

func (s *fakePhotoStore) Delete(ctx context.Context, objectPath string) error {
	delete(s.objects, objectPath)
	return nil
}

func (s *fakePhotoStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "https://example.com/" + objectPath, nil
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessAndUpload(t *testing.T) {
	store := newFakePhotoStore()
	svc := NewPhotoService(store)

	path, err := svc.ProcessAndUpload(context.Background(), 1, pngBytes(t, 100, 100), "photo.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(path, "borrowers/1/") || !strings.HasSuffix(path, ".jpg") {
		t.Errorf("Unexpected object path %q", path)
	}
	if _, ok := store.objects[path]; !ok {
		t.Error("Expected the object to be stored")
	}
}

func TestProcessAndUpload_RejectsTooSmall(t *testing.T) {
	svc := NewPhotoService(newFakePhotoStore())

	_, err := svc.ProcessAndUpload(context.Background(), 1, pngBytes(t, 20, 20), "photo.png")
	if !errors.Is(err, ErrPhotoTooSmall) {
		t.Errorf("Expected ErrPhotoTooSmall, got %v", err)
	}
}

func TestProcessAndUpload_RejectsBadExtension(t *testing.T) {
	svc := NewPhotoService(newFakePhotoStore())

	_, err := svc.ProcessAndUpload(context.Background(), 1, pngBytes(t, 100, 100), "photo.gif")
	if !errors.Is(err, ErrPhotoInvalidFormat) {
		t.Errorf("Expected ErrPhotoInvalidFormat, got %v", err)
	}
}

func TestProcessAndUpload_RejectsGarbageData(t *testing.T) {
	svc := NewPhotoService(newFakePhotoStore())

	_, err := svc.ProcessAndUpload(context.Background(), 1, []byte("not an image"), "photo.png")
	if !errors.Is(err, ErrPhotoInvalidData) {
		t.Errorf("Expected ErrPhotoInvalidData, got %v", err)
	}
}

func TestProcessAndUpload_StorageNotConfigured(t *testing.T) {
	svc := NewPhotoService(nil)

	if svc.IsEnabled() {
		t.Error("Expected service to be disabled without storage")
	}

	_, err := svc.ProcessAndUpload(context.Background(), 1, pngBytes(t, 100, 100), "photo.png")
	if !errors.Is(err, ErrPhotoStorageNotConfigured) {
		t.Errorf("Expected ErrPhotoStorageNotConfigured, got %v", err)
	}
}
