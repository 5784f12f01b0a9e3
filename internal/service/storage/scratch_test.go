package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"anonymizer/internal/blob"
	"anonymizer/internal/config"
	"anonymizer/internal/logger"
)

type recordingStore struct {
	downloads []string
	uploads   []string
	err       error
}

func (s *recordingStore) Download(ctx context.Context, loc blob.Locator, localPath string) error {
	s.downloads = append(s.downloads, localPath)
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(localPath, []byte(loc.Key()), 0644)
}

func (s *recordingStore) Upload(ctx context.Context, localPath string, loc blob.Locator) error {
	s.uploads = append(s.uploads, loc.URL())
	return s.err
}

func mustLocator(t *testing.T, raw string) blob.Locator {
	t.Helper()
	loc, err := blob.ParseS3(raw)
	if err != nil {
		t.Fatalf("ParseS3(%q) failed: %v", raw, err)
	}
	return loc
}

func TestExtension(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"s3://b/photo.jpg", ".jpg"},
		{"s3://b/photo.JPEG", ".jpeg"},
		{"s3://b/dir/photo.png", ".png"},
		{"s3://b/photo", ".jpg"},
		{"s3://b/photo.jpg?v=2", ".jpg"},
		{"s3://b/archive.tar.gz", ".jpg"},
	}

	for _, tt := range tests {
		if got := Extension(mustLocator(t, tt.raw)); got != tt.expected {
			t.Errorf("Extension(%q) = %q, expected %q", tt.raw, got, tt.expected)
		}
	}
}

func TestIsImageExtension(t *testing.T) {
	for _, ext := range []string{".jpg", ".PNG", ".Tiff", ".webp"} {
		if !IsImageExtension(ext) {
			t.Errorf("IsImageExtension(%q) = false", ext)
		}
	}
	for _, ext := range []string{"", ".gif", ".txt", "jpg"} {
		if IsImageExtension(ext) {
			t.Errorf("IsImageExtension(%q) = true", ext)
		}
	}
}

func TestScratchService_FetchAndStore(t *testing.T) {
	cfg := &config.Config{ScratchDirectory: t.TempDir()}
	store := &recordingStore{}
	svc := NewScratchService(cfg, logger.New(io.Discard, io.Discard, true), store)

	ws, err := svc.Open("invocation-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	src := mustLocator(t, "s3://in/people.png")
	local, err := svc.Fetch(context.Background(), ws, src)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if expected := filepath.Join(cfg.ScratchDirectory, "invocation-1", "original-image.png"); local != expected {
		t.Errorf("Fetch path = %q, expected %q", local, expected)
	}

	dst := mustLocator(t, "s3://out/people.jpg")
	if err := svc.Store(context.Background(), ws.FilteredPath(dst), dst); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if len(store.uploads) != 1 || store.uploads[0] != "s3://out/people.jpg" {
		t.Errorf("Unexpected uploads: %v", store.uploads)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("Expected workspace to be removed, stat err = %v", err)
	}
}

func TestScratchService_FetchError(t *testing.T) {
	cfg := &config.Config{ScratchDirectory: t.TempDir()}
	notFound := blob.NotFoundError("download", mustLocator(t, "s3://in/a.jpg"), errors.New("missing"))
	svc := NewScratchService(cfg, logger.New(io.Discard, io.Discard, false), &recordingStore{err: notFound})

	ws, err := svc.Open("x")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer ws.Close()

	if _, err := svc.Fetch(context.Background(), ws, mustLocator(t, "s3://in/a.jpg")); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
