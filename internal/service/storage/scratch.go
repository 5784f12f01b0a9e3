package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"anonymizer/internal/blob"
	"anonymizer/internal/config"
	"anonymizer/internal/logger"
)

const (
	// OriginalImageName is the scratch file the source object is downloaded to.
	OriginalImageName = "original-image"
	// FilteredImageName is the scratch file the anonymized image is encoded to.
	FilteredImageName = "filtered-image"
	// DefaultExtension is used when the object key has no encodable extension.
	DefaultExtension = ".jpg"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
	".webp": true, ".tif": true, ".tiff": true,
}

// ScratchService moves objects between a blob store and local scratch files.
type ScratchService struct {
	dir    string
	store  blob.Store
	logger *logger.Logger
}

// NewScratchService creates a ScratchService rooted at the configured scratch directory.
func NewScratchService(config *config.Config, logger *logger.Logger, store blob.Store) *ScratchService {
	return &ScratchService{
		dir:    config.ScratchDirectory,
		store:  store,
		logger: logger,
	}
}

// Workspace is the scratch directory of a single invocation.
type Workspace struct {
	Dir string
}

// Open creates the scratch directory for invocation id.
func (s *ScratchService) Open(id string) (*Workspace, error) {
	dir := filepath.Join(s.dir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.Dir)
}

// OriginalPath is where the source object is downloaded to.
func (w *Workspace) OriginalPath(src blob.Locator) string {
	return filepath.Join(w.Dir, OriginalImageName+Extension(src))
}

// FilteredPath is where the anonymized image is encoded to.
func (w *Workspace) FilteredPath(dst blob.Locator) string {
	return filepath.Join(w.Dir, FilteredImageName+Extension(dst))
}

// IsImageExtension reports whether ext (with dot, any case) can be decoded and encoded.
func IsImageExtension(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// Extension returns the lower-cased image extension of the object key, or
// DefaultExtension when the key has none that can be encoded.
func Extension(loc blob.Locator) string {
	ext := path.Ext(loc.Key())
	if IsImageExtension(ext) {
		return strings.ToLower(ext)
	}
	return DefaultExtension
}

// Fetch downloads src into the workspace and returns the local path.
func (s *ScratchService) Fetch(ctx context.Context, ws *Workspace, src blob.Locator) (string, error) {
	localPath := ws.OriginalPath(src)
	s.logger.Debug("Downloading %s to %s", src, localPath)

	if err := s.store.Download(ctx, src, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

// Store uploads the file at localPath to dst.
func (s *ScratchService) Store(ctx context.Context, localPath string, dst blob.Locator) error {
	s.logger.Debug("Uploading %s to %s", localPath, dst)
	return s.store.Upload(ctx, localPath, dst)
}
