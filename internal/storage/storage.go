package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rmitchellscott/bannermaster/internal/config"
)

// ErrInvalidKey is returned for keys that escape the backend root.
var ErrInvalidKey = errors.New("invalid storage key")

// ErrObjectNotFound is returned by Get for missing keys.
var ErrObjectNotFound = errors.New("object not found")

// FileInfo represents information about a stored file
type FileInfo struct {
	Key  string
	Size int64
}

// StorageBackendWithInfo defines the interface for storage backends
type StorageBackendWithInfo interface {
	Put(ctx context.Context, key string, reader io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	ListWithInfo(ctx context.Context, prefix string) ([]FileInfo, error)
}

// FilesystemBackend implements storage using local filesystem
type FilesystemBackend struct {
	dataDir string
}

// NewFilesystemBackend creates a new filesystem storage backend
func NewFilesystemBackend(dataDir string) *FilesystemBackend {
	return &FilesystemBackend{
		dataDir: dataDir,
	}
}

// Root returns the directory the backend writes under.
func (f *FilesystemBackend) Root() string {
	return f.dataDir
}

func (f *FilesystemBackend) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dataDir, clean), nil
}

// Put stores data in the filesystem. The file is written to a temporary
// name first and renamed into place.
func (f *FilesystemBackend) Put(ctx context.Context, key string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := f.path(key)
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file %s: %w", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", fullPath, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move file into place %s: %w", fullPath, err)
	}

	return nil
}

// Get retrieves data from the filesystem
func (f *FilesystemBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := f.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", fullPath, err)
	}

	return file, nil
}

// Delete removes a file from the filesystem
func (f *FilesystemBackend) Delete(ctx context.Context, key string) error {
	fullPath, err := f.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	return nil
}

// ListWithInfo lists files whose slash-separated key starts with prefix
func (f *FilesystemBackend) ListWithInfo(ctx context.Context, prefix string) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(f.dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(f.dataDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(relPath)
		if strings.HasPrefix(key, prefix) {
			files = append(files, FileInfo{
				Key:  key,
				Size: info.Size(),
			})
		}
		return nil
	})

	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

var (
	backendOnce   sync.Once
	globalBackend StorageBackendWithInfo
)

// GetStorageBackend returns the process-wide backend rooted at DATA_DIR
func GetStorageBackend() StorageBackendWithInfo {
	backendOnce.Do(func() {
		globalBackend = NewFilesystemBackend(config.Get("DATA_DIR", "./data"))
	})
	return globalBackend
}
