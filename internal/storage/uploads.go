package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rmitchellscott/bannermaster/internal/imageprocessing"
	"github.com/rmitchellscott/bannermaster/internal/logging"
)

var (
	// ErrInvalidUpload covers disallowed extensions and undecodable content.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("upload too large")
)

// DefaultMaxUploadBytes is the upload size limit (5 MB).
const DefaultMaxUploadBytes int64 = 5 << 20

// UploadKind names the two upload slots of the editor.
type UploadKind string

const (
	UploadLogo       UploadKind = "logo"
	UploadBackground UploadKind = "background"
)

// allowedExtensions maps accepted extensions to the decoded format they
// must contain.
var allowedExtensions = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".svg":  "svg",
}

// AllowedExtension reports whether name has an accepted image extension.
func AllowedExtension(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Upload is a stored upload.
type Upload struct {
	Kind        UploadKind
	Key         string
	URL         string
	ContentType string
	Size        int64
	Width       int
	Height      int
}

// UploadStore validates and stores editor uploads under generated names.
type UploadStore struct {
	backend   StorageBackendWithInfo
	urlPrefix string
	maxBytes  int64
}

// NewUploadStore creates an upload store. Stored files are served at
// urlPrefix + "/" + key.
func NewUploadStore(backend StorageBackendWithInfo, urlPrefix string, maxBytes int64) *UploadStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadStore{
		backend:   backend,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// MaxBytes returns the size limit.
func (s *UploadStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates the upload and stores it under a fresh name that keeps the
// original extension.
func (s *UploadStore) Save(ctx context.Context, kind UploadKind, filename string, r io.Reader) (Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	wantFormat, ok := allowedExtensions[ext]
	if !ok {
		return Upload{}, fmt.Errorf("%w: only image files are allowed (jpg, jpeg, png, gif, svg)", ErrInvalidUpload)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return Upload{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	if len(data) == 0 {
		return Upload{}, fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}

	info, err := imageprocessing.Inspect(data)
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	if info.Format != wantFormat {
		return Upload{}, fmt.Errorf("%w: %s content does not match extension %s", ErrInvalidUpload, info.Format, ext)
	}

	key := fmt.Sprintf("%s-%s%s", kind, uuid.NewString(), ext)
	if err := s.backend.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return Upload{}, fmt.Errorf("failed to store upload: %w", err)
	}

	logging.InfoWithComponent(logging.ComponentUploads, "Stored upload",
		"kind", kind, "key", key, "size", len(data), "format", info.Format)

	return Upload{
		Kind:        kind,
		Key:         key,
		URL:         s.urlPrefix + "/" + key,
		ContentType: info.ContentType,
		Size:        int64(len(data)),
		Width:       info.Width,
		Height:      info.Height,
	}, nil
}

// Open returns a stored upload by key.
func (s *UploadStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}
