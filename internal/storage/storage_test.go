package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestFilesystemBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewFilesystemBackend(t.TempDir())

	if err := backend.Put(ctx, "projects/bannerProject.json", strings.NewReader(`{"width":300}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := backend.Get(ctx, "projects/bannerProject.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != `{"width":300}` {
		t.Errorf("data = %q", data)
	}

	files, err := backend.ListWithInfo(ctx, "projects/")
	if err != nil {
		t.Fatalf("ListWithInfo: %v", err)
	}
	if len(files) != 1 || files[0].Key != "projects/bannerProject.json" || files[0].Size != 13 {
		t.Errorf("files = %+v", files)
	}

	if err := backend.Delete(ctx, "projects/bannerProject.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := backend.Get(ctx, "projects/bannerProject.json"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Get after delete err = %v, want ErrObjectNotFound", err)
	}
	if err := backend.Delete(ctx, "projects/bannerProject.json"); err != nil {
		t.Errorf("Delete of missing key should succeed, got %v", err)
	}
}

func TestFilesystemBackendRejectsEscapingKeys(t *testing.T) {
	backend := NewFilesystemBackend(t.TempDir())
	for _, key := range []string{"../outside", "/etc/passwd", "a/../../b", ""} {
		if err := backend.Put(context.Background(), key, strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestUploadStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(NewFilesystemBackend(dir), "/uploads/", 0)

	up, err := store.Save(context.Background(), UploadLogo, "Logo.PNG", bytes.NewReader(pngBytes(t)))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(up.URL, "/uploads/logo-") || !strings.HasSuffix(up.URL, ".png") {
		t.Errorf("URL = %q", up.URL)
	}
	if up.Width != 2 || up.Height != 2 {
		t.Errorf("size = %dx%d", up.Width, up.Height)
	}
	if _, err := os.Stat(filepath.Join(dir, up.Key)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestUploadStoreAcceptsSVG(t *testing.T) {
	store := NewUploadStore(NewFilesystemBackend(t.TempDir()), "/uploads", 0)
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1 1"><rect width="1" height="1"/></svg>`
	up, err := store.Save(context.Background(), UploadBackground, "bg.svg", strings.NewReader(svg))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if up.ContentType != "image/svg+xml" {
		t.Errorf("content type = %q", up.ContentType)
	}
}

func TestUploadStoreRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		max      int64
		want     error
	}{
		{"extension", "notes.txt", []byte("hello"), 0, ErrInvalidUpload},
		{"content mismatch", "fake.png", []byte("GIF89a not really"), 0, ErrInvalidUpload},
		{"empty", "empty.png", nil, 0, ErrInvalidUpload},
		{"too large", "big.png", bytes.Repeat([]byte{1}, 64), 32, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := NewUploadStore(NewFilesystemBackend(dir), "/uploads", tt.max)
			_, err := store.Save(context.Background(), UploadLogo, tt.filename, bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("rejected upload left %d files behind", len(entries))
			}
		})
	}
}

func TestAllowedExtension(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg": true, "a.JPEG": true, "a.png": true, "a.gif": true, "a.svg": true,
		"a.webp": false, "a": false, "a.png.exe": false,
	} {
		if got := AllowedExtension(name); got != want {
			t.Errorf("AllowedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}
