package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmitchellscott/bannermaster/internal/config"
	"github.com/rmitchellscott/bannermaster/internal/database"
	"github.com/rmitchellscott/bannermaster/internal/editor"
	"github.com/rmitchellscott/bannermaster/internal/rendering"
	"github.com/rmitchellscott/bannermaster/internal/sse"
	"github.com/rmitchellscott/bannermaster/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRasterizer struct {
	calls int
	last  rendering.RasterOptions
	html  string
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, html string, options rendering.RasterOptions) ([]byte, error) {
	f.calls++
	f.last = options
	f.html = html
	img := image.NewRGBA(image.Rect(0, 0, options.Width*options.Scale, options.Height*options.Scale))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, color.RGBA{0xEE, 0x30, 0x20, 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeRasterizer) Name() string { return "fake" }

func (f *fakeRasterizer) Close() error { return nil }

const testMaxUpload = 64 << 10

type testServer struct {
	router *gin.Engine
	h      *Handlers
}

func newTestServer(t *testing.T, rasterizer rendering.Rasterizer) *testServer {
	t.Helper()

	db, err := database.Open(database.DatabaseConfig{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	events := sse.NewService()
	manager := editor.NewManager(editor.Options{
		Publisher:     events,
		Projects:      editor.NewProjectStore(storage.NewFilesystemBackend(t.TempDir())),
		CycleInterval: time.Hour,
	})
	t.Cleanup(manager.Close)

	h := New(Deps{
		Config: config.App{
			UploadURLPrefix: "/uploads",
			UploadPerMinute: 1000,
			CycleInterval:   1200 * time.Millisecond,
		},
		Banners:    database.NewBannerService(db),
		Editor:     manager,
		Uploads:    storage.NewUploadStore(storage.NewFilesystemBackend(t.TempDir()), "/uploads", testMaxUpload),
		Events:     events,
		Rasterizer: rasterizer,
	})

	r := gin.New()
	h.Register(r)
	return &testServer{router: r, h: h}
}

func (s *testServer) do(method, path string, body []byte, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func (s *testServer) upload(t *testing.T, path, field, filename string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartUpload(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthVersionAndConfig(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", nil).Code)

	w := s.do(http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bannermaster", decode(t, w)["name"])

	w = s.do(http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cfg := decode(t, w)
	assert.Equal(t, float64(1200), cfg["cycleIntervalMs"])
	assert.Equal(t, "bannerProject", cfg["projectKey"])
	assert.Equal(t, "none", cfg["rasterBackend"])
	presets := cfg["presets"].([]interface{})
	require.NotEmpty(t, presets)
	assert.Equal(t, "1", presets[0].(map[string]interface{})["id"])
}

func TestUploadLogoAndServe(t *testing.T) {
	s := newTestServer(t, nil)
	content := pngBytes(t)

	w := s.upload(t, "/api/upload/logo", "logo", "brand.PNG", content)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	filePath := resp["filePath"].(string)
	assert.True(t, strings.HasPrefix(filePath, "/uploads/logo-"))
	assert.True(t, strings.HasSuffix(filePath, ".png"))

	w = s.do(http.MethodGet, filePath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, content, w.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/uploads/logo-missing.png", nil).Code)
}

func TestUploadFailures(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.upload(t, "/api/upload/background", "background", "notes.txt", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "only image files are allowed")

	w = s.upload(t, "/api/upload/background", "wrong-field", "bg.png", pngBytes(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decode(t, w)["message"])

	w = s.upload(t, "/api/upload/background", "background", "bg.png", []byte("not really a png"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "/api/upload/logo", "logo", "huge.png", bytes.Repeat([]byte{0}, testMaxUpload+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "File too large", decode(t, w)["message"])
}

func TestBannerCRUD(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/banners", []byte(`{"name":"sale","settings":{"headingText":"Sale","width":728,"height":90},"createdAt":"2025-10-18T12:00:00Z"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)
	id := int(created["id"].(float64))
	assert.Equal(t, "sale", created["name"])
	assert.Equal(t, "Sale", created["settings"].(map[string]interface{})["headingText"])
	assert.Equal(t, "Poppins", created["settings"].(map[string]interface{})["headingFont"], "missing settings take defaults")

	path := "/api/banners/" + strconv.Itoa(id)
	w = s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, path, []byte(`{"settings":{"subText":"Today only"}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["settings"].(map[string]interface{})
	assert.Equal(t, "Today only", updated["subText"])
	assert.Equal(t, "Sale", updated["headingText"])

	w = s.do(http.MethodGet, "/api/banners", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, nil).Code)
	w = s.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Banner not found", decode(t, w)["message"])
}

func TestBannerRequestValidation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/api/banners", []byte(`{"name":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Banner settings are required", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/banners", []byte(`{"settings":{},"createdAt":"yesterday"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "createdAt must be an RFC 3339 timestamp", decode(t, w)["message"])

	w = s.do(http.MethodPost, "/api/banners", []byte(`{"settings":[1]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/banners/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/banners/99", nil).Code)
}

func TestBannerDocument(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/banners", []byte(`{"settings":{"headingText":"Doc"}}`))
	require.Equal(t, http.StatusOK, w.Code)
	path := "/api/banners/" + strconv.Itoa(int(decode(t, w)["id"].(float64))) + "/document"

	w = s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "<!DOCTYPE html>"))
	assert.Contains(t, w.Body.String(), ">Doc</h1>")
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = s.do(http.MethodGet, path, nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)

	w = s.do(http.MethodGet, path+"?download=1", nil)
	assert.Equal(t, `attachment; filename="banner-300x600.html"`, w.Header().Get("Content-Disposition"))
}

func createSession(t *testing.T, s *testServer, body []byte) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/editor/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Contains(t, resp["preview"].(map[string]interface{})["html"], `id="banner-preview"`)
	return resp["id"].(string)
}

func TestEditorSessionLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s, nil)
	base := "/api/editor/sessions/" + id

	w := s.do(http.MethodPatch, base, []byte(`{"headingText":"Live","showCta":false}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Live", decode(t, w)["settings"].(map[string]interface{})["headingText"])

	w = s.do(http.MethodGet, base+"/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	frame := decode(t, w)
	assert.Equal(t, "Live", frame["heading"])
	assert.NotContains(t, frame["html"], "banner-cta")

	w = s.do(http.MethodGet, base+"/document?download=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ">Live</h1>")
	assert.Equal(t, `attachment; filename="banner-300x600.html"`, w.Header().Get("Content-Disposition"))

	w = s.do(http.MethodPatch, base, []byte(`"not an object"`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, base, nil).Code)
	w = s.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Editor session not found", decode(t, w)["message"])
}

func TestCreateSessionWithInitialSettings(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s, []byte(`{"settings":{"width":728,"height":90}}`))

	w := s.do(http.MethodGet, "/api/editor/sessions/"+id, nil)
	settings := decode(t, w)["settings"].(map[string]interface{})
	assert.Equal(t, float64(728), settings["width"])
	assert.Equal(t, "Poppins", settings["headingFont"])
}

func TestBrandColorRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	base := "/api/editor/sessions/" + createSession(t, s, nil)

	w := s.do(http.MethodPost, base+"/brand-colors", []byte(`{"color":"#123abc"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["settings"].(map[string]interface{})["brandColors"], "#123abc")

	w = s.do(http.MethodPost, base+"/brand-colors", []byte(`{"color":"blue"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "brand color must be a hex color such as #ED2D26", decode(t, w)["message"])

	w = s.do(http.MethodDelete, base+"/brand-colors/%23123ABC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w)["settings"].(map[string]interface{})["brandColors"], "#123abc")

	w = s.do(http.MethodDelete, base+"/brand-colors/ED2D26", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w)["settings"].(map[string]interface{})["brandColors"], "#ED2D26")
}

func TestSaveAndLoadProjectRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	first := "/api/editor/sessions/" + createSession(t, s, nil)

	w := s.do(http.MethodPost, first+"/load", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No saved project", decode(t, w)["message"])

	s.do(http.MethodPatch, first, []byte(`{"headingText":"Saved heading"}`))
	w = s.do(http.MethodPost, first+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bannerProject", decode(t, w)["key"])

	second := "/api/editor/sessions/" + createSession(t, s, nil)
	w = s.do(http.MethodPost, second+"/load", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Saved heading", decode(t, w)["settings"].(map[string]interface{})["headingText"])
}

func TestExportPNG(t *testing.T) {
	raster := &fakeRasterizer{}
	s := newTestServer(t, raster)
	base := "/api/editor/sessions/" + createSession(t, s, []byte(`{"settings":{"width":30,"height":60}}`))

	w := s.do(http.MethodGet, base+"/export.png", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="banner-30x60.png"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, 2, raster.last.Scale)

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	w = s.do(http.MethodGet, base+"/export.png?palette=brand", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, raster.calls)
}

func TestExportPNGResolvesUploadURLs(t *testing.T) {
	raster := &fakeRasterizer{}
	s := newTestServer(t, raster)
	id := createSession(t, s, []byte(`{"settings":{"width":10,"height":10,"logoPath":"/uploads/logo-1.png"}}`))

	w := s.do(http.MethodGet, "/api/editor/sessions/"+id+"/export.png", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, raster.html, `src="http://example.com/uploads/logo-1.png"`)

	w = s.do(http.MethodGet, "/api/editor/sessions/"+id, nil)
	assert.Equal(t, "/uploads/logo-1.png", decode(t, w)["settings"].(map[string]interface{})["logoPath"], "session keeps the relative path")
}

func TestExportPNGWithoutRasterizer(t *testing.T) {
	s := newTestServer(t, nil)
	base := "/api/editor/sessions/" + createSession(t, s, nil)

	w := s.do(http.MethodGet, base+"/export.png", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "PNG export is not available", decode(t, w)["message"])
}

func TestEventsStreamsFrames(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s, nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/editor/sessions/"+id+"/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.router.ServeHTTP(w, req)
	}()

	assert.Eventually(t, func() bool {
		return s.h.Events.GetSessionClientCount(id) == 1
	}, time.Second, time.Millisecond)

	_, err := s.h.Editor.Apply(id, []byte(`{"headingText":"Pushed"}`))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, "event: frame")
	assert.Contains(t, body, `"heading":"Pushed"`)
	assert.Equal(t, 0, s.h.Events.GetSessionClientCount(id))
}

func TestDocumentCacheKeyUsesParsedID(t *testing.T) {
	tests := []struct {
		path  string
		param string
		want  string
	}{
		{"/api/banners/1/document", "1", "/api/banners/1/document"},
		{"/api/banners/01/document", "01", "/api/banners/1/document"},
		{"/api/banners/abc/document", "abc", "/api/banners/abc/document"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.path, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.param}}
			assert.Equal(t, tt.want, documentCacheKey(c))
		})
	}
	assert.Equal(t, "/api/banners/1/document", bannerDocumentPath(1), "invalidation targets the key cached reads use")
}
