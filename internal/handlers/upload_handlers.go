package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/bannermaster/internal/storage"
)

// UploadHandler stores a logo or background image sent as the multipart
// field named after kind.
func (h *Handlers) UploadHandler(kind storage.UploadKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile(string(kind))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
				respondError(c, storage.ErrTooLarge)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
			return
		}
		if header.Size > h.Uploads.MaxBytes() {
			respondError(c, storage.ErrTooLarge)
			return
		}

		file, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer file.Close()

		upload, err := h.Uploads.Save(c.Request.Context(), kind, header.Filename, file)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"filePath": upload.URL,
		})
	}
}

// ServeUploadHandler serves a stored upload
func (h *Handlers) ServeUploadHandler(c *gin.Context) {
	key := c.Param("key")
	if !storage.AllowedExtension(key) {
		c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		return
	}

	rc, err := h.Uploads.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		respondError(c, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
