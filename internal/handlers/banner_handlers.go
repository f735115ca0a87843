package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/document"
	"github.com/rmitchellscott/bannermaster/internal/middleware"
)

// CreateBannerHandler stores a banner configuration
func (h *Handlers) CreateBannerHandler(c *gin.Context) {
	var req struct {
		Name      string          `json:"name" binding:"max=255"`
		Settings  json.RawMessage `json:"settings" binding:"required"`
		CreatedAt string          `json:"createdAt" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErrorMessage(err)})
		return
	}

	settings, err := banner.Merge(banner.Defaults(), req.Settings)
	if err != nil {
		respondError(c, err)
		return
	}

	var createdAt time.Time
	if req.CreatedAt != "" {
		createdAt, _ = time.Parse(time.RFC3339, req.CreatedAt)
	}

	record, err := h.Banners.CreateBanner(c.Request.Context(), req.Name, settings, createdAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ListBannersHandler returns every stored banner
func (h *Handlers) ListBannersHandler(c *gin.Context) {
	records, err := h.Banners.ListBanners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetBannerHandler returns one stored banner
func (h *Handlers) GetBannerHandler(c *gin.Context) {
	id, ok := parseBannerID(c)
	if !ok {
		return
	}
	record, err := h.Banners.GetBanner(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateBannerHandler renames a banner and shallow-merges a settings patch
func (h *Handlers) UpdateBannerHandler(c *gin.Context) {
	id, ok := parseBannerID(c)
	if !ok {
		return
	}

	var req struct {
		Name     *string         `json:"name" binding:"omitempty,max=255"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErrorMessage(err)})
		return
	}

	record, err := h.Banners.UpdateBanner(c.Request.Context(), id, req.Name, req.Settings)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidateDocument(c, id)
	c.JSON(http.StatusOK, record)
}

// DeleteBannerHandler removes a stored banner
func (h *Handlers) DeleteBannerHandler(c *gin.Context) {
	id, ok := parseBannerID(c)
	if !ok {
		return
	}
	if err := h.Banners.DeleteBanner(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.invalidateDocument(c, id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BannerDocumentHandler returns the generated document of a stored banner
func (h *Handlers) BannerDocumentHandler(c *gin.Context) {
	id, ok := parseBannerID(c)
	if !ok {
		return
	}
	record, err := h.Banners.GetBanner(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	writeDocument(c, record.Settings.Data())
}

func (h *Handlers) invalidateDocument(c *gin.Context, id uint) {
	middleware.InvalidatePath(c.Request.Context(), h.Redis, h.cache, bannerDocumentPath(id))
}

func bannerDocumentPath(id uint) string {
	return "/api/banners/" + strconv.FormatUint(uint64(id), 10) + "/document"
}

// documentCacheKey keys cached documents by the parsed banner id, so
// "/api/banners/01/document" and "/api/banners/1/document" share an entry.
func documentCacheKey(c *gin.Context) string {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Request.URL.Path
	}
	return bannerDocumentPath(uint(id))
}

// writeDocument sends the document for s, as an attachment when the request
// asks for ?download=1.
func writeDocument(c *gin.Context, s banner.Settings) {
	body := []byte(document.Generate(s))
	if middleware.NotModified(c, middleware.ETag(body)) {
		return
	}
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", `attachment; filename="`+document.Filename(s)+`"`)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
