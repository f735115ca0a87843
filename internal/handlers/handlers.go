package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/config"
	"github.com/rmitchellscott/bannermaster/internal/database"
	"github.com/rmitchellscott/bannermaster/internal/editor"
	"github.com/rmitchellscott/bannermaster/internal/imageprocessing"
	"github.com/rmitchellscott/bannermaster/internal/middleware"
	"github.com/rmitchellscott/bannermaster/internal/rendering"
	"github.com/rmitchellscott/bannermaster/internal/sse"
	"github.com/rmitchellscott/bannermaster/internal/storage"
	"github.com/rmitchellscott/bannermaster/internal/style"
	"github.com/rmitchellscott/bannermaster/internal/version"
)

// Deps are the services the HTTP handlers call into.
type Deps struct {
	Config     config.App
	Banners    *database.BannerService
	Editor     *editor.Manager
	Uploads    *storage.UploadStore
	Events     *sse.Service
	Rasterizer rendering.Rasterizer
	// Redis backs the document cache. Nil disables caching.
	Redis *redis.Client
}

// Handlers serves the HTTP API.
type Handlers struct {
	Deps
	cache         middleware.CacheConfig
	uploadLimiter *middleware.IPRateLimiter
}

// New creates the API handlers
func New(deps Deps) *Handlers {
	if deps.Rasterizer == nil {
		deps.Rasterizer = rendering.Unavailable()
	}
	cache := middleware.DefaultCacheConfig()
	if deps.Config.DocumentCacheTTL > 0 {
		cache.TTL = deps.Config.DocumentCacheTTL
	}
	return &Handlers{
		Deps:          deps,
		cache:         cache,
		uploadLimiter: middleware.NewIPRateLimiter(deps.Config.UploadPerMinute),
	}
}

// multipartOverhead is the room left for multipart headers on top of the
// upload size limit.
const multipartOverhead = 1 << 20

// Register mounts every route on r.
func (h *Handlers) Register(r *gin.Engine) {
	r.GET("/healthz", HealthHandler)

	prefix := h.Config.UploadURLPrefix
	if prefix == "" {
		prefix = "/uploads"
	}
	r.GET(prefix+"/:key", h.ServeUploadHandler)

	api := r.Group("/api")
	api.GET("/config", h.ConfigHandler)
	api.GET("/version", VersionHandler)

	upload := api.Group("/upload",
		h.uploadLimiter.RateLimit(),
		middleware.RequestSizeLimit(h.Uploads.MaxBytes()+multipartOverhead),
	)
	upload.POST("/logo", h.UploadHandler(storage.UploadLogo))
	upload.POST("/background", h.UploadHandler(storage.UploadBackground))

	banners := api.Group("/banners")
	banners.POST("", h.CreateBannerHandler)
	banners.GET("", h.ListBannersHandler)
	banners.GET("/:id", h.GetBannerHandler)
	banners.PUT("/:id", h.UpdateBannerHandler)
	banners.DELETE("/:id", h.DeleteBannerHandler)
	documentCache := h.cache
	documentCache.PathKey = documentCacheKey
	banners.GET("/:id/document", middleware.Cache(h.Redis, documentCache), h.BannerDocumentHandler)

	sessions := api.Group("/editor/sessions")
	sessions.POST("", h.CreateSessionHandler)
	sessions.GET("/:id", h.GetSessionHandler)
	sessions.PATCH("/:id", h.PatchSessionHandler)
	sessions.DELETE("/:id", h.DeleteSessionHandler)
	sessions.POST("/:id/brand-colors", h.AddBrandColorHandler)
	sessions.DELETE("/:id/brand-colors/:color", h.RemoveBrandColorHandler)
	sessions.GET("/:id/preview", h.PreviewHandler)
	sessions.GET("/:id/events", h.EventsHandler)
	sessions.GET("/:id/document", h.SessionDocumentHandler)
	sessions.GET("/:id/export.png", h.ExportPNGHandler)
	sessions.POST("/:id/save", h.SaveProjectHandler)
	sessions.POST("/:id/load", h.LoadProjectHandler)
}

// HealthHandler reports liveness
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// VersionHandler returns build metadata
func VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

// ConfigHandler returns application configuration for the frontend
func (h *Handlers) ConfigHandler(c *gin.Context) {
	presets := make([]gin.H, 0, len(style.Presets()))
	for _, p := range style.Presets() {
		presets = append(presets, gin.H{
			"id":       p.ID,
			"name":     p.Name,
			"gradient": p.Gradient(),
			"duration": p.DurationCSS(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"defaults":        banner.Defaults(),
		"presets":         presets,
		"cycleIntervalMs": h.Config.CycleInterval.Milliseconds(),
		"uploadMaxBytes":  h.Uploads.MaxBytes(),
		"uploadUrlPrefix": h.Config.UploadURLPrefix,
		"rasterBackend":   h.Rasterizer.Name(),
		"exportScale":     imageprocessing.ExportScale,
		"projectKey":      editor.ProjectKey,
	})
}
