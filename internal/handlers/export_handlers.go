package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/document"
	"github.com/rmitchellscott/bannermaster/internal/imageprocessing"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/rendering"
	"github.com/rmitchellscott/bannermaster/internal/utils"
)

// ExportPNGHandler rasterizes the session's document at 2x. With
// ?palette=brand the image is dithered to the session's brand colors.
func (h *Handlers) ExportPNGHandler(c *gin.Context) {
	session, err := h.Editor.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	s := withAbsoluteAssets(session.Settings(), utils.BaseURL(h.Config.PublicURL, c.Request))

	opts := rendering.DefaultRasterOptions(s.Width, s.Height)
	opts.Scale = imageprocessing.ExportScale
	if h.Config.RasterTimeout > 0 {
		opts.WaitTime = h.Config.RasterTimeout
	}

	capture, err := h.Rasterizer.Rasterize(c.Request.Context(), document.Generate(s), opts)
	if err != nil {
		logging.WarnWithComponent(logging.ComponentExport, "Raster export failed",
			"session_id", session.ID, "backend", h.Rasterizer.Name(), "error", err)
		respondError(c, err)
		return
	}

	export := imageprocessing.ExportOptions{Width: s.Width, Height: s.Height, Scale: opts.Scale}
	if c.Query("palette") == "brand" {
		export.Palette = s.BrandColors
	}
	png, err := imageprocessing.ProcessExport(capture, export)
	if err != nil {
		respondError(c, err)
		return
	}

	logging.InfoWithComponent(logging.ComponentExport, "Exported banner",
		"session_id", session.ID, "width", s.Width, "height", s.Height, "bytes", len(png))
	c.Header("Content-Disposition", `attachment; filename="`+document.PNGFilename(s)+`"`)
	c.Data(http.StatusOK, "image/png", png)
}

// withAbsoluteAssets rewrites relative upload URLs so a rasterizer loading
// the document without a base URL can still fetch them.
func withAbsoluteAssets(s banner.Settings, base *url.URL) banner.Settings {
	s.LogoPath = utils.AbsoluteURL(base, s.LogoPath)
	if s.BackgroundType == banner.BackgroundImage {
		s.BackgroundValue = utils.AbsoluteURL(base, s.BackgroundValue)
	}
	return s
}
