package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/database"
	"github.com/rmitchellscott/bannermaster/internal/editor"
	"github.com/rmitchellscott/bannermaster/internal/imageprocessing"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/rendering"
	"github.com/rmitchellscott/bannermaster/internal/storage"
)

// validationErrorMessage returns a user-friendly validation error message.
func validationErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			switch ve.Field() {
			case "Settings":
				if ve.Tag() == "required" {
					return "Banner settings are required"
				}
			case "Name":
				if ve.Tag() == "max" {
					return "Banner name must be at most 255 characters"
				}
			case "CreatedAt":
				if ve.Tag() == "datetime" {
					return "createdAt must be an RFC 3339 timestamp"
				}
			case "Color":
				switch ve.Tag() {
				case "required":
					return "Color is required"
				case "hexcolor":
					return banner.ErrInvalidColor.Error()
				}
			}
		}
	}
	return "Invalid request"
}

// respondError maps service errors to status codes and writes the
// {"message": ...} body.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, database.ErrNotFound):
		status, message = http.StatusNotFound, "Banner not found"
	case errors.Is(err, editor.ErrSessionNotFound):
		status, message = http.StatusNotFound, "Editor session not found"
	case errors.Is(err, editor.ErrNoSavedProject):
		status, message = http.StatusNotFound, "No saved project"
	case errors.Is(err, editor.ErrProjectsDisabled):
		status, message = http.StatusServiceUnavailable, "Project storage is not configured"
	case errors.Is(err, banner.ErrInvalidPatch), errors.Is(err, banner.ErrInvalidColor):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrTooLarge), errors.As(err, &maxErr):
		status, message = http.StatusRequestEntityTooLarge, "File too large"
	case errors.Is(err, storage.ErrInvalidUpload):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, imageprocessing.ErrPaletteTooSmall):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, rendering.ErrRasterizerUnavailable):
		status, message = http.StatusServiceUnavailable, "PNG export is not available"
	}

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logging.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"message": message})
}

func parseBannerID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid banner ID"})
		return 0, false
	}
	return uint(id), true
}
