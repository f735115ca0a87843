package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/bannermaster/internal/banner"
	"github.com/rmitchellscott/bannermaster/internal/editor"
	"github.com/rmitchellscott/bannermaster/internal/logging"
	"github.com/rmitchellscott/bannermaster/internal/sse"
)

func sessionResponse(id string, s banner.Settings) gin.H {
	return gin.H{"id": id, "settings": s}
}

// CreateSessionHandler opens an editor session. The optional body
// {"settings": {...}} is merged over the defaults.
func (h *Handlers) CreateSessionHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var initial *banner.Settings
	if len(bytes.TrimSpace(body)) > 0 {
		var req struct {
			Settings json.RawMessage `json:"settings"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		if len(req.Settings) > 0 {
			s, err := banner.Merge(banner.Defaults(), req.Settings)
			if err != nil {
				respondError(c, err)
				return
			}
			initial = &s
		}
	}

	session := h.Editor.Create(initial)
	resp := sessionResponse(session.ID, session.Settings())
	resp["preview"] = session.Frame()
	c.JSON(http.StatusCreated, resp)
}

// GetSessionHandler returns the session's current settings
func (h *Handlers) GetSessionHandler(c *gin.Context) {
	session, err := h.Editor.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(session.ID, session.Settings()))
}

// PatchSessionHandler shallow-merges the request body into the settings
func (h *Handlers) PatchSessionHandler(c *gin.Context) {
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	id := c.Param("id")
	settings, err := h.Editor.Apply(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, settings))
}

// DeleteSessionHandler discards a session and stops its timers
func (h *Handlers) DeleteSessionHandler(c *gin.Context) {
	if err := h.Editor.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddBrandColorHandler appends a brand color swatch
func (h *Handlers) AddBrandColorHandler(c *gin.Context) {
	var req struct {
		Color string `json:"color" binding:"required,hexcolor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErrorMessage(err)})
		return
	}
	id := c.Param("id")
	settings, err := h.Editor.AddBrandColor(id, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, settings))
}

// RemoveBrandColorHandler removes a brand color swatch. The color may be
// given with or without the leading '#'.
func (h *Handlers) RemoveBrandColorHandler(c *gin.Context) {
	color := c.Param("color")
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	id := c.Param("id")
	settings, err := h.Editor.RemoveBrandColor(id, color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, settings))
}

// PreviewHandler returns the current preview frame
func (h *Handlers) PreviewHandler(c *gin.Context) {
	session, err := h.Editor.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Frame())
}

// EventsHandler streams preview frames of a session over SSE. The current
// frame is sent first.
func (h *Handlers) EventsHandler(c *gin.Context) {
	session, err := h.Editor.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	client := h.Events.AddClient(session.ID)
	defer h.Events.RemoveClient(client.ID)

	select {
	case client.Events <- sse.Event{Type: editor.EventFrame, Data: session.Frame()}:
	default:
	}

	if err := h.Events.Serve(c.Request.Context(), c.Writer, client); err != nil {
		logging.WarnWithComponent(logging.ComponentSSE, "Event stream ended", "session_id", session.ID, "error", err)
	}
}

// SessionDocumentHandler returns the generated document of a session
func (h *Handlers) SessionDocumentHandler(c *gin.Context) {
	session, err := h.Editor.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	writeDocument(c, session.Settings())
}

// SaveProjectHandler saves the session as the local project
func (h *Handlers) SaveProjectHandler(c *gin.Context) {
	settings, err := h.Editor.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "key": editor.ProjectKey, "settings": settings})
}

// LoadProjectHandler replaces the session settings with the local project
func (h *Handlers) LoadProjectHandler(c *gin.Context) {
	id := c.Param("id")
	settings, err := h.Editor.Load(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, settings))
}
