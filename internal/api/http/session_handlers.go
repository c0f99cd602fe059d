package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SaveSession captures the current workspace
func (h *Handlers) SaveSession(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// Body is optional; an empty save gets a default name.
	_ = c.ShouldBindJSON(&req)

	session, err := h.sessions.Save(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// ListSessions lists saved sessions, newest first
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sessions": sessions,
	})
}

// GetSession loads one saved session
func (h *Handlers) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.vfsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// RestoreSession replaces the workspace with a saved session
func (h *Handlers) RestoreSession(c *gin.Context) {
	session, err := h.sessions.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.vfsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
		"desktop": h.kernel.Snapshot(),
	})
}

// DeleteSession removes a saved session
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.vfsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
