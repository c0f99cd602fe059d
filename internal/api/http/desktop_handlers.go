package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// ListApps lists all registered app definitions
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps": h.kernel.Apps(),
	})
}

// GetDesktop returns the full desktop read model
func (h *Handlers) GetDesktop(c *gin.Context) {
	c.JSON(http.StatusOK, h.kernel.Snapshot())
}

// SetViewport records the client's visible desktop area
func (h *Handlers) SetViewport(c *gin.Context) {
	var req types.Viewport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "viewport dimensions must be positive",
		})
		return
	}

	h.kernel.SetViewport(req)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListWindows lists all open windows
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"windows": h.kernel.Windows(),
		"stats":   h.kernel.Stats(),
	})
}

// OpenWindow opens a new window for a registered app
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req struct {
		AppID string `json:"app_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	win, ok := h.kernel.OpenApp(req.AppID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "app not registered: " + req.AppID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"window":  win,
	})
}

// CloseWindow closes a window. Apps with a pre-close hook get to veto;
// a veto maps to 409 so the client can surface its own confirmation UI
// and retry with force=true.
func (h *Handlers) CloseWindow(c *gin.Context) {
	windowID := c.Param("id")
	force := c.Query("force") == "true"

	win, ok := h.kernel.Window(windowID)
	if ok && !force {
		if def, found := h.kernel.App(win.AppID); found && def.BeforeClose != nil {
			proceed, err := def.BeforeClose(c.Request.Context())
			if err != nil {
				h.log.Warn("pre-close hook failed, closing anyway",
					zap.String("window_id", windowID), zap.Error(err))
			} else if !proceed {
				c.JSON(http.StatusConflict, gin.H{
					"success":   false,
					"window_id": windowID,
					"error":     "close vetoed by app",
				})
				return
			}
		}
	}

	closed := h.kernel.CloseWindow(windowID)
	c.JSON(http.StatusOK, gin.H{
		"success":   closed,
		"window_id": windowID,
	})
}

// FocusWindow brings a window to the foreground
func (h *Handlers) FocusWindow(c *gin.Context) {
	windowID := c.Param("id")
	success := h.kernel.FocusWindow(windowID)

	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"window_id": windowID,
	})
}

// MinimizeWindow hides a window
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	windowID := c.Param("id")
	success := h.kernel.MinimizeWindow(windowID)

	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"window_id": windowID,
	})
}

// MaximizeWindow toggles a window's maximized flag
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	windowID := c.Param("id")
	success := h.kernel.ToggleMaximizeWindow(windowID)

	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"window_id": windowID,
	})
}

// MoveWindow commits a window position
func (h *Handlers) MoveWindow(c *gin.Context) {
	windowID := c.Param("id")

	var req types.WindowPosition
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	success := h.kernel.UpdateWindowPosition(windowID, req)
	win, _ := h.kernel.Window(windowID)

	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"window_id": windowID,
		"position":  win.Position,
	})
}

// ResizeWindow commits a window size
func (h *Handlers) ResizeWindow(c *gin.Context) {
	windowID := c.Param("id")

	var req types.WindowSize
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "window dimensions must be positive",
		})
		return
	}

	success := h.kernel.UpdateWindowSize(windowID, req)
	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"window_id": windowID,
	})
}

// ClearFocus drops window focus (desktop click)
func (h *Handlers) ClearFocus(c *gin.Context) {
	h.kernel.ClearFocus()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
