package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/domain/vfs"
	"github.com/duckos/duckos/backend/internal/infrastructure/tracing"
)

// maxImportBytes bounds archive uploads
const maxImportBytes = 32 << 20

// vfsStatus maps a VFS error to an HTTP status code
func vfsStatus(err error) int {
	switch {
	case errors.Is(err, vfs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, vfs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, vfs.ErrTypeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, vfs.ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) vfsError(c *gin.Context, err error) {
	status := vfsStatus(err)
	if status == http.StatusInternalServerError {
		ctx := c.Request.Context()
		h.log.Error("filesystem operation failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("trace", tracing.FormatTrace(tracing.GetTraceID(ctx), tracing.GetSpanID(ctx))),
		)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// GetNode resolves a path to its node
func (h *Handlers) GetNode(c *gin.Context) {
	node, err := h.fs.GetNodeByPath(c.Request.Context(), c.Query("path"))
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "node": node})
}

// CreateFolder creates a folder at the given path
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	node, err := h.fs.CreateFolder(c.Request.Context(), req.Path)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "node": node})
}

// CreateFile creates a file at the given path
func (h *Handlers) CreateFile(c *gin.Context) {
	var req struct {
		Path    string `json:"path" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	node, err := h.fs.CreateFile(c.Request.Context(), req.Path, req.Content)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "node": node})
}

// ReadFile returns a file's content
func (h *Handlers) ReadFile(c *gin.Context) {
	content, err := h.fs.ReadFile(c.Request.Context(), c.Query("path"))
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "content": content})
}

// WriteFile writes a file, creating it if absent
func (h *Handlers) WriteFile(c *gin.Context) {
	var req struct {
		Path    string `json:"path" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	node, err := h.fs.WriteFile(c.Request.Context(), req.Path, req.Content)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "node": node})
}

// DeleteNode removes a node, recursively for folders
func (h *Handlers) DeleteNode(c *gin.Context) {
	if err := h.fs.DeleteNode(c.Request.Context(), c.Query("path")); err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MoveNode moves a node to a new parent path
func (h *Handlers) MoveNode(c *gin.Context) {
	var req struct {
		Source      string `json:"source" binding:"required"`
		Destination string `json:"destination" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	node, err := h.fs.MoveNode(c.Request.Context(), req.Source, req.Destination)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "node": node})
}

// RenameNode renames a node in place
func (h *Handlers) RenameNode(c *gin.Context) {
	var req struct {
		Path    string `json:"path" binding:"required"`
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request: " + err.Error(),
		})
		return
	}

	node, err := h.fs.RenameNode(c.Request.Context(), req.Path, req.NewName)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "node": node})
}

// ListDirectory lists a folder's children, folders first
func (h *Handlers) ListDirectory(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = "/"
	}

	nodes, err := h.fs.ListDirectory(c.Request.Context(), path)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "nodes": nodes})
}

// GetTree returns the subtree rooted at a path
func (h *Handlers) GetTree(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = "/"
	}

	tree, err := h.fs.GetTree(c.Request.Context(), path)
	if err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tree": tree})
}

// ExportArchive streams a subtree as a zip archive
func (h *Handlers) ExportArchive(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = "/"
	}

	data, err := h.fs.ExportZip(c.Request.Context(), path)
	if err != nil {
		h.vfsError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="duckos-export.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}

// ImportArchive unpacks an uploaded zip archive into a folder
func (h *Handlers) ImportArchive(c *gin.Context) {
	dest := c.Query("dest")
	if dest == "" {
		dest = "/"
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "failed to read archive: " + err.Error(),
		})
		return
	}
	if len(data) > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   "archive too large",
		})
		return
	}

	if err := h.fs.ImportZip(c.Request.Context(), dest, data); err != nil {
		h.vfsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
