package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duckos/duckos/backend/internal/domain/kernel"
	"github.com/duckos/duckos/backend/internal/domain/registry"
	"github.com/duckos/duckos/backend/internal/domain/session"
	"github.com/duckos/duckos/backend/internal/domain/vfs"
	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	kernel   *kernel.Manager
	fs       *vfs.Service
	sessions *session.Manager
	registry *registry.Manager
	log      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	k *kernel.Manager,
	fs *vfs.Service,
	sessions *session.Manager,
	reg *registry.Manager,
	log *logging.Logger,
) *Handlers {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Handlers{
		kernel:   k,
		fs:       fs,
		sessions: sessions,
		registry: reg,
		log:      log.Component("http"),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Duck OS Backend",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"kernel": h.kernel.Stats(),
		"apps":   gin.H{"registered": h.registry.Count()},
	})
}
