package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/api/http"
	"github.com/duckos/duckos/backend/internal/api/middleware"
	"github.com/duckos/duckos/backend/internal/api/ws"
	"github.com/duckos/duckos/backend/internal/domain/kernel"
	"github.com/duckos/duckos/backend/internal/domain/registry"
	"github.com/duckos/duckos/backend/internal/domain/session"
	"github.com/duckos/duckos/backend/internal/domain/vfs"
	"github.com/duckos/duckos/backend/internal/infrastructure/config"
	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
	"github.com/duckos/duckos/backend/internal/infrastructure/monitoring"
	"github.com/duckos/duckos/backend/internal/infrastructure/tracing"
	"github.com/duckos/duckos/backend/internal/shared/types"
	"github.com/duckos/duckos/backend/internal/store"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	kernel   *kernel.Manager
	fs       *vfs.Service
	sessions *session.Manager
	registry *registry.Manager
	st       store.Store
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	logger.Info("Initializing Duck OS backend",
		zap.String("port", cfg.Server.Port),
		zap.String("store_engine", cfg.Store.Engine),
	)

	// Metrics first, other components take them via WithMetrics
	metrics := monitoring.NewMetrics()

	st, err := openStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Info("Record store ready", zap.String("engine", cfg.Store.Engine))

	fs := vfs.NewService(st, logger).WithMetrics(metrics)
	if err := fs.InitFileSystem(context.Background()); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize file system: %w", err)
	}

	k := kernel.NewManager(logger).WithMetrics(metrics)
	k.SetViewport(types.Viewport{
		Width:  cfg.Desktop.ViewportWidth,
		Height: cfg.Desktop.ViewportHeight,
	})

	appRegistry := registry.NewManager()
	seeder := registry.NewSeeder(appRegistry, logger)
	if _, err := seeder.SeedBuiltins(); err != nil {
		logger.Warn("Failed to seed builtin apps", zap.Error(err))
	}
	appRegistry.Apply(k)
	k.Boot()

	sessionManager := session.NewManager(k, fs, logger).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	tracer := tracing.New("backend", logger.Logger)

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	handlers := http.NewHandlers(k, fs, sessionManager, appRegistry, logger)
	wsHandler := ws.NewHandler(k, logger).WithMetrics(metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Desktop and window management
	router.GET("/desktop", handlers.GetDesktop)
	router.POST("/desktop/viewport", handlers.SetViewport)
	router.POST("/desktop/clear-focus", handlers.ClearFocus)
	router.GET("/apps", handlers.ListApps)
	router.GET("/windows", handlers.ListWindows)
	router.POST("/windows", handlers.OpenWindow)
	router.DELETE("/windows/:id", handlers.CloseWindow)
	router.POST("/windows/:id/focus", handlers.FocusWindow)
	router.POST("/windows/:id/minimize", handlers.MinimizeWindow)
	router.POST("/windows/:id/maximize", handlers.MaximizeWindow)
	router.PATCH("/windows/:id/position", handlers.MoveWindow)
	router.PATCH("/windows/:id/size", handlers.ResizeWindow)

	// Virtual file system
	router.GET("/vfs/node", handlers.GetNode)
	router.GET("/vfs/list", handlers.ListDirectory)
	router.GET("/vfs/tree", handlers.GetTree)
	router.POST("/vfs/folders", handlers.CreateFolder)
	router.POST("/vfs/files", handlers.CreateFile)
	router.GET("/vfs/files", handlers.ReadFile)
	router.PUT("/vfs/files", handlers.WriteFile)
	router.DELETE("/vfs/nodes", handlers.DeleteNode)
	router.POST("/vfs/move", handlers.MoveNode)
	router.POST("/vfs/rename", handlers.RenameNode)
	router.GET("/vfs/export", handlers.ExportArchive)
	router.POST("/vfs/import", handlers.ImportArchive)

	// Sessions
	router.POST("/sessions/save", handlers.SaveSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.POST("/sessions/:id/restore", handlers.RestoreSession)
	router.DELETE("/sessions/:id", handlers.DeleteSession)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		kernel:   k,
		fs:       fs,
		sessions: sessionManager,
		registry: appRegistry,
		st:       st,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if err := s.st.Close(); err != nil {
		s.logger.Error("Failed to close store", zap.Error(err))
		return fmt.Errorf("failed to close store: %w", err)
	}

	s.logger.Sync()
	return nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Engine {
	case "memory":
		return store.NewMemory(), nil
	case "sqlite", "":
		return store.NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store engine %q", cfg.Engine)
	}
}
