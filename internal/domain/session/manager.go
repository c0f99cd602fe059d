package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/domain/vfs"
	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
	"github.com/duckos/duckos/backend/internal/infrastructure/monitoring"
	"github.com/duckos/duckos/backend/internal/shared/id"
	"github.com/duckos/duckos/backend/internal/shared/paths"
	"github.com/duckos/duckos/backend/internal/shared/types"
)

// SessionsDir is where session documents live in the VFS
const SessionsDir = "/system/sessions"

// Kernel is the window kernel surface the session manager needs
type Kernel interface {
	Windows() []types.WindowInstance
	FocusedWindowID() *string
	OpenApp(appID string) (types.WindowInstance, bool)
	CloseWindow(id string) bool
	FocusWindow(id string) bool
	MinimizeWindow(id string) bool
	ToggleMaximizeWindow(id string) bool
	UpdateWindowPosition(id string, pos types.WindowPosition) bool
	UpdateWindowSize(id string, size types.WindowSize) bool
	ClearFocus()
}

// FileSystem is the VFS surface the session manager needs
type FileSystem interface {
	CreateFolder(ctx context.Context, path string) (*types.FileNode, error)
	WriteFile(ctx context.Context, path, content string) (*types.FileNode, error)
	ReadFile(ctx context.Context, path string) (string, error)
	ListDirectory(ctx context.Context, path string) ([]*types.FileNode, error)
	DeleteNode(ctx context.Context, path string) error
}

// Manager captures and restores workspace sessions: every open window's
// geometry, stacking order, flags and focus. Sessions are stored as
// JSON documents in the VFS, which keeps the kernel itself decoupled
// from persistence.
type Manager struct {
	kernel  Kernel
	fs      FileSystem
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates a session manager
func NewManager(kernel Kernel, fs FileSystem, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Manager{kernel: kernel, fs: fs, log: log.Component("session")}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Save captures the current workspace under the given name
func (m *Manager) Save(ctx context.Context, name string) (*types.Session, error) {
	if name == "" {
		name = "Untitled Session"
	}

	// Capture kernel state before any awaits; it may drift afterward.
	windows := m.kernel.Windows()
	focused := m.kernel.FocusedWindowID()

	snapshots := make([]types.WindowSnapshot, 0, len(windows))
	for _, w := range windows {
		snapshots = append(snapshots, types.WindowSnapshot{
			AppID:     w.AppID,
			Position:  w.Position,
			Size:      w.Size,
			ZIndex:    w.ZIndex,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Focused:   focused != nil && *focused == w.ID,
		})
	}

	now := time.Now()
	session := &types.Session{
		ID:        id.NewSessionID().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Windows:   snapshots,
	}

	if err := m.persist(ctx, session); err != nil {
		return nil, err
	}

	if m.metrics != nil {
		m.metrics.SessionsSaved.Inc()
	}
	m.log.Info("session saved",
		zap.String("session_id", session.ID),
		zap.Int("windows", len(snapshots)))
	return session, nil
}

// Get loads a session by id
func (m *Manager) Get(ctx context.Context, sessionID string) (*types.Session, error) {
	doc, err := m.fs.ReadFile(ctx, m.sessionPath(sessionID))
	if err != nil {
		return nil, err
	}

	var session types.Session
	if err := sonic.Unmarshal([]byte(doc), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &session, nil
}

// List returns metadata for every saved session, newest first
func (m *Manager) List(ctx context.Context) ([]types.SessionMetadata, error) {
	entries, err := m.fs.ListDirectory(ctx, SessionsDir)
	if err != nil {
		if errors.Is(err, vfs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]types.SessionMetadata, 0, len(entries))
	for _, entry := range entries {
		if entry.IsFolder() || !strings.HasSuffix(entry.Name, ".json") {
			continue
		}
		var session types.Session
		if err := sonic.Unmarshal([]byte(entry.Content), &session); err != nil {
			m.log.Warn("skipping unreadable session document", zap.String("name", entry.Name))
			continue
		}
		out = append(out, session.ToMetadata())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes a saved session
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.fs.DeleteNode(ctx, m.sessionPath(sessionID))
}

// Restore replaces the current workspace with a saved session: every
// open window is closed, then the saved windows are reopened in their
// original stacking order with their saved geometry.
func (m *Manager) Restore(ctx context.Context, sessionID string) (*types.Session, error) {
	session, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Re-read the live window list: it may have changed while the
	// session document was being loaded.
	for _, w := range m.kernel.Windows() {
		m.kernel.CloseWindow(w.ID)
	}

	ordered := make([]types.WindowSnapshot, len(session.Windows))
	copy(ordered, session.Windows)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})

	var focusID string
	for _, snap := range ordered {
		win, ok := m.kernel.OpenApp(snap.AppID)
		if !ok {
			m.log.Warn("session references unregistered app", zap.String("app_id", snap.AppID))
			continue
		}
		m.kernel.UpdateWindowPosition(win.ID, snap.Position)
		m.kernel.UpdateWindowSize(win.ID, snap.Size)
		if snap.Maximized {
			m.kernel.ToggleMaximizeWindow(win.ID)
		}
		if snap.Minimized {
			m.kernel.MinimizeWindow(win.ID)
		}
		if snap.Focused {
			focusID = win.ID
		}
	}

	if focusID != "" {
		m.kernel.FocusWindow(focusID)
	} else {
		m.kernel.ClearFocus()
	}

	if m.metrics != nil {
		m.metrics.SessionsRestored.Inc()
	}
	m.log.Info("session restored",
		zap.String("session_id", session.ID),
		zap.Int("windows", len(ordered)))
	return session, nil
}

func (m *Manager) persist(ctx context.Context, session *types.Session) error {
	if _, err := m.fs.CreateFolder(ctx, SessionsDir); err != nil && !errors.Is(err, vfs.ErrAlreadyExists) {
		return err
	}

	doc, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err = m.fs.WriteFile(ctx, m.sessionPath(session.ID), string(doc))
	return err
}

func (m *Manager) sessionPath(sessionID string) string {
	return paths.Join(SessionsDir, sessionID+".json")
}
