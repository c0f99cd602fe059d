package kernel

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
	"github.com/duckos/duckos/backend/internal/infrastructure/monitoring"
	"github.com/duckos/duckos/backend/internal/shared/types"
)

// Manager owns the window/app lifecycle state: registered app
// definitions, open window instances, stacking order and focus. All
// transitions are synchronous and atomic with respect to readers; every
// mutating command is a safe no-op for unknown ids, because UI events
// routinely race with closes.
type Manager struct {
	mu        sync.RWMutex
	booted    bool
	windows   []*types.WindowInstance // creation order, not z-order
	focusedID *string
	apps      map[string]types.AppDefinition
	appOrder  []string
	zCounter  int // >= max z-index of all windows
	windowSeq int // strictly increases on every OpenApp
	viewport  *types.Viewport

	publisher *Publisher
	log       *logging.Logger
	metrics   *monitoring.Metrics
}

// NewManager creates a new window kernel
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Manager{
		apps:      make(map[string]types.AppDefinition),
		zCounter:  1,
		publisher: NewPublisher(),
		log:       log.Component("kernel"),
	}
}

// WithMetrics adds metrics tracking to the kernel
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Events returns the publisher consumers subscribe to
func (m *Manager) Events() *Publisher {
	return m.publisher
}

// Boot marks the shell as booted
func (m *Manager) Boot() {
	m.mu.Lock()
	m.booted = true
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
}

// SetViewport records the visible desktop area used for spawn placement
// and position clamping.
func (m *Manager) SetViewport(vp types.Viewport) {
	m.mu.Lock()
	v := vp
	m.viewport = &v
	m.mu.Unlock()
}

// RegisterApp adds an app definition to the catalog. Registering an
// already-present id is a no-op; definitions are immutable afterward.
func (m *Manager) RegisterApp(def types.AppDefinition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apps[def.ID]; exists {
		return
	}
	m.apps[def.ID] = def
	m.appOrder = append(m.appOrder, def.ID)
}

// App retrieves a registered app definition by id
func (m *Manager) App(id string) (types.AppDefinition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.apps[id]
	return def, ok
}

// Apps returns all registered app definitions in registration order
func (m *Manager) Apps() []types.AppDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	defs := make([]types.AppDefinition, 0, len(m.appOrder))
	for _, id := range m.appOrder {
		defs = append(defs, m.apps[id])
	}
	return defs
}

// OpenApp creates a new window for a registered app, cascades its spawn
// position, and focuses it. An unregistered app id produces no state
// change, only a diagnostic.
func (m *Manager) OpenApp(appID string) (types.WindowInstance, bool) {
	m.mu.Lock()

	def, ok := m.apps[appID]
	if !ok {
		m.mu.Unlock()
		m.log.Warn("open requested for unregistered app", zap.String("app_id", appID))
		m.recordOp("open", "noop")
		return types.WindowInstance{}, false
	}

	m.windowSeq++
	m.zCounter++

	win := &types.WindowInstance{
		ID:       fmt.Sprintf("%s-%d", appID, m.windowSeq),
		AppID:    appID,
		Position: spawnPosition(len(m.windows), def.DefaultSize, m.viewport),
		Size:     def.DefaultSize,
		ZIndex:   m.zCounter,
	}
	m.windows = append(m.windows, win)
	m.focusedID = &win.ID

	opened := *win
	openCount := len(m.windows)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("open", "ok")
	if m.metrics != nil {
		m.metrics.RecordWindowOpened(openCount)
	}
	m.log.Debug("window opened",
		zap.String("window_id", opened.ID),
		zap.Int("z_index", opened.ZIndex))

	return opened, true
}

// CloseWindow removes a window. The pre-close veto hook, if the app has
// one, is the orchestrating layer's business; this command is
// unconditional. Unknown ids are a no-op.
func (m *Manager) CloseWindow(id string) bool {
	m.mu.Lock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		m.recordOp("close", "noop")
		return false
	}

	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	if m.focusedID != nil && *m.focusedID == id {
		m.focusedID = nil
	}

	openCount := len(m.windows)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("close", "ok")
	if m.metrics != nil {
		m.metrics.RecordWindowClosed(openCount)
	}
	return true
}

// FocusWindow brings a window to the front, clears its minimized flag
// and gives it focus. Unknown ids are a no-op.
func (m *Manager) FocusWindow(id string) bool {
	m.mu.Lock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		m.recordOp("focus", "noop")
		return false
	}

	m.zCounter++
	win := m.windows[idx]
	win.ZIndex = m.zCounter
	win.Minimized = false
	m.focusedID = &win.ID

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("focus", "ok")
	return true
}

// MinimizeWindow hides a window; if it held focus, focus is cleared
func (m *Manager) MinimizeWindow(id string) bool {
	m.mu.Lock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		m.recordOp("minimize", "noop")
		return false
	}

	m.windows[idx].Minimized = true
	if m.focusedID != nil && *m.focusedID == id {
		m.focusedID = nil
	}

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("minimize", "ok")
	return true
}

// ToggleMaximizeWindow flips the maximized flag without touching focus
// or stacking order.
func (m *Manager) ToggleMaximizeWindow(id string) bool {
	m.mu.Lock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		m.recordOp("maximize", "noop")
		return false
	}

	m.windows[idx].Maximized = !m.windows[idx].Maximized

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("maximize", "ok")
	return true
}

// UpdateWindowPosition moves a window, clamping the committed position
// so the window stays reachable on screen when the viewport is known.
func (m *Manager) UpdateWindowPosition(id string, pos types.WindowPosition) bool {
	m.mu.Lock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		m.recordOp("move", "noop")
		return false
	}

	win := m.windows[idx]
	if m.viewport != nil {
		pos = clampPosition(pos, win.Size, *m.viewport)
	}
	win.Position = pos

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("move", "ok")
	return true
}

// UpdateWindowSize resizes a window. Sizes are committed as given;
// resize bounds are the caller's responsibility.
func (m *Manager) UpdateWindowSize(id string, size types.WindowSize) bool {
	m.mu.Lock()

	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		m.recordOp("resize", "noop")
		return false
	}

	m.windows[idx].Size = size

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
	m.recordOp("resize", "ok")
	return true
}

// ClearFocus unconditionally clears the focused window
func (m *Manager) ClearFocus() {
	m.mu.Lock()
	m.focusedID = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publisher.Publish(snap)
}

// Window retrieves a copy of a window by id
func (m *Manager) Window(id string) (types.WindowInstance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexLocked(id)
	if idx < 0 {
		return types.WindowInstance{}, false
	}
	return *m.windows[idx], true
}

// Windows returns copies of all windows in creation order
func (m *Manager) Windows() []types.WindowInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.windowsLocked()
}

// FocusedWindowID returns the id of the focused window, or nil
func (m *Manager) FocusedWindowID() *string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.focusedID == nil {
		return nil
	}
	id := *m.focusedID
	return &id
}

// Snapshot returns the full read model
func (m *Manager) Snapshot() types.KernelSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshotLocked()
}

// Stats returns kernel statistics
func (m *Manager) Stats() types.KernelStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var minimized int
	for _, w := range m.windows {
		if w.Minimized {
			minimized++
		}
	}

	var focused *string
	if m.focusedID != nil {
		id := *m.focusedID
		focused = &id
	}

	return types.KernelStats{
		OpenWindows:     len(m.windows),
		MinimizedCount:  minimized,
		RegisteredApps:  len(m.apps),
		FocusedWindowID: focused,
	}
}

// indexLocked finds a window's slice index by id (must hold lock)
func (m *Manager) indexLocked(id string) int {
	for i, w := range m.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// windowsLocked copies the window list (must hold lock)
func (m *Manager) windowsLocked() []types.WindowInstance {
	out := make([]types.WindowInstance, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

// snapshotLocked builds the published read model (must hold lock)
func (m *Manager) snapshotLocked() types.KernelSnapshot {
	var focused *string
	if m.focusedID != nil {
		id := *m.focusedID
		focused = &id
	}
	return types.KernelSnapshot{
		Booted:          m.booted,
		Windows:         m.windowsLocked(),
		FocusedWindowID: focused,
	}
}

func (m *Manager) recordOp(op, outcome string) {
	if m.metrics != nil {
		m.metrics.RecordKernelOp(op, outcome)
	}
}
