package registry

import (
	"sync"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// Registrar receives app definitions; the window kernel implements it
type Registrar interface {
	RegisterApp(def types.AppDefinition)
}

// Manager holds the installable app catalog: every mini-application the
// dock can launch. Definitions are immutable once registered; identity
// is the ID slug.
type Manager struct {
	mu    sync.RWMutex
	defs  map[string]types.AppDefinition
	order []string
}

// NewManager creates an empty app catalog
func NewManager() *Manager {
	return &Manager{defs: make(map[string]types.AppDefinition)}
}

// Register adds a definition to the catalog. Returns false (and changes
// nothing) when the id is already present.
func (m *Manager) Register(def types.AppDefinition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.defs[def.ID]; exists {
		return false
	}
	m.defs[def.ID] = def
	m.order = append(m.order, def.ID)
	return true
}

// Get retrieves a definition by id
func (m *Manager) Get(id string) (types.AppDefinition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.defs[id]
	return def, ok
}

// List returns all definitions in registration order
func (m *Manager) List() []types.AppDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.AppDefinition, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.defs[id])
	}
	return out
}

// Count returns the catalog size
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.defs)
}

// SetBeforeClose attaches a pre-close hook to a registered app. Hooks
// are runtime values and cannot come from the catalog file.
func (m *Manager) SetBeforeClose(id string, hook types.BeforeCloseFunc) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, ok := m.defs[id]
	if !ok {
		return false
	}
	def.BeforeClose = hook
	m.defs[id] = def
	return true
}

// Apply registers every catalog entry with the given registrar
// (normally the window kernel).
func (m *Manager) Apply(r Registrar) {
	for _, def := range m.List() {
		r.RegisterApp(def)
	}
}
