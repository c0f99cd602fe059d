package store

import (
	"context"
	"sync"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// Memory is an in-process Store engine backed by mutex-guarded maps.
// Nodes are copied on the way in and out so callers can never alias
// stored state.
type Memory struct {
	mu       sync.RWMutex
	nodes    map[string]*types.FileNode
	byParent map[string]map[string]struct{} // parentID -> set of child ids
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		nodes:    make(map[string]*types.FileNode),
		byParent: make(map[string]map[string]struct{}),
	}
}

// Get fetches a node by id
func (m *Memory) Get(ctx context.Context, id string) (*types.FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[id]
	if !ok {
		return nil, ErrNoRecord
	}
	cp := *node
	return &cp, nil
}

// Put upserts a node, maintaining the parent index
func (m *Memory) Put(ctx context.Context, node *types.FileNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.nodes[node.ID]; ok {
		m.unindex(prev)
	}

	cp := *node
	m.nodes[cp.ID] = &cp
	if cp.ParentID != nil {
		set, ok := m.byParent[*cp.ParentID]
		if !ok {
			set = make(map[string]struct{})
			m.byParent[*cp.ParentID] = set
		}
		set[cp.ID] = struct{}{}
	}
	return nil
}

// Delete removes a node by id; absent ids are a no-op
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.nodes[id]; ok {
		m.unindex(prev)
		delete(m.nodes, id)
	}
	return nil
}

// All returns a copy of every stored node
func (m *Memory) All(ctx context.Context) ([]*types.FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.FileNode, 0, len(m.nodes))
	for _, node := range m.nodes {
		cp := *node
		out = append(out, &cp)
	}
	return out, nil
}

// ByParent returns copies of all children of parentID
func (m *Memory) ByParent(ctx context.Context, parentID string) ([]*types.FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byParent[parentID]
	out := make([]*types.FileNode, 0, len(ids))
	for id := range ids {
		if node, ok := m.nodes[id]; ok {
			cp := *node
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Close is a no-op for the memory engine
func (m *Memory) Close() error {
	return nil
}

// unindex removes a node from the parent index (must hold lock)
func (m *Memory) unindex(node *types.FileNode) {
	if node.ParentID == nil {
		return
	}
	if set, ok := m.byParent[*node.ParentID]; ok {
		delete(set, node.ID)
		if len(set) == 0 {
			delete(m.byParent, *node.ParentID)
		}
	}
}
