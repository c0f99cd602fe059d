package vfs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/shared/paths"
	"github.com/duckos/duckos/backend/internal/shared/types"
	"github.com/duckos/duckos/backend/internal/store"
)

// GetPathForNode reconstructs a node's absolute path by walking its
// ancestor chain up to the root.
func (s *Service) GetPathForNode(ctx context.Context, nodeID string) (string, error) {
	done := s.track("path_for_node")

	var segments []string
	visited := make(map[string]bool)
	currentID := nodeID

	for currentID != RootID {
		if visited[currentID] {
			return "", doneErr(done, fmt.Errorf("%w: ancestor chain of %s loops", ErrInvalidOperation, nodeID))
		}
		visited[currentID] = true

		node, err := s.store.Get(ctx, currentID)
		if err != nil {
			if errors.Is(err, store.ErrNoRecord) {
				return "", doneErr(done, fmt.Errorf("%w: node %s", ErrNotFound, currentID))
			}
			return "", doneErr(done, err)
		}
		segments = append([]string{node.Name}, segments...)

		if node.ParentID == nil {
			break
		}
		currentID = *node.ParentID
	}

	path := paths.Root
	for _, seg := range segments {
		path = paths.Join(path, seg)
	}
	done(nil)
	return path, nil
}

// GetTree builds the recursive folder tree rooted at path. A visited
// set guards the descent: a node id reappearing in its own subtree
// terminates that branch instead of looping forever. This read-time
// defense is independent of the write-time ancestor check in MoveNode —
// it tolerates corruption already persisted by an earlier bug or crash.
func (s *Service) GetTree(ctx context.Context, path string) (*types.TreeNode, error) {
	done := s.track("tree")

	node, err := s.resolve(ctx, path)
	if err != nil {
		return nil, doneErr(done, err)
	}

	tree, err := s.buildTree(ctx, node, map[string]bool{})
	return tree, doneErr(done, err)
}

func (s *Service) buildTree(ctx context.Context, node *types.FileNode, visited map[string]bool) (*types.TreeNode, error) {
	if visited[node.ID] {
		return nil, nil
	}
	visited[node.ID] = true

	tree := &types.TreeNode{FileNode: *node}
	if !node.IsFolder() {
		return tree, nil
	}

	children, err := s.store.ByParent(ctx, node.ID)
	if err != nil {
		return nil, err
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].IsFolder() != children[j].IsFolder() {
			return children[i].IsFolder()
		}
		return children[i].Name < children[j].Name
	})

	for _, child := range children {
		sub, err := s.buildTree(ctx, child, visited)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			tree.Children = append(tree.Children, sub)
		}
	}
	return tree, nil
}

// DetectAndFixCycles sweeps every stored node, walking its ancestor
// chain; any node that reaches itself is forcibly reparented to root.
// Returns the number of nodes repaired. The sweep keeps the tree a tree
// even after corrupt data was persisted by an earlier bug or crash.
func (s *Service) DetectAndFixCycles(ctx context.Context) (int, error) {
	nodes, err := s.store.All(ctx)
	if err != nil {
		return 0, err
	}

	byID := make(map[string]*types.FileNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	fixed := 0
	for _, node := range nodes {
		if node.ID == RootID || node.ParentID == nil {
			continue
		}

		if !s.reachesRoot(node, byID) {
			rootID := RootID
			node.ParentID = &rootID
			node.UpdatedAt = time.Now()
			if err := s.store.Put(ctx, node); err != nil {
				return fixed, err
			}
			byID[node.ID] = node
			fixed++
			s.log.Warn("reparented node out of a cycle", zap.String("node_id", node.ID), zap.String("name", node.Name))
		}
	}
	return fixed, nil
}

// reachesRoot reports whether a node's ancestor chain terminates at
// root without revisiting any node.
func (s *Service) reachesRoot(node *types.FileNode, byID map[string]*types.FileNode) bool {
	visited := map[string]bool{node.ID: true}
	current := node

	for current.ParentID != nil {
		parentID := *current.ParentID
		if parentID == RootID {
			return true
		}
		if visited[parentID] {
			return false
		}
		visited[parentID] = true

		parent, ok := byID[parentID]
		if !ok {
			// Dangling parent pointer: treated as detached, reparent
			return false
		}
		current = parent
	}
	return current.ID == RootID
}
