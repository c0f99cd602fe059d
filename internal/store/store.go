package store

import (
	"context"
	"errors"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// ErrNoRecord is returned when a record is absent from the store
var ErrNoRecord = errors.New("record not found")

// Store is the asynchronous record substrate the VFS runs on. It is a
// plain indexed key-value contract: get by id, upsert, delete by id,
// get all, and get all by the parent-id secondary index. Any engine
// offering these five operations suffices; the tree-shaped business
// logic lives entirely in the vfs package.
type Store interface {
	// Get fetches a node by id. Returns ErrNoRecord when absent.
	Get(ctx context.Context, id string) (*types.FileNode, error)

	// Put upserts a node keyed by its ID.
	Put(ctx context.Context, node *types.FileNode) error

	// Delete removes a node by id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// All returns every node in the store, in no particular order.
	All(ctx context.Context) ([]*types.FileNode, error)

	// ByParent returns all nodes whose ParentID equals parentID.
	ByParent(ctx context.Context, parentID string) ([]*types.FileNode, error)

	// Close releases engine resources.
	Close() error
}
