package vfs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duckos/duckos/backend/internal/infrastructure/logging"
	"github.com/duckos/duckos/backend/internal/infrastructure/monitoring"
	"github.com/duckos/duckos/backend/internal/shared/id"
	"github.com/duckos/duckos/backend/internal/shared/paths"
	"github.com/duckos/duckos/backend/internal/shared/types"
	"github.com/duckos/duckos/backend/internal/store"
)

// RootID is the well-known id of the VFS root folder
const RootID = "root"

// Service implements the tree-shaped business logic of the virtual file
// system on top of a flat record store: path resolution, sibling name
// uniqueness and cycle avoidance. The storage mechanism itself is the
// store package's concern.
//
// There is no cross-operation locking: two concurrent calls touching the
// same path can both pass their existence checks before either writes.
// That lost-duplicate race is an accepted limitation of the substrate
// contract, not a guaranteed invariant.
type Service struct {
	store   store.Store
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewService creates a VFS service on the given record store
func NewService(st store.Store, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Service{
		store: st,
		log:   log.Component("vfs"),
	}
}

// WithMetrics adds metrics tracking to the service
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// InitFileSystem bootstraps the tree. Idempotent: with an existing root
// it only runs the cycle-repair sweep; otherwise it seeds the default
// layout (home/notes, home/documents, system/settings.json).
func (s *Service) InitFileSystem(ctx context.Context) error {
	done := s.track("init")

	_, err := s.store.Get(ctx, RootID)
	if err == nil {
		fixed, err := s.DetectAndFixCycles(ctx)
		if err != nil {
			return done(err)
		}
		if fixed > 0 {
			s.log.Warn("repaired corrupted tree", zap.Int("reparented_nodes", fixed))
		}
		return done(nil)
	}
	if !errors.Is(err, store.ErrNoRecord) {
		return done(err)
	}

	if err := s.seed(ctx); err != nil {
		return done(err)
	}
	s.log.Info("seeded default file system")
	return done(nil)
}

// seed persists the root and the default folder layout
func (s *Service) seed(ctx context.Context) error {
	now := time.Now()
	root := &types.FileNode{ID: RootID, Name: "", Type: types.NodeFolder, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Put(ctx, root); err != nil {
		return err
	}

	home, err := s.persistNew(ctx, RootID, "home", types.NodeFolder, "")
	if err != nil {
		return err
	}
	if _, err := s.persistNew(ctx, home.ID, "notes", types.NodeFolder, ""); err != nil {
		return err
	}
	if _, err := s.persistNew(ctx, home.ID, "documents", types.NodeFolder, ""); err != nil {
		return err
	}

	system, err := s.persistNew(ctx, RootID, "system", types.NodeFolder, "")
	if err != nil {
		return err
	}
	settings := `{"theme":"pond","wallpaper":"default","dock":{"autohide":false}}`
	if _, err := s.persistNew(ctx, system.ID, "settings.json", types.NodeFile, settings); err != nil {
		return err
	}
	return nil
}

// GetNodeByPath resolves an absolute path to its node
func (s *Service) GetNodeByPath(ctx context.Context, path string) (*types.FileNode, error) {
	done := s.track("resolve")
	node, err := s.resolve(ctx, path)
	return node, doneErr(done, err)
}

// CreateFolder creates a new folder at path. The parent must exist and
// be a folder; a sibling name collision fails with ErrAlreadyExists.
func (s *Service) CreateFolder(ctx context.Context, path string) (*types.FileNode, error) {
	done := s.track("create_folder")
	node, err := s.create(ctx, path, types.NodeFolder, "")
	return node, doneErr(done, err)
}

// CreateFile creates a new file at path with the given content
func (s *Service) CreateFile(ctx context.Context, path, content string) (*types.FileNode, error) {
	done := s.track("create_file")
	node, err := s.create(ctx, path, types.NodeFile, content)
	return node, doneErr(done, err)
}

func (s *Service) create(ctx context.Context, path string, nodeType types.NodeType, content string) (*types.FileNode, error) {
	parent, name, err := s.resolveParent(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	if existing, err := s.childByName(ctx, parent.ID, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, paths.Normalize(path))
	}

	return s.persistNew(ctx, parent.ID, name, nodeType, content)
}

// ReadFile returns a file's content. Fails with ErrNotFound when the
// path does not resolve and ErrTypeMismatch when it names a folder.
func (s *Service) ReadFile(ctx context.Context, path string) (string, error) {
	done := s.track("read")

	node, err := s.resolve(ctx, path)
	if err != nil {
		return "", doneErr(done, err)
	}
	if node.IsFolder() {
		return "", doneErr(done, fmt.Errorf("%w: %s is a folder", ErrTypeMismatch, paths.Normalize(path)))
	}
	done(nil)
	return node.Content, nil
}

// WriteFile overwrites a file's content, transparently creating the
// file when the path does not resolve (write-or-create semantics).
func (s *Service) WriteFile(ctx context.Context, path, content string) (*types.FileNode, error) {
	done := s.track("write")

	node, err := s.resolve(ctx, path)
	if errors.Is(err, ErrNotFound) {
		created, err := s.create(ctx, path, types.NodeFile, content)
		return created, doneErr(done, err)
	}
	if err != nil {
		return nil, doneErr(done, err)
	}
	if node.IsFolder() {
		return nil, doneErr(done, fmt.Errorf("%w: %s is a folder", ErrTypeMismatch, paths.Normalize(path)))
	}

	node.Content = content
	node.UpdatedAt = time.Now()
	if err := s.store.Put(ctx, node); err != nil {
		return nil, doneErr(done, err)
	}
	done(nil)
	return node, nil
}

// DeleteNode removes a node and all its descendants. Descendants are
// deleted depth-first (post-order) so an interrupted delete never leaves
// dangling children; there is no rollback for partial failure.
func (s *Service) DeleteNode(ctx context.Context, path string) error {
	done := s.track("delete")

	node, err := s.resolve(ctx, path)
	if err != nil {
		return doneErr(done, err)
	}
	if node.ID == RootID {
		return doneErr(done, fmt.Errorf("%w: cannot delete root", ErrInvalidOperation))
	}
	return doneErr(done, s.deleteRecursive(ctx, node.ID))
}

func (s *Service) deleteRecursive(ctx context.Context, nodeID string) error {
	children, err := s.store.ByParent(ctx, nodeID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteRecursive(ctx, child.ID); err != nil {
			return err
		}
	}
	return s.store.Delete(ctx, nodeID)
}

// MoveNode moves src to the destination path (destination parent plus
// new name). Moving the root is forbidden, as is moving a folder into
// its own subtree.
func (s *Service) MoveNode(ctx context.Context, src, dst string) (*types.FileNode, error) {
	done := s.track("move")
	node, err := s.move(ctx, src, dst)
	return node, doneErr(done, err)
}

func (s *Service) move(ctx context.Context, src, dst string) (*types.FileNode, error) {
	node, err := s.resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if node.ID == RootID {
		return nil, fmt.Errorf("%w: cannot move root", ErrInvalidOperation)
	}

	destParent, newName, err := s.resolveParent(ctx, dst)
	if err != nil {
		return nil, err
	}
	if err := validateName(newName); err != nil {
		return nil, err
	}

	// A folder must never become its own descendant: walk up from the
	// destination parent and refuse if the moved node appears.
	if node.IsFolder() {
		if err := s.ensureNotDescendant(ctx, node.ID, destParent.ID); err != nil {
			return nil, err
		}
	}

	// Collision check ignores the node being moved so a same-name move
	// (or case-preserving rename) is a permitted no-op.
	if existing, err := s.childByName(ctx, destParent.ID, newName); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != node.ID {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, paths.Normalize(dst))
	}

	node.ParentID = &destParent.ID
	node.Name = newName
	node.UpdatedAt = time.Now()
	if err := s.store.Put(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// RenameNode renames a node in place: a move within the same parent
func (s *Service) RenameNode(ctx context.Context, path, newName string) (*types.FileNode, error) {
	done := s.track("rename")

	node, err := s.resolve(ctx, path)
	if err != nil {
		return nil, doneErr(done, err)
	}
	if node.ID == RootID {
		return nil, doneErr(done, fmt.Errorf("%w: cannot rename root", ErrInvalidOperation))
	}
	// An empty or slash-bearing name would collapse the destination
	// into the parent path and misreport the failure as a collision.
	if err := validateName(newName); err != nil {
		return nil, doneErr(done, err)
	}

	parent, _ := paths.SplitParent(paths.Normalize(path))
	renamed, err := s.move(ctx, path, paths.Join(parent, newName))
	return renamed, doneErr(done, err)
}

// ListDirectory returns a folder's children, folders before files and
// case-sensitive lexicographic by name within each group. Listing a
// file fails with ErrTypeMismatch.
func (s *Service) ListDirectory(ctx context.Context, path string) ([]*types.FileNode, error) {
	done := s.track("list")

	node, err := s.resolve(ctx, path)
	if err != nil {
		return nil, doneErr(done, err)
	}
	if !node.IsFolder() {
		return nil, doneErr(done, fmt.Errorf("%w: %s is not a folder", ErrTypeMismatch, paths.Normalize(path)))
	}

	children, err := s.store.ByParent(ctx, node.ID)
	if err != nil {
		return nil, doneErr(done, err)
	}

	sort.Slice(children, func(i, j int) bool {
		if children[i].IsFolder() != children[j].IsFolder() {
			return children[i].IsFolder()
		}
		return children[i].Name < children[j].Name
	})
	done(nil)
	return children, nil
}

// resolve walks the tree from root, matching one child per path segment
func (s *Service) resolve(ctx context.Context, path string) (*types.FileNode, error) {
	current, err := s.store.Get(ctx, RootID)
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, fmt.Errorf("%w: file system not initialized", ErrNotFound)
		}
		return nil, err
	}

	for _, segment := range paths.Segments(path) {
		child, err := s.childByName(ctx, current.ID, segment)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, paths.Normalize(path))
		}
		current = child
	}
	return current, nil
}

// resolveParent splits off the final segment and resolves the prefix,
// which must be a folder.
func (s *Service) resolveParent(ctx context.Context, path string) (*types.FileNode, string, error) {
	normalized := paths.Normalize(path)
	if normalized == paths.Root {
		return nil, "", fmt.Errorf("%w: root has no parent", ErrInvalidOperation)
	}

	parentPath, name := paths.SplitParent(normalized)
	parent, err := s.resolve(ctx, parentPath)
	if err != nil {
		return nil, "", err
	}
	if !parent.IsFolder() {
		return nil, "", fmt.Errorf("%w: %s is not a folder", ErrTypeMismatch, parentPath)
	}
	return parent, name, nil
}

// childByName scans a folder's children for a name match. Returns
// (nil, nil) when no child matches.
func (s *Service) childByName(ctx context.Context, parentID, name string) (*types.FileNode, error) {
	children, err := s.store.ByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Name == name {
			return child, nil
		}
	}
	return nil, nil
}

// ensureNotDescendant walks the ancestor chain from startID and fails
// if nodeID appears in it. The visited set also stops the walk cold on
// pre-existing parent-chain corruption.
func (s *Service) ensureNotDescendant(ctx context.Context, nodeID, startID string) error {
	visited := make(map[string]bool)
	currentID := startID

	for {
		if currentID == nodeID {
			return fmt.Errorf("%w: cannot move a folder into its own subtree", ErrInvalidOperation)
		}
		if visited[currentID] {
			return nil
		}
		visited[currentID] = true

		current, err := s.store.Get(ctx, currentID)
		if err != nil {
			if errors.Is(err, store.ErrNoRecord) {
				return nil
			}
			return err
		}
		if current.ParentID == nil {
			return nil
		}
		currentID = *current.ParentID
	}
}

// persistNew creates and stores a fresh node under parentID
func (s *Service) persistNew(ctx context.Context, parentID, name string, nodeType types.NodeType, content string) (*types.FileNode, error) {
	now := time.Now()
	node := &types.FileNode{
		ID:        id.NewNodeID().String(),
		Name:      name,
		Type:      nodeType,
		ParentID:  &parentID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidOperation)
	}
	if strings.Contains(name, paths.Separator) {
		return fmt.Errorf("%w: name %q contains a path separator", ErrInvalidOperation, name)
	}
	return nil
}

// track starts a metrics timer for an operation; the returned func
// records the outcome and passes the error through.
func (s *Service) track(op string) func(err error) error {
	start := time.Now()
	return func(err error) error {
		if s.metrics != nil {
			s.metrics.RecordVFSOp(op, time.Since(start))
			if err != nil {
				s.metrics.RecordVFSError(op, errorKind(err))
			}
		}
		return err
	}
}

func doneErr(done func(error) error, err error) error {
	return done(err)
}
