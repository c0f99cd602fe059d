package vfs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duckos/duckos/backend/internal/shared/types"
	"github.com/duckos/duckos/backend/internal/store"
)

func newTestVFS(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemory()
	svc := NewService(st, nil)
	if err := svc.InitFileSystem(context.Background()); err != nil {
		t.Fatalf("InitFileSystem failed: %v", err)
	}
	return svc, st
}

func TestInitSeedsDefaultTree(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	for _, path := range []string{"/home", "/home/notes", "/home/documents", "/system"} {
		node, err := svc.GetNodeByPath(ctx, path)
		if err != nil {
			t.Fatalf("%s should exist after init: %v", path, err)
		}
		if !node.IsFolder() {
			t.Errorf("%s should be a folder", path)
		}
	}

	content, err := svc.ReadFile(ctx, "/system/settings.json")
	if err != nil || content == "" {
		t.Errorf("settings file should be seeded, got %q, %v", content, err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	svc, st := newTestVFS(t)
	ctx := context.Background()

	before, _ := st.All(ctx)
	if err := svc.InitFileSystem(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	after, _ := st.All(ctx)

	if len(before) != len(after) {
		t.Errorf("second init changed node count: %d -> %d", len(before), len(after))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	const content = "quack quack\nline two"
	if _, err := svc.WriteFile(ctx, "/home/notes/a.txt", content); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := svc.ReadFile(ctx, "/home/notes/a.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != content {
		t.Errorf("round trip mismatch: %q != %q", got, content)
	}
}

func TestCreateDuplicateThenWrite(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	if _, err := svc.CreateFile(ctx, "/home/notes/a.txt", "hi"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateFile(ctx, "/home/notes/a.txt", "x")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second create should fail with already-exists, got %v", err)
	}

	if _, err := svc.WriteFile(ctx, "/home/notes/a.txt", "x"); err != nil {
		t.Fatalf("WriteFile should overwrite: %v", err)
	}
	got, _ := svc.ReadFile(ctx, "/home/notes/a.txt")
	if got != "x" {
		t.Errorf("content should be overwritten, got %q", got)
	}
}

func TestWriteFileUpdatesTimestamp(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	created, _ := svc.CreateFile(ctx, "/home/a.txt", "v1")
	time.Sleep(5 * time.Millisecond)
	updated, _ := svc.WriteFile(ctx, "/home/a.txt", "v2")

	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("write should advance UpdatedAt")
	}
	if updated.ID != created.ID {
		t.Error("write must not replace the node")
	}
}

func TestReadErrors(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	if _, err := svc.ReadFile(ctx, "/home/ghost.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing path should be not-found, got %v", err)
	}
	if _, err := svc.ReadFile(ctx, "/home/notes"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("reading a folder should be type-mismatch, got %v", err)
	}
}

func TestCreateUnderMissingOrFileParent(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	if _, err := svc.CreateFile(ctx, "/nowhere/a.txt", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing parent should be not-found, got %v", err)
	}

	svc.CreateFile(ctx, "/home/plain.txt", "x")
	if _, err := svc.CreateFile(ctx, "/home/plain.txt/child.txt", "x"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("file parent should be type-mismatch, got %v", err)
	}
}

func TestPathNormalization(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/notes/a.txt", "hi")

	got, err := svc.ReadFile(ctx, "//home//notes/a.txt/")
	if err != nil || got != "hi" {
		t.Errorf("denormalized path should resolve, got %q, %v", got, err)
	}
}

func TestDeleteRecursive(t *testing.T) {
	svc, st := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFolder(ctx, "/x")
	svc.CreateFolder(ctx, "/x/sub")
	svc.CreateFile(ctx, "/x/top.txt", "1")
	svc.CreateFile(ctx, "/x/sub/deep.txt", "2")

	countBefore := nodeCount(t, st)

	if err := svc.DeleteNode(ctx, "/x"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}

	for _, path := range []string{"/x", "/x/sub", "/x/top.txt", "/x/sub/deep.txt"} {
		if _, err := svc.GetNodeByPath(ctx, path); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s should be gone, got %v", path, err)
		}
	}
	if got := nodeCount(t, st); got != countBefore-4 {
		t.Errorf("expected %d nodes after delete, got %d", countBefore-4, got)
	}
}

func TestDeleteRootForbidden(t *testing.T) {
	svc, _ := newTestVFS(t)

	err := svc.DeleteNode(context.Background(), "/")
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("deleting root should be invalid-operation, got %v", err)
	}
}

func TestMoveIntoOwnSubtreeForbidden(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFolder(ctx, "/a")
	svc.CreateFolder(ctx, "/a/b")

	_, err := svc.MoveNode(ctx, "/a", "/a/b/a")
	if !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("cycle-introducing move should fail, got %v", err)
	}

	// Tree unchanged
	if _, err := svc.GetNodeByPath(ctx, "/a/b"); err != nil {
		t.Errorf("tree should be unchanged after rejected move: %v", err)
	}
	node, _ := svc.GetNodeByPath(ctx, "/a")
	if node.ParentID == nil || *node.ParentID != RootID {
		t.Error("/a should still hang off root")
	}
}

func TestMoveAndRename(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/notes/a.txt", "hi")

	if _, err := svc.MoveNode(ctx, "/home/notes/a.txt", "/home/documents/b.txt"); err != nil {
		t.Fatalf("MoveNode failed: %v", err)
	}
	if got, _ := svc.ReadFile(ctx, "/home/documents/b.txt"); got != "hi" {
		t.Error("moved file should keep content")
	}
	if _, err := svc.GetNodeByPath(ctx, "/home/notes/a.txt"); !errors.Is(err, ErrNotFound) {
		t.Error("old path should be gone")
	}

	if _, err := svc.RenameNode(ctx, "/home/documents/b.txt", "c.txt"); err != nil {
		t.Fatalf("RenameNode failed: %v", err)
	}
	if got, _ := svc.ReadFile(ctx, "/home/documents/c.txt"); got != "hi" {
		t.Error("renamed file should keep content")
	}
}

func TestMoveCollision(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/a.txt", "1")
	svc.CreateFile(ctx, "/home/b.txt", "2")

	if _, err := svc.MoveNode(ctx, "/home/a.txt", "/home/b.txt"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("colliding move should fail, got %v", err)
	}
}

func TestRenameToSelfIsNoop(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/a.txt", "1")

	// The collision check excludes the node itself
	if _, err := svc.RenameNode(ctx, "/home/a.txt", "a.txt"); err != nil {
		t.Errorf("same-name rename should be a permitted no-op, got %v", err)
	}
}

func TestRenameRejectsBadNames(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/a.txt", "1")

	if _, err := svc.RenameNode(ctx, "/home/a.txt", ""); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("empty name should be invalid-operation, got %v", err)
	}
	if _, err := svc.RenameNode(ctx, "/home/a.txt", "b/c.txt"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("name with separator should be invalid-operation, got %v", err)
	}
	if got, _ := svc.ReadFile(ctx, "/home/a.txt"); got != "1" {
		t.Error("failed rename must leave the node untouched")
	}
}

func TestRenameRootForbidden(t *testing.T) {
	svc, _ := newTestVFS(t)

	if _, err := svc.RenameNode(context.Background(), "/", "newroot"); !errors.Is(err, ErrInvalidOperation) {
		t.Error("renaming root should be invalid-operation")
	}
}

func TestListDirectoryOrdering(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/notes/zebra.txt", "")
	svc.CreateFile(ctx, "/home/notes/apple.txt", "")
	svc.CreateFolder(ctx, "/home/notes/sub")
	svc.CreateFolder(ctx, "/home/notes/attic")

	children, err := svc.ListDirectory(ctx, "/home/notes")
	if err != nil {
		t.Fatalf("ListDirectory failed: %v", err)
	}

	want := []string{"attic", "sub", "apple.txt", "zebra.txt"}
	if len(children) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(children))
	}
	for i, name := range want {
		if children[i].Name != name {
			t.Errorf("child %d = %q, want %q", i, children[i].Name, name)
		}
	}
}

func TestListFileRejected(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/a.txt", "x")
	if _, err := svc.ListDirectory(ctx, "/home/a.txt"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("listing a file should be type-mismatch, got %v", err)
	}
}

func TestGetPathForNode(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	node, _ := svc.CreateFile(ctx, "/home/notes/a.txt", "x")

	path, err := svc.GetPathForNode(ctx, node.ID)
	if err != nil {
		t.Fatalf("GetPathForNode failed: %v", err)
	}
	if path != "/home/notes/a.txt" {
		t.Errorf("reconstructed path = %q", path)
	}

	if path, _ := svc.GetPathForNode(ctx, RootID); path != "/" {
		t.Errorf("root path = %q", path)
	}
}

func TestGetTree(t *testing.T) {
	svc, _ := newTestVFS(t)
	ctx := context.Background()

	svc.CreateFile(ctx, "/home/notes/a.txt", "x")

	tree, err := svc.GetTree(ctx, "/home")
	if err != nil {
		t.Fatalf("GetTree failed: %v", err)
	}
	if tree.Name != "home" || len(tree.Children) != 2 {
		t.Fatalf("unexpected tree root: %+v", tree.FileNode)
	}

	var notes *types.TreeNode
	for _, c := range tree.Children {
		if c.Name == "notes" {
			notes = c
		}
	}
	if notes == nil || len(notes.Children) != 1 || notes.Children[0].Name != "a.txt" {
		t.Error("tree should contain /home/notes/a.txt")
	}
}

func TestGetTreeTerminatesOnCorruptCycle(t *testing.T) {
	svc, st := newTestVFS(t)
	ctx := context.Background()

	// Persist a parent-chain loop directly, bypassing MoveNode's guard,
	// the way a crashed earlier revision could have.
	idA, idB := "node_corrupt_a", "node_corrupt_b"
	rootID := RootID
	now := time.Now()
	st.Put(ctx, &types.FileNode{ID: idA, Name: "a", Type: types.NodeFolder, ParentID: &rootID, CreatedAt: now, UpdatedAt: now})
	st.Put(ctx, &types.FileNode{ID: idB, Name: "b", Type: types.NodeFolder, ParentID: &idA, CreatedAt: now, UpdatedAt: now})
	corruptA, _ := st.Get(ctx, idA)
	corruptA.ParentID = &idB // a -> b -> a
	st.Put(ctx, corruptA)

	// Must terminate rather than loop forever
	if _, err := svc.GetTree(ctx, "/"); err != nil {
		t.Fatalf("GetTree should tolerate the cycle: %v", err)
	}
}

func TestDetectAndFixCycles(t *testing.T) {
	svc, st := newTestVFS(t)
	ctx := context.Background()

	idA, idB := "node_loop_a", "node_loop_b"
	now := time.Now()
	st.Put(ctx, &types.FileNode{ID: idA, Name: "loop-a", Type: types.NodeFolder, ParentID: &idB, CreatedAt: now, UpdatedAt: now})
	st.Put(ctx, &types.FileNode{ID: idB, Name: "loop-b", Type: types.NodeFolder, ParentID: &idA, CreatedAt: now, UpdatedAt: now})

	fixed, err := svc.DetectAndFixCycles(ctx)
	if err != nil {
		t.Fatalf("DetectAndFixCycles failed: %v", err)
	}
	if fixed == 0 {
		t.Fatal("sweep should repair the loop")
	}

	// Every node must now reach root
	nodes, _ := st.All(ctx)
	byID := map[string]*types.FileNode{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, n := range nodes {
		if n.ID != RootID && !svc.reachesRoot(n, byID) {
			t.Errorf("node %s still detached after sweep", n.ID)
		}
	}
}

func TestInitRunsCycleSweep(t *testing.T) {
	svc, st := newTestVFS(t)
	ctx := context.Background()

	idA := "node_self"
	now := time.Now()
	st.Put(ctx, &types.FileNode{ID: idA, Name: "self", Type: types.NodeFolder, ParentID: &idA, CreatedAt: now, UpdatedAt: now})

	if err := svc.InitFileSystem(ctx); err != nil {
		t.Fatalf("init with corrupt data failed: %v", err)
	}

	node, _ := st.Get(ctx, idA)
	if node.ParentID == nil || *node.ParentID != RootID {
		t.Error("self-parented node should be reparented to root by init")
	}
}

func nodeCount(t *testing.T, st store.Store) int {
	t.Helper()
	nodes, err := st.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	return len(nodes)
}

func TestGetPathForNodeDetectsLoop(t *testing.T) {
	svc, st := newTestVFS(t)
	ctx := context.Background()

	idA, idB := "node_pl_a", "node_pl_b"
	now := time.Now()
	st.Put(ctx, &types.FileNode{ID: idA, Name: "a", Type: types.NodeFolder, ParentID: &idB, CreatedAt: now, UpdatedAt: now})
	st.Put(ctx, &types.FileNode{ID: idB, Name: "b", Type: types.NodeFolder, ParentID: &idA, CreatedAt: now, UpdatedAt: now})

	if _, err := svc.GetPathForNode(ctx, idA); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("looping ancestor chain should fail, got %v", err)
	}
}
