package store

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

func engines(t *testing.T) map[string]Store {
	t.Helper()

	sqlitePath := filepath.Join(t.TempDir(), "nodes.db")
	sqliteStore, err := NewSQLite(sqlitePath)
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqliteStore,
	}
}

func node(id, name string, parentID *string) *types.FileNode {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &types.FileNode{
		ID:        id,
		Name:      name,
		Type:      types.NodeFile,
		ParentID:  parentID,
		Content:   "content of " + name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()

	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			root := "root"
			if err := s.Put(ctx, node("n1", "a.txt", &root)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			got, err := s.Get(ctx, "n1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Name != "a.txt" || got.Content != "content of a.txt" {
				t.Errorf("unexpected node: %+v", got)
			}
			if got.ParentID == nil || *got.ParentID != "root" {
				t.Errorf("parent id lost: %+v", got.ParentID)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()

	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "ghost"); err != ErrNoRecord {
				t.Errorf("expected ErrNoRecord, got %v", err)
			}
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	ctx := context.Background()

	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			p1, p2 := "p1", "p2"
			n := node("n1", "a.txt", &p1)
			if err := s.Put(ctx, n); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			// Reparent and rename via upsert
			n.ParentID = &p2
			n.Name = "b.txt"
			if err := s.Put(ctx, n); err != nil {
				t.Fatalf("second Put failed: %v", err)
			}

			if children, _ := s.ByParent(ctx, "p1"); len(children) != 0 {
				t.Errorf("old parent index should be empty, got %d entries", len(children))
			}
			children, err := s.ByParent(ctx, "p2")
			if err != nil || len(children) != 1 || children[0].Name != "b.txt" {
				t.Errorf("new parent index wrong: %v, %v", children, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			p := "p"
			s.Put(ctx, node("n1", "a.txt", &p))

			if err := s.Delete(ctx, "n1"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := s.Get(ctx, "n1"); err != ErrNoRecord {
				t.Errorf("deleted node still present: %v", err)
			}
			if children, _ := s.ByParent(ctx, "p"); len(children) != 0 {
				t.Error("parent index should not reference deleted node")
			}

			// Deleting again is a no-op
			if err := s.Delete(ctx, "n1"); err != nil {
				t.Errorf("repeat delete should be a no-op, got %v", err)
			}
		})
	}
}

func TestAllAndByParent(t *testing.T) {
	ctx := context.Background()

	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			p := "folder"
			s.Put(ctx, node("n1", "a.txt", &p))
			s.Put(ctx, node("n2", "b.txt", &p))
			s.Put(ctx, node("n3", "root-level", nil))

			all, err := s.All(ctx)
			if err != nil || len(all) != 3 {
				t.Fatalf("All = %d nodes, err %v", len(all), err)
			}

			children, err := s.ByParent(ctx, "folder")
			if err != nil {
				t.Fatalf("ByParent failed: %v", err)
			}
			names := []string{}
			for _, c := range children {
				names = append(names, c.Name)
			}
			sort.Strings(names)
			if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
				t.Errorf("unexpected children: %v", names)
			}
		})
	}
}

func TestMemoryCopiesOnReturn(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	s.Put(ctx, node("n1", "a.txt", nil))
	got, _ := s.Get(ctx, "n1")
	got.Name = "mutated"

	again, _ := s.Get(ctx, "n1")
	if again.Name != "a.txt" {
		t.Error("store state must not alias returned nodes")
	}
}
