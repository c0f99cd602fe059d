// Package vfs implements the virtual file system shared by the Duck OS
// productivity apps.
//
// The VFS is pure tree-shaped business logic layered over a flat record
// store (see the store package): hierarchical folders and files with
// path-based addressing, sibling name uniqueness, recursive delete and
// two independent cycle defenses.
//
// Components:
//   - Service: All VFS operations against a store.Store
//   - Path resolution: Segment-by-segment walk from the root node
//   - Cycle defenses: Write-time ancestor walk in MoveNode, read-time
//     visited set in GetTree, plus the DetectAndFixCycles repair sweep
//   - Archive: Zip export/import of subtrees
//
// Error Taxonomy:
//   - ErrNotFound: Path does not resolve
//   - ErrTypeMismatch: Expected file, got folder (or vice versa)
//   - ErrAlreadyExists: Sibling name collision
//   - ErrInvalidOperation: Root mutation or a cycle-introducing move
//
// Storage errors propagate unchanged; nothing is retried automatically.
//
// Example Usage:
//
//	svc := vfs.NewService(store.NewMemory(), logger)
//	_ = svc.InitFileSystem(ctx)
//	_, _ = svc.CreateFile(ctx, "/home/notes/a.txt", "hello")
//	content, _ := svc.ReadFile(ctx, "/home/notes/a.txt")
package vfs
