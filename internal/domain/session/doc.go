// Package session provides workspace session management for Duck OS.
//
// Sessions capture and restore the state of the desktop: every open
// window with its geometry, stacking order, minimized/maximized flags,
// and which window held focus.
//
// Components:
//   - Manager: Session persistence and restoration
//   - Window snapshots keyed by app id
//
// Sessions are stored as JSON documents under /system/sessions in the
// virtual file system, so they survive restarts through whichever
// store engine backs the VFS.
//
// Restoration Process:
//  1. Load the session document from the VFS
//  2. Close all current windows
//  3. Reopen saved windows in their original stacking order
//  4. Apply saved geometry and flags to each new window
//  5. Restore focus
//
// Example Usage:
//
//	manager := session.NewManager(kernel, fileSystem, logger)
//	saved, err := manager.Save(ctx, "My Workspace")
//	_, err = manager.Restore(ctx, saved.ID)
package session
