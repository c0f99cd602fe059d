// Package main is the entry point for the Duck OS backend server.
//
// The server runs the two core engines of the desktop shell: the
// window kernel (app catalog, window lifecycle, stacking, focus) and
// the virtual file system backed by a record store.
//
// Architecture:
//
//	Frontend (desktop shell) → Go Backend → Record store (SQLite or memory)
//
// The server provides:
//   - REST API for window and file system operations
//   - WebSocket streaming of desktop state
//   - Builtin app catalog seeding
//   - Session save and restore
//   - Rate limiting and metrics
//
// Configuration:
//   - Environment variables under the DUCKOS_ prefix (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -port 7700 -store sqlite -store-path duckos.db
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
