// Package store provides the persistence substrate consumed by the VFS.
//
// The contract is a flat, indexed record store: nodes keyed by id with a
// secondary index on parent id. Two engines are provided:
//   - Memory: mutex-guarded maps, used by tests and as the default
//   - SQLite: embedded single-file database (modernc.org/sqlite, pure Go)
//
// Engines store whole FileNode documents; they know nothing about paths,
// uniqueness or cycles. That logic belongs to the vfs package.
package store
