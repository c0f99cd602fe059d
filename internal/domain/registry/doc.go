// Package registry provides the installable app catalog for Duck OS.
//
// The catalog is the static half of the app model: every mini-application
// the dock can launch, with its display name, icon and default window
// size. The window kernel consumes the catalog at boot via Apply.
//
// Components:
//   - Manager: Catalog registration and lookup (idempotent by id)
//   - Seeder: Loads the embedded builtin catalog (YAML), or external
//     catalog documents for installations shipping extra apps
//
// Pre-close hooks are runtime values; they are attached with
// SetBeforeClose after seeding, never parsed from the catalog file.
package registry
