package vfs

import "errors"

// VFS error taxonomy. Every operation failure wraps exactly one of
// these sentinels with a descriptive message; storage-substrate errors
// propagate unchanged. All are recoverable at the call site.
var (
	// ErrNotFound: the path does not resolve to a node
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch: expected a file and got a folder, or vice versa
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrAlreadyExists: a sibling with the same name already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidOperation: deleting/moving/renaming the root, or moving
	// a folder into its own subtree
	ErrInvalidOperation = errors.New("invalid operation")
)

// errorKind classifies an error for metrics labels
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	default:
		return "storage"
	}
}
