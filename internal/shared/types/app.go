package types

import "context"

// BeforeCloseFunc is an optional pre-close hook an app registers. The
// orchestrating layer (HTTP/WS handlers) invokes it before asking the
// kernel to close a window; a false result vetoes the close. The kernel
// itself never calls it.
type BeforeCloseFunc func(ctx context.Context) (bool, error)

// AppDefinition is the static catalog entry for an installable
// mini-application. Definitions are registered once at boot and are
// immutable thereafter; identity is the ID slug.
type AppDefinition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	DefaultSize WindowSize      `json:"default_size"`
	Content     string          `json:"content"`
	BeforeClose BeforeCloseFunc `json:"-"`
}
