package types

// WindowPosition represents window position on screen
type WindowPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// WindowSize represents window dimensions
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Viewport represents the visible desktop area windows are clamped into
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowInstance is one open, positioned, sized occurrence of an app.
// Instances are owned exclusively by the kernel; everything outside the
// kernel sees copies.
type WindowInstance struct {
	ID        string         `json:"id"`
	AppID     string         `json:"app_id"`
	Position  WindowPosition `json:"position"`
	Size      WindowSize     `json:"size"`
	ZIndex    int            `json:"z_index"`
	Minimized bool           `json:"minimized"`
	Maximized bool           `json:"maximized"`
}

// KernelStats contains window kernel statistics
type KernelStats struct {
	OpenWindows     int     `json:"open_windows"`
	MinimizedCount  int     `json:"minimized_count"`
	RegisteredApps  int     `json:"registered_apps"`
	FocusedWindowID *string `json:"focused_window_id,omitempty"`
}

// KernelSnapshot is the read model published to subscribers on every
// kernel state change.
type KernelSnapshot struct {
	Booted          bool             `json:"booted"`
	Windows         []WindowInstance `json:"windows"`
	FocusedWindowID *string          `json:"focused_window_id,omitempty"`
}
