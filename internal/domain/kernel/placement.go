package kernel

import "github.com/duckos/duckos/backend/internal/shared/types"

// Spawn cascade constants. Each new window is offset diagonally from the
// baseline by one step per already-open window, wrapping every
// cascadeWrap windows so offsets never run off-screen.
const (
	cascadeBaseX = 120
	cascadeBaseY = 80
	cascadeStep  = 28
	cascadeWrap  = 10
)

// spawnPosition computes where the next window opens. Without a known
// viewport the cascade runs from the fixed baseline; with one, the
// window is centered first, cascaded, then clamped into the visible area.
func spawnPosition(openCount int, size types.WindowSize, viewport *types.Viewport) types.WindowPosition {
	step := (openCount % cascadeWrap) * cascadeStep

	if viewport == nil {
		return types.WindowPosition{X: cascadeBaseX + step, Y: cascadeBaseY + step}
	}

	pos := types.WindowPosition{
		X: (viewport.Width-size.Width)/2 + step,
		Y: (viewport.Height-size.Height)/2 + step,
	}
	return clampPosition(pos, size, *viewport)
}

// clampPosition constrains a window's top-left corner so the entire
// rectangle stays inside the viewport. A window larger than the viewport
// in either dimension falls back to the origin rather than a degenerate
// negative clamp, so windows can never become fully unreachable.
func clampPosition(pos types.WindowPosition, size types.WindowSize, vp types.Viewport) types.WindowPosition {
	maxX := vp.Width - size.Width
	maxY := vp.Height - size.Height

	if maxX < 0 || maxY < 0 {
		return types.WindowPosition{X: 0, Y: 0}
	}

	return types.WindowPosition{
		X: clamp(pos.X, 0, maxX),
		Y: clamp(pos.Y, 0, maxY),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
