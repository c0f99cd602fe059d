package kernel

import (
	"testing"

	"github.com/duckos/duckos/backend/internal/shared/types"
)

// snapshotsEqual compares snapshots by value; FocusedWindowID is a
// fresh pointer on every snapshot, so direct comparison would always
// differ.
func snapshotsEqual(a, b types.KernelSnapshot) bool {
	if a.Booted != b.Booted || len(a.Windows) != len(b.Windows) {
		return false
	}
	if (a.FocusedWindowID == nil) != (b.FocusedWindowID == nil) {
		return false
	}
	if a.FocusedWindowID != nil && *a.FocusedWindowID != *b.FocusedWindowID {
		return false
	}
	for i := range a.Windows {
		if a.Windows[i] != b.Windows[i] {
			return false
		}
	}
	return true
}

func newTestKernel() *Manager {
	m := NewManager(nil)
	m.RegisterApp(types.AppDefinition{
		ID:          "pond",
		Name:        "Pond Timer",
		DefaultSize: types.WindowSize{Width: 600, Height: 400},
	})
	m.RegisterApp(types.AppDefinition{
		ID:          "duckpad",
		Name:        "DuckPad",
		DefaultSize: types.WindowSize{Width: 500, Height: 350},
	})
	return m
}

func TestRegisterAppIdempotent(t *testing.T) {
	m := newTestKernel()

	m.RegisterApp(types.AppDefinition{ID: "pond", Name: "Impostor"})

	def, ok := m.App("pond")
	if !ok {
		t.Fatal("pond should be registered")
	}
	if def.Name != "Pond Timer" {
		t.Errorf("duplicate registration must not overwrite, got name %q", def.Name)
	}
	if len(m.Apps()) != 2 {
		t.Errorf("expected 2 registered apps, got %d", len(m.Apps()))
	}
}

func TestOpenAppFocusAndZOrder(t *testing.T) {
	m := newTestKernel()

	win, ok := m.OpenApp("pond")
	if !ok {
		t.Fatal("OpenApp failed")
	}

	focused := m.FocusedWindowID()
	if focused == nil || *focused != win.ID {
		t.Error("new window should be focused")
	}

	second, _ := m.OpenApp("duckpad")
	if second.ZIndex <= win.ZIndex {
		t.Errorf("second window z %d should exceed first %d", second.ZIndex, win.ZIndex)
	}
	if focused = m.FocusedWindowID(); focused == nil || *focused != second.ID {
		t.Error("focus should follow the newest window")
	}
}

func TestOpenAppUnknownIsNoop(t *testing.T) {
	m := newTestKernel()

	if _, ok := m.OpenApp("nonexistent"); ok {
		t.Fatal("opening an unregistered app must fail")
	}
	if len(m.Windows()) != 0 {
		t.Error("failed open must not create a window")
	}
	if m.FocusedWindowID() != nil {
		t.Error("failed open must not take focus")
	}
}

func TestWindowIDsUniqueUnderRapidOpen(t *testing.T) {
	m := newTestKernel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		win, ok := m.OpenApp("pond")
		if !ok {
			t.Fatal("OpenApp failed")
		}
		if seen[win.ID] {
			t.Fatalf("duplicate window id: %s", win.ID)
		}
		seen[win.ID] = true
	}
}

func TestCascadeScenario(t *testing.T) {
	m := NewManager(nil)
	m.RegisterApp(types.AppDefinition{
		ID:          "pond",
		DefaultSize: types.WindowSize{Width: 600, Height: 400},
	})

	wins := make([]types.WindowInstance, 3)
	for i := range wins {
		wins[i], _ = m.OpenApp("pond")
	}

	for i, wantZ := range []int{2, 3, 4} {
		if wins[i].ZIndex != wantZ {
			t.Errorf("window %d z-index = %d, want %d", i, wins[i].ZIndex, wantZ)
		}
	}
	for i, wantX := range []int{120, 148, 176} {
		if wins[i].Position.X != wantX {
			t.Errorf("window %d x = %d, want %d", i, wins[i].Position.X, wantX)
		}
	}
	for i, wantY := range []int{80, 108, 136} {
		if wins[i].Position.Y != wantY {
			t.Errorf("window %d y = %d, want %d", i, wins[i].Position.Y, wantY)
		}
	}

	focused := m.FocusedWindowID()
	if focused == nil || *focused != wins[2].ID {
		t.Error("third window should hold focus")
	}
}

func TestFocusWindow(t *testing.T) {
	m := newTestKernel()

	first, _ := m.OpenApp("pond")
	second, _ := m.OpenApp("duckpad")

	m.MinimizeWindow(first.ID)

	if !m.FocusWindow(first.ID) {
		t.Fatal("FocusWindow failed")
	}

	got, _ := m.Window(first.ID)
	if got.Minimized {
		t.Error("focusing must clear the minimized flag")
	}
	if got.ZIndex <= second.ZIndex {
		t.Errorf("focused window z %d must exceed %d", got.ZIndex, second.ZIndex)
	}
	focused := m.FocusedWindowID()
	if focused == nil || *focused != first.ID {
		t.Error("focus should move to the raised window")
	}
}

func TestFocusUnknownIsNoop(t *testing.T) {
	m := newTestKernel()
	win, _ := m.OpenApp("pond")

	before := m.Snapshot()
	if m.FocusWindow("ghost") {
		t.Fatal("focusing a missing window must return false")
	}
	after := m.Snapshot()

	if !snapshotsEqual(before, after) {
		t.Error("failed focus must not change state")
	}
	got, _ := m.Window(win.ID)
	if got.ZIndex != win.ZIndex {
		t.Error("z-index must be untouched")
	}
}

func TestCloseWindowFocusRules(t *testing.T) {
	m := newTestKernel()

	first, _ := m.OpenApp("pond")
	second, _ := m.OpenApp("duckpad")

	// Closing an unfocused window leaves focus alone
	if !m.CloseWindow(first.ID) {
		t.Fatal("CloseWindow failed")
	}
	focused := m.FocusedWindowID()
	if focused == nil || *focused != second.ID {
		t.Error("closing an unfocused window must not move focus")
	}

	// Closing the focused window clears focus
	m.CloseWindow(second.ID)
	if m.FocusedWindowID() != nil {
		t.Error("closing the focused window must clear focus")
	}
	if len(m.Windows()) != 0 {
		t.Error("all windows should be closed")
	}
}

func TestCloseUnknownIsNoop(t *testing.T) {
	m := newTestKernel()
	m.OpenApp("pond")

	if m.CloseWindow("ghost") {
		t.Error("closing a missing window must return false")
	}
	if len(m.Windows()) != 1 {
		t.Error("window list must be unchanged")
	}
}

func TestMinimize(t *testing.T) {
	m := newTestKernel()
	win, _ := m.OpenApp("pond")

	if !m.MinimizeWindow(win.ID) {
		t.Fatal("MinimizeWindow failed")
	}

	got, _ := m.Window(win.ID)
	if !got.Minimized {
		t.Error("window should be minimized")
	}
	if m.FocusedWindowID() != nil {
		t.Error("minimizing the focused window must clear focus")
	}
}

func TestMinimizeUnfocusedKeepsFocus(t *testing.T) {
	m := newTestKernel()
	first, _ := m.OpenApp("pond")
	second, _ := m.OpenApp("duckpad")

	m.MinimizeWindow(first.ID)

	focused := m.FocusedWindowID()
	if focused == nil || *focused != second.ID {
		t.Error("minimizing an unfocused window must not move focus")
	}
}

func TestToggleMaximize(t *testing.T) {
	m := newTestKernel()
	win, _ := m.OpenApp("pond")
	before, _ := m.Window(win.ID)

	m.ToggleMaximizeWindow(win.ID)
	got, _ := m.Window(win.ID)
	if !got.Maximized {
		t.Error("first toggle should maximize")
	}
	if got.ZIndex != before.ZIndex {
		t.Error("maximize must not change z-index")
	}

	m.ToggleMaximizeWindow(win.ID)
	got, _ = m.Window(win.ID)
	if got.Maximized {
		t.Error("second toggle should restore")
	}
}

func TestUpdatePositionClampsToViewport(t *testing.T) {
	m := newTestKernel()
	m.SetViewport(types.Viewport{Width: 1280, Height: 720})
	win, _ := m.OpenApp("pond") // 600x400

	m.UpdateWindowPosition(win.ID, types.WindowPosition{X: 5000, Y: -50})

	got, _ := m.Window(win.ID)
	if got.Position.X != 1280-600 || got.Position.Y != 0 {
		t.Errorf("position should clamp to (680, 0), got %+v", got.Position)
	}
}

func TestUpdateSizeNotClamped(t *testing.T) {
	m := newTestKernel()
	m.SetViewport(types.Viewport{Width: 800, Height: 600})
	win, _ := m.OpenApp("pond")

	m.UpdateWindowSize(win.ID, types.WindowSize{Width: 4000, Height: 3000})

	got, _ := m.Window(win.ID)
	if got.Size.Width != 4000 || got.Size.Height != 3000 {
		t.Errorf("size must be committed as given, got %+v", got.Size)
	}
}

func TestClearFocus(t *testing.T) {
	m := newTestKernel()
	m.OpenApp("pond")

	m.ClearFocus()
	if m.FocusedWindowID() != nil {
		t.Error("ClearFocus must clear focus unconditionally")
	}
}

func TestStats(t *testing.T) {
	m := newTestKernel()
	win, _ := m.OpenApp("pond")
	m.OpenApp("duckpad")
	m.MinimizeWindow(win.ID)

	stats := m.Stats()
	if stats.OpenWindows != 2 || stats.MinimizedCount != 1 || stats.RegisteredApps != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
