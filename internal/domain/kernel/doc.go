// Package kernel implements the window/app lifecycle engine of Duck OS.
//
// The kernel is a single state container owning window creation,
// geometry, stacking order, focus and minimize/maximize transitions.
// Every UI surface (dock, window chrome, terminal commands) issues the
// same commands against it.
//
// Components:
//   - Manager: Mutex-guarded state with synchronous command methods
//   - Publisher: Synchronous publish-on-change subscription fan-out
//   - Observe/ObserveValue: Selector-keyed subscriptions with change dedup
//
// Invariants:
//   - At most one window holds focus, and only a currently-open one
//   - zCounter never falls below the highest window z-index
//   - Window ids derive from app id + a monotonic sequence, never wall
//     clock, so rapid opens cannot collide
//   - Unknown ids make every mutating command a silent no-op with a
//     diagnostic; kernel commands never fail loudly
//
// Example Usage:
//
//	k := kernel.NewManager(logger)
//	k.RegisterApp(types.AppDefinition{ID: "pond", Name: "Pond Timer",
//	    DefaultSize: types.WindowSize{Width: 600, Height: 400}})
//	win, ok := k.OpenApp("pond")
//	k.FocusWindow(win.ID)
package kernel
