// Package types provides shared data structures for the Duck OS backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - AppDefinition: Static catalog entry for a mini-application
//   - WindowInstance: One open, positioned, sized window
//   - FileNode: One file or folder entry in the VFS tree
//   - TreeNode: FileNode with resolved children
//   - Session: Saved workspace snapshot
//
// State Management:
//   - WindowPosition, WindowSize, Viewport: Window geometry
//   - KernelSnapshot: Read model published to subscribers
//   - KernelStats: Window kernel statistics
//
// Example Usage:
//
//	def := types.AppDefinition{
//	    ID:          "pond",
//	    Name:        "Pond Timer",
//	    DefaultSize: types.WindowSize{Width: 600, Height: 400},
//	}
package types
