// Package ws streams desktop state to clients over WebSocket.
//
// Each connection subscribes to the kernel's publisher and receives
// the full desktop snapshot after every mutation, plus one on connect.
// Inbound messages are desktop commands (open_app, focus_window,
// move_window, ...) executed against the kernel; their effects come
// back through the snapshot stream rather than direct replies.
package ws
