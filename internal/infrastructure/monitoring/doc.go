// Package monitoring provides Prometheus metrics for the Duck OS backend.
//
// Metrics Categories:
//   - HTTP: Request counts and latency per route
//   - Window kernel: Open-window gauge, per-op counters with outcomes
//   - VFS: Per-op counters, latency histograms, error counters by kind
//   - Sessions: Save/restore counters
//   - WebSocket: Connection gauge and message counters
//
// All metrics use the duckos_ prefix and are exposed on /metrics via the
// standard promhttp handler.
package monitoring
