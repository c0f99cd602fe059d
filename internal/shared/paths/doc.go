// Package paths provides the canonical VFS path model used across the backend.
//
// All VFS paths are absolute and slash-delimited. Normalization collapses
// repeated separators, strips trailing slashes and guarantees a single
// leading slash, so "/home//notes/" and "/home/notes" address the same node.
// The root folder is addressed as "/" and has no segments.
package paths
