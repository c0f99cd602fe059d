package paths

import "strings"

// Root is the canonical path of the VFS root folder
const Root = "/"

// Separator delimits path segments
const Separator = "/"

// Normalize canonicalizes a VFS path: a single leading slash, repeated
// slashes collapsed, trailing slash stripped except for the root itself.
func Normalize(path string) string {
	segs := Segments(path)
	if len(segs) == 0 {
		return Root
	}
	return Separator + strings.Join(segs, Separator)
}

// Segments splits a path into its non-empty segments. The root path
// yields no segments.
func Segments(path string) []string {
	parts := strings.Split(path, Separator)
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// IsRoot reports whether the path normalizes to the root folder
func IsRoot(path string) bool {
	return Normalize(path) == Root
}

// SplitParent splits a normalized path into its parent path and final
// segment. The root path splits into ("/", "").
func SplitParent(path string) (parent string, name string) {
	segs := Segments(path)
	if len(segs) == 0 {
		return Root, ""
	}
	name = segs[len(segs)-1]
	rest := segs[:len(segs)-1]
	if len(rest) == 0 {
		return Root, name
	}
	return Separator + strings.Join(rest, Separator), name
}

// Join appends a child segment to a base path
func Join(base, name string) string {
	if name == "" {
		return Normalize(base)
	}
	base = Normalize(base)
	if base == Root {
		return Root + name
	}
	return base + Separator + name
}
