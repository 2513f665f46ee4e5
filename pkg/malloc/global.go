package malloc

import "io"

// std is the process-wide allocator behind the package-level entry points.
// It materializes lazily: a zero Allocator maps nothing until first use.
var std Allocator

// Malloc returns the address of at least size writable bytes from the
// process-wide allocator, or nil if the request cannot be satisfied.
func Malloc(size int) *byte { return std.Malloc(size) }

// Free releases an allocation made with [Malloc] or [Realloc].
func Free(p *byte) { std.Free(p) }

// Realloc resizes an allocation made with [Malloc], possibly moving it.
func Realloc(p *byte, size int) *byte { return std.Realloc(p, size) }

// Dump writes a walk of the process-wide allocator's arenas to w.
func Dump(w io.Writer) error { return std.Dump(w) }
