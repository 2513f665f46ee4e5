package malloc

import (
	"os"

	"github.com/murymi/mheap/internal/debug"
)

// Class identifies which of the allocator's size classes an aligned request
// falls in. Tiny and small requests share fixed-size arenas; large requests
// get a mapping of their own.
type Class uint8

const (
	ClassTiny Class = iota
	ClassSmall
	ClassLarge
)

func (c Class) String() string {
	switch c {
	case ClassTiny:
		return "tiny"
	case ClassSmall:
		return "small"
	case ClassLarge:
		return "large"
	default:
		return "invalid"
	}
}

// Align is the alignment of every payload returned by the allocator. Request
// sizes are rounded up to a multiple of it before classification.
const Align = 8

// Arena geometry, derived from the host page size.
var (
	pageSize = os.Getpagesize()

	// TinyHeapSize is the mapping size of a tiny-class arena.
	TinyHeapSize = 4 * pageSize
	// TinyBlockMax is the largest aligned request served from a tiny arena.
	TinyBlockMax = TinyHeapSize / 128
	// SmallHeapSize is the mapping size of a small-class arena.
	SmallHeapSize = 32 * pageSize
	// SmallBlockMax is the largest aligned request served from a small arena.
	SmallBlockMax = SmallHeapSize / 128
)

// classOf classifies an aligned request size.
func classOf(size int) Class {
	switch {
	case size <= TinyBlockMax:
		return ClassTiny
	case size <= SmallBlockMax:
		return ClassSmall
	default:
		return ClassLarge
	}
}

// heapSize returns the total mapping size of an arena of this class hosting
// an aligned request of the given size. Tiny and small arenas have a fixed
// size; a large arena is sized to fit exactly one block.
func (c Class) heapSize(size int) int {
	switch c {
	case ClassTiny:
		return TinyHeapSize
	case ClassSmall:
		return SmallHeapSize
	default:
		debug.Assert(size <= SmallHeapSize, "oversize request %d routed to an arena", size)
		return size + blockHeaderSize + heapHeaderSize
	}
}
