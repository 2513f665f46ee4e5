// Package malloc implements a general-purpose dynamic memory allocator backed
// by anonymous page mappings.
//
// The allocator obtains raw address space from the operating system and
// subdivides it into user-visible blocks. Requests are routed to one of three
// size classes: tiny and small requests share fixed-size arenas, each holding
// an intrusive doubly-linked list of blocks, while requests larger than an
// arena get a dedicated mapping that bypasses the arena list entirely.
//
// Within an arena, allocation is first-fit: a free block is reused (splitting
// off the remainder when it is big enough to stand alone), or a fresh block
// is carved from the arena's unused tail. Releasing a block marks it free and
// coalesces it with free neighbors, so two adjacent free blocks never
// coexist; an arena whose last remaining block is free is returned to the
// operating system, unless it is the only arena left, which is kept mapped.
//
// All memory managed by the allocator is invisible to Go's garbage
// collector. Payloads are plain byte ranges; use [unsafe.Slice] to view them.
//
// # Usage
//
//	p := malloc.Malloc(64)
//	if p == nil {
//		// out of memory
//	}
//	defer malloc.Free(p)
//
//	buf := unsafe.Slice(p, 64)
//
// # Concurrency
//
// Every public entry point serializes on a single mutex; operations are
// linearizable in lock-acquisition order. There is no per-thread caching.
//
// # Errors
//
// Out-of-memory is the only soft failure and is reported by a nil payload.
// Releasing an address the allocator never returned, or releasing one twice,
// leaves no safe continuation: both panic with [ErrInvalidPointer] or
// [ErrDoubleFree].
package malloc

import (
	"sync"

	"github.com/murymi/mheap/internal/debug"
	"github.com/murymi/mheap/internal/mman"
	"github.com/murymi/mheap/pkg/xunsafe"
	"github.com/murymi/mheap/pkg/xunsafe/layout"
)

// The page provider. Indirect so that tests can interpose a failing mapper.
var (
	pageMap   = mman.Map
	pageUnmap = mman.Unmap
)

// An Allocator manages a pool of arenas obtained from the page provider.
//
// The zero Allocator is empty and ready to use. Most callers want the
// package-level [Malloc], [Free] and [Realloc], which share one process-wide
// Allocator.
type Allocator struct {
	mu     sync.Mutex
	anchor *heap

	track tracker
}

// Malloc returns the address of at least size writable bytes, aligned to
// [Align], or nil if the page provider cannot satisfy the request or size is
// negative.
//
// The returned address is never equal to that of any other live allocation.
func (a *Allocator) Malloc(size int) *byte {
	if size < 0 {
		return nil
	}
	size = layout.RoundUp(size, Align)

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.alloc(size)
}

// alloc services an aligned request. The caller holds a.mu.
func (a *Allocator) alloc(size int) *byte {
	if size > SmallHeapSize {
		return a.allocLarge(size)
	}

	h := a.findHeap(size)
	if h == nil {
		h = a.newHeap(size)
		if h == nil {
			return nil
		}
	}

	p := a.place(h, size)
	a.track.add(p)
	return p
}

// allocLarge maps a dedicated region for a request too big for any arena.
// The mapping holds a lone block header and is not threaded into the arena
// list; release recognizes it by the size recorded in the header.
func (a *Allocator) allocLarge(size int) *byte {
	p, err := pageMap(size + blockHeaderSize)
	if err != nil {
		debug.Log(nil, "mmap", "large alloc of %d failed: %v", size, err)
		return nil
	}

	b := xunsafe.Cast[block](p)
	*b = block{dataSize: size}

	q := b.payload()
	a.track.add(q)
	return q
}

// findHeap walks the arena list from the head for the first arena of the
// request's class that can place it.
func (a *Allocator) findHeap(size int) *heap {
	c := classOf(size)
	for h := a.anchor; h != nil; h = h.next {
		if h.class == c && h.fits(size) {
			return h
		}
	}
	return nil
}

// newHeap maps a fresh arena for the request's class and pushes it onto the
// front of the arena list. Returns nil, with no state mutated, if the page
// provider fails.
func (a *Allocator) newHeap(size int) *heap {
	c := classOf(size)
	total := c.heapSize(size)

	p, err := pageMap(total)
	if err != nil {
		debug.Log(nil, "mmap", "arena of %d failed: %v", total, err)
		return nil
	}

	h := xunsafe.Cast[heap](p)
	*h = heap{
		class:     c,
		totalSize: total,
		freeSize:  total - heapHeaderSize,
	}

	if a.anchor != nil {
		h.next = a.anchor
		a.anchor.prev = h
	}
	a.anchor = h

	h.log("map", "total: %d, free: %d", h.totalSize, h.freeSize)
	return h
}

// place installs a block of the given aligned size in h, which the caller
// has checked can fit it, and returns the payload address.
func (a *Allocator) place(h *heap, size int) *byte {
	// A freshly mapped arena: the block goes at the start of the body. An
	// arena whose blocks were all released still holds one free block.
	if h.blockCount == 0 {
		b := h.firstBlock()
		*b = block{dataSize: size}
		h.blockCount = 1
		h.freeSize -= size + blockHeaderSize

		h.log("place", "first %p, size: %d", b, size)
		return b.payload()
	}

	// First-fit reuse of a free block, splitting off the tail when the
	// remainder can stand alone as a block of its own. A block too tight to
	// split is handed out whole, slack included, so the accounting charges
	// its full span.
	if b := h.findFreeBlock(size); b != nil {
		if b.dataSize >= size+blockHeaderSize+Align {
			b.split(size)
			h.blockCount++
			h.freeSize -= size + blockHeaderSize
		} else {
			h.freeSize -= b.dataSize + blockHeaderSize
		}
		b.free = false

		h.log("place", "reuse %p, size: %d/%d", b, size, b.dataSize)
		return b.payload()
	}

	// Otherwise extend past the last block into the arena's unused tail.
	last := h.lastBlock()
	b := xunsafe.ByteAdd[block](last, blockHeaderSize+last.dataSize)
	*b = block{prev: last, dataSize: size}
	last.next = b
	h.blockCount++
	h.freeSize -= size + blockHeaderSize

	h.log("place", "tail %p, size: %d", b, size)
	return b.payload()
}
