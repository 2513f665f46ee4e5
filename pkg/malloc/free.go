package malloc

import (
	"errors"
	"fmt"

	"github.com/murymi/mheap/pkg/xunsafe"
)

var (
	// ErrInvalidPointer is the panic value when releasing an address the
	// allocator never returned.
	ErrInvalidPointer = errors.New("malloc: invalid pointer")

	// ErrDoubleFree is the panic value when releasing an address twice.
	ErrDoubleFree = errors.New("malloc: double free detected")
)

// Free releases a prior allocation. Freeing nil is a no-op.
//
// The allocator has no safe continuation once its bookkeeping is known to be
// violated: passing an address that Malloc did not return panics with
// [ErrInvalidPointer] (unless the bytes before it read as the header of a
// dedicated large mapping), and releasing the same address twice panics with
// [ErrDoubleFree] while its block is still in its arena's list. Once the
// freed block has been merged into a free predecessor, a second release
// panics with [ErrInvalidPointer]; once its arena or dedicated mapping has
// been unmapped, a second release reads unmapped memory.
func (a *Allocator) Free(p *byte) {
	if p == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.free(p)
}

// free releases a payload address. The caller holds a.mu.
func (a *Allocator) free(p *byte) {
	h := a.parentHeap(p)
	if h == nil {
		a.freeLarge(p)
		return
	}

	b := blockOf(p)
	if b.free {
		panic(ErrDoubleFree)
	}
	a.track.remove(p)

	b.free = true
	h.freeSize += b.dataSize + blockHeaderSize
	h.log("free", "%p, size: %d", b, b.dataSize)

	h.coalesceRight(b)
	b = h.coalesceLeft(b)

	a.reclaim(h)
}

// freeLarge handles an address owned by no arena. If the header right before
// it records a large allocation, the dedicated mapping is returned to the
// page provider; anything else is a pointer the allocator never handed out.
func (a *Allocator) freeLarge(p *byte) {
	b := blockOf(p)
	if b.dataSize <= SmallHeapSize {
		panic(ErrInvalidPointer)
	}
	a.track.remove(p)

	if err := pageUnmap(xunsafe.Cast[byte](b), b.dataSize+blockHeaderSize); err != nil {
		panic(fmt.Errorf("malloc: munmap failed: %w", err))
	}
}

// parentHeap walks the arena list for the arena owning the payload address p,
// or nil if no arena contains it.
func (a *Allocator) parentHeap(p *byte) *heap {
	for h := a.anchor; h != nil; h = h.next {
		if h.blockCount == 0 {
			continue
		}
		for b := h.firstBlock(); b != nil; b = b.next {
			if b.payload() == p {
				return h
			}
		}
	}
	return nil
}

// reclaim unmaps h once it has collapsed to a single free block, unlinking it
// from the arena list. The sole surviving arena is retained instead, so churn
// against an otherwise idle allocator does not remap on every allocation.
func (a *Allocator) reclaim(h *heap) {
	if h.blockCount != 1 || !h.firstBlock().free {
		return
	}
	if h == a.anchor && h.next == nil {
		return
	}

	if h.prev != nil {
		h.prev.next = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	}
	if h == a.anchor {
		a.anchor = h.next
	}

	h.log("unmap", "total: %d", h.totalSize)
	if err := pageUnmap(xunsafe.Cast[byte](h), h.totalSize); err != nil {
		panic(fmt.Errorf("malloc: munmap failed: %w", err))
	}
}
