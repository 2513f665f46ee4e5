package malloc

import (
	"github.com/murymi/mheap/pkg/xunsafe"
	"github.com/murymi/mheap/pkg/xunsafe/layout"
)

// Realloc resizes a prior allocation to at least size bytes, returning its
// possibly new address, or nil if the page provider cannot satisfy the
// request (the old allocation is left intact). Realloc(nil, size) behaves
// like Malloc(size).
//
// A request that already fits in the block returns the same address;
// otherwise the contents are copied into a fresh allocation and the old one
// released. Like [Allocator.Free], Realloc panics on an address the allocator
// never returned or has already released.
func (a *Allocator) Realloc(p *byte, size int) *byte {
	if p == nil {
		return a.Malloc(size)
	}
	if size < 0 {
		return nil
	}
	size = layout.RoundUp(size, Align)

	a.mu.Lock()
	defer a.mu.Unlock()

	old := a.sizeOf(p)
	if size <= old {
		return p
	}

	q := a.alloc(size)
	if q == nil {
		return nil
	}
	xunsafe.Copy(q, p, old)
	a.free(p)

	return q
}

// sizeOf returns the payload length of a live allocation. The caller holds
// a.mu.
func (a *Allocator) sizeOf(p *byte) int {
	b := blockOf(p)
	if a.parentHeap(p) == nil {
		if b.dataSize <= SmallHeapSize {
			panic(ErrInvalidPointer)
		}
		return b.dataSize
	}

	if b.free {
		panic(ErrDoubleFree)
	}
	return b.dataSize
}
