package malloc

import (
	"github.com/murymi/mheap/internal/debug"
	"github.com/murymi/mheap/pkg/xunsafe"
	"github.com/murymi/mheap/pkg/xunsafe/layout"
)

// heap is the arena header, written at offset 0 of every mapped region. The
// body that follows it holds the arena's blocks, contiguous and in address
// order.
type heap struct {
	class      Class
	next, prev *heap
	totalSize  int
	freeSize   int
	blockCount int
}

// Header sizes, rounded so that everything placed after a header stays
// aligned to [Align].
var (
	heapHeaderSize  = layout.RoundUp(layout.Size[heap](), Align)
	blockHeaderSize = layout.RoundUp(layout.Size[block](), Align)
)

// base returns the start of the mapping.
func (h *heap) base() xunsafe.Addr[byte] {
	return xunsafe.AddrOf(xunsafe.Cast[byte](h))
}

// end returns the one-past-the-end address of the mapping.
func (h *heap) end() xunsafe.Addr[byte] {
	return h.base().ByteAdd(h.totalSize)
}

// firstBlock returns the header at the start of the arena body.
//
// Only meaningful when blockCount > 0.
func (h *heap) firstBlock() *block {
	return xunsafe.ByteAdd[block](h, heapHeaderSize)
}

// lastBlock walks to the final block of the arena.
func (h *heap) lastBlock() *block {
	b := h.firstBlock()
	for b.next != nil {
		b = b.next
	}
	return b
}

// findFreeBlock returns the first free block whose payload can hold an
// aligned request of the given size.
func (h *heap) findFreeBlock(size int) *block {
	if h.blockCount == 0 {
		return nil
	}
	for b := h.firstBlock(); b != nil; b = b.next {
		if b.free && b.dataSize >= size {
			return b
		}
	}
	return nil
}

// tailRoom returns the unused bytes between the end of the last block and the
// end of the mapping.
func (h *heap) tailRoom() int {
	if h.blockCount == 0 {
		return h.totalSize - heapHeaderSize
	}
	return int(h.end() - h.lastBlock().endAddr())
}

// fits reports whether the arena can place an aligned request of the given
// size. freeSize alone can overstate capacity, since free bytes may be
// scattered across blocks too small to reuse.
func (h *heap) fits(size int) bool {
	if h.freeSize < size+blockHeaderSize {
		return false
	}
	return h.blockCount == 0 ||
		h.findFreeBlock(size) != nil ||
		h.tailRoom() >= size+blockHeaderSize
}

// coalesceRight absorbs the successor of b into b if it is free.
func (h *heap) coalesceRight(b *block) {
	n := b.next
	if n == nil || !n.free {
		return
	}

	b.dataSize += n.dataSize + blockHeaderSize
	b.next = n.next
	if n.next != nil {
		n.next.prev = b
	}
	h.blockCount--

	h.log("merge-right", "%p <- %p, size: %d", b, n, b.dataSize)
}

// coalesceLeft absorbs b into its predecessor if that predecessor is free,
// returning whichever block survives. The header of an absorbed block becomes
// interior payload bytes of the survivor.
func (h *heap) coalesceLeft(b *block) *block {
	p := b.prev
	if p == nil || !p.free {
		return b
	}

	p.dataSize += b.dataSize + blockHeaderSize
	p.next = b.next
	if b.next != nil {
		b.next.prev = p
	}
	h.blockCount--

	h.log("merge-left", "%p <- %p, size: %d", p, b, p.dataSize)
	return p
}

func (h *heap) log(op, format string, args ...any) {
	if debug.Enabled {
		debug.Log(h, op, format, args...)
	}
}
