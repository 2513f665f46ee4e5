package malloc

import (
	"github.com/murymi/mheap/pkg/xunsafe"
)

// block is the header written immediately before each payload. Blocks within
// an arena form an intrusive doubly-linked list whose order equals address
// order.
type block struct {
	next, prev *block
	dataSize   int
	free       bool
}

// payload returns the user-visible address of this block.
func (b *block) payload() *byte {
	return xunsafe.ByteAdd[byte](b, blockHeaderSize)
}

// endAddr returns the address one past the payload, where a successor header
// would start.
func (b *block) endAddr() xunsafe.Addr[byte] {
	return xunsafe.AddrOf(b.payload()).ByteAdd(b.dataSize)
}

// blockOf recovers the header of a payload address.
func blockOf(p *byte) *block {
	return xunsafe.ByteAdd[block](p, -blockHeaderSize)
}

// split carves the tail of b into a new free block of whatever remains past
// size, inserting it between b and its successor. The caller must have
// checked that the remainder fits a header plus at least one aligned word.
func (b *block) split(size int) *block {
	rem := xunsafe.ByteAdd[block](b, blockHeaderSize+size)
	*rem = block{
		next:     b.next,
		prev:     b,
		dataSize: b.dataSize - size - blockHeaderSize,
		free:     true,
	}
	if b.next != nil {
		b.next.prev = rem
	}
	b.next = rem
	b.dataSize = size
	return rem
}
