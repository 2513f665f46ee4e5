//go:build debug

package malloc

import (
	"github.com/dolthub/maphash"

	"github.com/murymi/mheap/internal/debug"
	"github.com/murymi/mheap/pkg/xunsafe"
)

// tracker records the payload address of every live allocation in debug
// builds, so traced runs can report leaks and frees of stale addresses. It is
// an open-addressed set: the tracked memory is outside the Go heap, so the
// addresses are stored as bare integers a GC-visible map could not hold
// safely.
type tracker struct {
	hasher maphash.Hasher[uintptr]
	slots  []uintptr
	n      int // live addresses
	used   int // live + tombstoned slots
}

// Slot markers. No payload address can collide with either: 0 is the null
// page and 1 is unaligned.
const (
	slotEmpty = uintptr(0)
	slotDead  = uintptr(1)
)

const minTrackerSlots = 1024

func (t *tracker) add(p *byte) {
	if p == nil {
		return
	}
	if t.slots == nil {
		t.hasher = maphash.NewHasher[uintptr]()
		t.slots = make([]uintptr, minTrackerSlots)
	}
	if t.n*4 >= len(t.slots)*3 {
		t.rehash(len(t.slots) * 2)
	} else if t.used*4 >= len(t.slots)*3 {
		// Mostly tombstones; rehash in place to clear them.
		t.rehash(len(t.slots))
	}

	t.insert(uintptr(xunsafe.AddrOf(p)))
	t.n++
}

func (t *tracker) insert(addr uintptr) {
	mask := uintptr(len(t.slots) - 1)
	i := uintptr(t.hasher.Hash(addr)) & mask
	for t.slots[i] != slotEmpty && t.slots[i] != slotDead {
		debug.Assert(t.slots[i] != addr, "address %#x tracked twice", addr)
		i = (i + 1) & mask
	}
	if t.slots[i] == slotEmpty {
		t.used++
	}
	t.slots[i] = addr
}

// remove drops a payload address from the set, reporting whether it was
// present. A false return on a non-nil address means the caller is freeing
// something the allocator does not believe is live.
func (t *tracker) remove(p *byte) bool {
	if p == nil || t.slots == nil {
		return false
	}

	addr := uintptr(xunsafe.AddrOf(p))
	mask := uintptr(len(t.slots) - 1)
	for i := uintptr(t.hasher.Hash(addr)) & mask; t.slots[i] != slotEmpty; i = (i + 1) & mask {
		if t.slots[i] == addr {
			t.slots[i] = slotDead
			t.n--
			return true
		}
	}

	debug.Log(nil, "track", "free of untracked address %#x", addr)
	return false
}

// live returns the number of tracked allocations.
func (t *tracker) live() int { return t.n }

func (t *tracker) rehash(size int) {
	old := t.slots
	t.slots = make([]uintptr, size)
	t.used = 0
	for _, addr := range old {
		if addr != slotEmpty && addr != slotDead {
			t.insert(addr)
		}
	}
}
