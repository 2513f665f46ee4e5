package malloc

import (
	"fmt"
	"io"
)

// String prints the arena header's identity and accounting, one line of a
// [Allocator.Dump] walk. Trace lines use it as their subject.
func (h *heap) String() string {
	return fmt.Sprintf("heap %p class=%v total=%d free=%d blocks=%d",
		h, h.class, h.totalSize, h.freeSize, h.blockCount)
}

// String prints the block header's identity and state.
func (b *block) String() string {
	return fmt.Sprintf("block %p size=%d free=%t", b, b.dataSize, b.free)
}

// HeapStats describes one arena of the pool.
type HeapStats struct {
	Class      Class
	TotalSize  int
	FreeSize   int
	BlockCount int
}

// Stats is a point-in-time snapshot of the arena pool. Allocations larger
// than a small arena get dedicated mappings that are not threaded into the
// pool and do not appear here; smaller large-class requests live in arenas of
// their own and do.
type Stats struct {
	Heaps []HeapStats
}

// Stats snapshots the arena pool.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var s Stats
	for h := a.anchor; h != nil; h = h.next {
		s.Heaps = append(s.Heaps, HeapStats{
			Class:      h.class,
			TotalSize:  h.totalSize,
			FreeSize:   h.freeSize,
			BlockCount: h.blockCount,
		})
	}
	return s
}

// Dump writes a human-readable walk of every arena and its blocks to w.
func (a *Allocator) Dump(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for h := a.anchor; h != nil; h = h.next {
		if _, err := fmt.Fprintf(w, "%s\n", h); err != nil {
			return err
		}

		if h.blockCount == 0 {
			continue
		}
		for b := h.firstBlock(); b != nil; b = b.next {
			if _, err := fmt.Fprintf(w, "  %s\n", b); err != nil {
				return err
			}
		}
	}
	return nil
}
