package malloc

import (
	"fmt"
	"testing"
)

func BenchmarkMallocFree(b *testing.B) {
	for _, size := range []int{16, 512, 4096} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			var a Allocator
			b.SetBytes(int64(size))

			for n := 0; n < b.N; n++ {
				p := a.Malloc(size)
				a.Free(p)
			}
		})
	}
}

func BenchmarkMallocBatch(b *testing.B) {
	const batch = 128

	for _, size := range []int{16, 512} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			var a Allocator
			ptrs := make([]*byte, batch)
			b.SetBytes(int64(size * batch))

			for n := 0; n < b.N; n++ {
				for i := range ptrs {
					ptrs[i] = a.Malloc(size)
				}
				for i := range ptrs {
					a.Free(ptrs[i])
				}
			}
		})
	}
}

func BenchmarkMallocLarge(b *testing.B) {
	size := SmallHeapSize + 1

	var a Allocator
	b.SetBytes(int64(size))

	for n := 0; n < b.N; n++ {
		p := a.Malloc(size)
		a.Free(p)
	}
}
