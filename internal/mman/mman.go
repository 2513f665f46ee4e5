// Package mman wraps the anonymous page-mapping primitives the allocator
// obtains raw address space from.
package mman

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Map returns a readable, writable, private anonymous region of at least n
// bytes, aligned to the system page.
func Map(n int) (*byte, error) {
	b, err := unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}

	return &b[0], nil
}

// Unmap returns a region previously obtained from [Map].
//
// p must be the base returned by Map and n the length passed to it.
func Unmap(p *byte, n int) error {
	return unix.Munmap(unsafe.Slice(p, n))
}
