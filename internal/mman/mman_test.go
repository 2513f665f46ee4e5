package mman_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murymi/mheap/internal/mman"
)

func TestMapRoundTrip(t *testing.T) {
	t.Parallel()

	p, err := mman.Map(4096)
	require.NoError(t, err)
	require.NotNil(t, p)

	s := unsafe.Slice(p, 4096)
	for i := range s {
		s[i] = byte(i)
	}
	for i := range s {
		require.Equal(t, byte(i), s[i])
	}

	assert.NoError(t, mman.Unmap(p, 4096))
}

func TestUnmapUnaligned(t *testing.T) {
	t.Parallel()

	p, err := mman.Map(4096)
	require.NoError(t, err)

	// An unaligned base must be rejected by the kernel.
	assert.Error(t, mman.Unmap(unsafe.SliceData(unsafe.Slice(p, 4096)[1:]), 64))

	assert.NoError(t, mman.Unmap(p, 4096))
}
