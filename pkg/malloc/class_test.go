package malloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ClassTiny, classOf(0))
	assert.Equal(t, ClassTiny, classOf(8))
	assert.Equal(t, ClassTiny, classOf(TinyBlockMax))
	assert.Equal(t, ClassSmall, classOf(TinyBlockMax+Align))
	assert.Equal(t, ClassSmall, classOf(SmallBlockMax))
	assert.Equal(t, ClassLarge, classOf(SmallBlockMax+Align))
	assert.Equal(t, ClassLarge, classOf(SmallHeapSize))
	assert.Equal(t, ClassLarge, classOf(SmallHeapSize+Align))
}

func TestClassGeometry(t *testing.T) {
	t.Parallel()

	// The fixed arena sizes are multiples of the page, and the per-class
	// block caps divide them evenly.
	assert.Equal(t, 4*pageSize, TinyHeapSize)
	assert.Equal(t, TinyHeapSize/128, TinyBlockMax)
	assert.Equal(t, 32*pageSize, SmallHeapSize)
	assert.Equal(t, SmallHeapSize/128, SmallBlockMax)

	assert.Equal(t, TinyHeapSize, ClassTiny.heapSize(8))
	assert.Equal(t, SmallHeapSize, ClassSmall.heapSize(TinyBlockMax+Align))

	size := SmallBlockMax + Align
	assert.Equal(t, size+blockHeaderSize+heapHeaderSize, ClassLarge.heapSize(size))
}

func TestClassString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tiny", ClassTiny.String())
	assert.Equal(t, "small", ClassSmall.String())
	assert.Equal(t, "large", ClassLarge.String())
	assert.Equal(t, "invalid", Class(42).String())
}

func TestHeaderSizes(t *testing.T) {
	t.Parallel()

	// Everything placed after a header must stay payload-aligned.
	assert.Zero(t, heapHeaderSize%Align)
	assert.Zero(t, blockHeaderSize%Align)
}
