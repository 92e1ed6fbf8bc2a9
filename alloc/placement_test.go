package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segheap/segalloc/internal/block"
)

func TestFindFit_ReturnsNullWhenMaxFreeTooSmall(t *testing.T) {
	al := newAllocator(t)
	assert.Equal(t, block.NullAddr, findFit(al, 64))
}

func TestFindFit_SkipsTooSmallBlocksInSameBin(t *testing.T) {
	al := newAllocator(t)
	mem := al.mem()

	small, big := block.Addr(4096), block.Addr(8192)
	block.WriteHeaderAndFooter(mem, small, 16, false)
	block.WriteHeaderAndFooter(mem, big, 32, false)
	prepend(al, big, 32)
	prepend(al, small, 16) // list: small -> big, so small is seen first
	require.Equal(t, binForSize(16), binForSize(32), "both blocks must land in the same bin for this test to be meaningful")

	got := findFit(al, 32)
	assert.Equal(t, big, got)
}

func TestPlace_SplitsWhenRemainderIsLarge(t *testing.T) {
	al := newAllocator(t)
	mem := al.mem()

	bp := block.Addr(4096)
	block.WriteHeaderAndFooter(mem, bp, 128, false)
	prepend(al, bp, 128)

	place(al, bp, 32)

	size, allocated := block.ReadTag(mem, block.HeaderOff(bp))
	assert.Equal(t, uint32(32), size)
	assert.True(t, allocated)

	remBp := bp + 32
	remSize, remAlloc := block.ReadTag(mem, block.HeaderOff(remBp))
	assert.Equal(t, uint32(96), remSize)
	assert.False(t, remAlloc)
}

func TestPlace_DoesNotSplitWhenRemainderTooSmall(t *testing.T) {
	al := newAllocator(t)
	mem := al.mem()

	bp := block.Addr(4096)
	block.WriteHeaderAndFooter(mem, bp, 40, false)
	prepend(al, bp, 40)

	place(al, bp, 32) // remainder would be 8, below minBlockSize

	size, allocated := block.ReadTag(mem, block.HeaderOff(bp))
	assert.Equal(t, uint32(40), size)
	assert.True(t, allocated)
}

func TestPlace_RemovesBlockFromItsBin(t *testing.T) {
	al := newAllocator(t)
	mem := al.mem()

	bp := block.Addr(4096)
	block.WriteHeaderAndFooter(mem, bp, 64, false)
	prepend(al, bp, 64)
	require.Equal(t, bp, binHead(mem, binForSize(64)))

	place(al, bp, 64)
	assert.NotEqual(t, bp, binHead(mem, binForSize(64)))
}
