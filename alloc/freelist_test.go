package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segheap/segalloc/internal/block"
)

func TestBinForSize(t *testing.T) {
	cases := []struct {
		size uint32
		bin  int
	}{
		{16, 0}, {32, 0}, {33, 1},
		{64, 1}, {65, 2},
		{128, 2}, {129, 3},
		{256, 3}, {257, 4},
		{512, 4}, {513, 5},
		{1024, 5}, {1025, 6},
		{2048, 6}, {2049, 7},
		{1 << 20, 7},
	}
	for _, c := range cases {
		assert.Equal(t, c.bin, binForSize(c.size), "size %d", c.size)
	}
}

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	al, err := New(newFixedArena(t, 1<<16))
	require.NoError(t, err)
	return al
}

func TestPrependSetsBinHead(t *testing.T) {
	al := newTestAllocator(t)
	mem := al.mem()

	bp := block.Addr(1024)
	prepend(al, bp, 64)

	assert.Equal(t, bp, binHead(mem, binForSize(64)))
	assert.Equal(t, block.NullAddr, block.FreeNext(mem, bp))
	assert.Equal(t, block.NullAddr, block.FreePrev(mem, bp))
	assert.Equal(t, uint32(64), al.maxFree)
}

func TestPrependMultipleIsLIFO(t *testing.T) {
	al := newTestAllocator(t)
	mem := al.mem()

	a, b := block.Addr(1024), block.Addr(2048)
	prepend(al, a, 64)
	prepend(al, b, 64)

	assert.Equal(t, b, binHead(mem, binForSize(64)))
	assert.Equal(t, a, block.FreeNext(mem, b))
	assert.Equal(t, b, block.FreePrev(mem, a))
}

func TestRemoveHeadOnlyEntry(t *testing.T) {
	al := newTestAllocator(t)
	mem := al.mem()

	bp := block.Addr(1024)
	prepend(al, bp, 64)
	remove(al, bp, 64)

	assert.Equal(t, block.NullAddr, binHead(mem, binForSize(64)))
}

func TestRemoveMiddleEntry(t *testing.T) {
	al := newTestAllocator(t)
	mem := al.mem()

	a, b, c := block.Addr(1024), block.Addr(2048), block.Addr(3072)
	prepend(al, a, 64)
	prepend(al, b, 64)
	prepend(al, c, 64) // list: c -> b -> a

	remove(al, b, 64)

	assert.Equal(t, c, binHead(mem, binForSize(64)))
	assert.Equal(t, a, block.FreeNext(mem, c))
	assert.Equal(t, c, block.FreePrev(mem, a))
}

func TestRemoveTailEntry(t *testing.T) {
	al := newTestAllocator(t)
	mem := al.mem()

	a, b := block.Addr(1024), block.Addr(2048)
	prepend(al, a, 64)
	prepend(al, b, 64) // list: b -> a

	remove(al, a, 64)

	assert.Equal(t, b, binHead(mem, binForSize(64)))
	assert.Equal(t, block.NullAddr, block.FreeNext(mem, b))
}
