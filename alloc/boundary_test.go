package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segheap/segalloc/internal/block"
)

func TestBoundary_AllocateOneByteRoundsUpToMinBlock(t *testing.T) {
	al := newAllocator(t)
	p := al.Allocate(1)
	require.NotNil(t, p)

	bp := al.addrOf(p)
	size := block.SizeAt(al.mem(), block.HeaderOff(bp))
	assert.EqualValues(t, minBlockSize, size)
}

func TestBoundary_AllocateMaxUintptrReturnsNil(t *testing.T) {
	al := newAllocator(t)
	assert.Nil(t, al.Allocate(^uintptr(0)))
	assert.Empty(t, Check(al))
}

func TestBoundary_ReallocateSameSizeReturnsSamePointer(t *testing.T) {
	al := newAllocator(t)
	p := al.Allocate(40)
	require.NotNil(t, p)

	p2 := al.Reallocate(p, 40)
	assert.Equal(t, p, p2)
}

func TestBoundary_ReallocateSmallerKeepsBlockSize(t *testing.T) {
	al := newAllocator(t)
	p := al.Allocate(200)
	require.NotNil(t, p)

	bp := al.addrOf(p)
	before := block.SizeAt(al.mem(), block.HeaderOff(bp))

	p2 := al.Reallocate(p, 8)
	require.Equal(t, p, p2)

	after := block.SizeAt(al.mem(), block.HeaderOff(bp))
	assert.Equal(t, before, after, "shrink-in-place must not split the block")
}

func TestBoundary_FreeingTwoDistinctAllocationsIsFine(t *testing.T) {
	al := newAllocator(t)
	p1 := al.Allocate(32)
	p2 := al.Allocate(32)
	require.NotNil(t, p1)
	require.NotNil(t, p2)

	al.Free(p1)
	al.Free(p2)
	assert.Empty(t, Check(al))
}

func TestBoundary_FreeThenAllocateDifferentSizeFromCoalescedRegion(t *testing.T) {
	al := newAllocator(t)
	a := al.Allocate(32)
	b := al.Allocate(32)
	require.NotNil(t, a)
	require.NotNil(t, b)

	al.Free(a)
	al.Free(b)

	c := al.Allocate(48)
	require.NotNil(t, c)
	assert.Equal(t, a, c)
	assert.Empty(t, Check(al))
}
