package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	word := Pack(64, true)
	size, allocated := Unpack(word)
	assert.Equal(t, uint32(64), size)
	assert.True(t, allocated)

	word = Pack(128, false)
	size, allocated = Unpack(word)
	assert.Equal(t, uint32(128), size)
	assert.False(t, allocated)
}

func TestWriteReadTagRoundTrip(t *testing.T) {
	mem := make([]byte, 64)
	WriteTag(mem, 8, 32, true)

	size, allocated := ReadTag(mem, 8)
	require.Equal(t, uint32(32), size)
	require.True(t, allocated)
}

func TestHeaderFooterDuality(t *testing.T) {
	mem := make([]byte, 64)
	bp := Addr(12) // payload starts at 12, header at 8
	WriteHeaderAndFooter(mem, bp, 24, true)

	hdrSize, hdrAlloc := ReadTag(mem, HeaderOff(bp))
	ftrSize, ftrAlloc := ReadTag(mem, FooterOff(mem, bp))

	assert.Equal(t, hdrSize, ftrSize, "P1: header and footer sizes must match")
	assert.Equal(t, hdrAlloc, ftrAlloc, "P1: header and footer alloc bits must match")
}

func TestNextPrevBlockNavigation(t *testing.T) {
	mem := make([]byte, 128)

	// Lay out two contiguous blocks by hand: block A at payload 8, size 24;
	// block B immediately follows at payload 8+24 = 32 (A's footer at 24 and
	// B's header at 28 sit between the two payloads).
	bpA := Addr(8)
	WriteHeaderAndFooter(mem, bpA, 24, false)

	bpB := NextBlock(mem, bpA)
	assert.Equal(t, Addr(8+24), bpB)

	WriteHeaderAndFooter(mem, bpB, 16, true)

	// PrevBlock from B should land back on A.
	assert.Equal(t, bpA, PrevBlock(mem, bpB))
}

func TestAlignUp8(t *testing.T) {
	cases := map[uint32]uint32{
		0:  0,
		1:  8,
		7:  8,
		8:  8,
		9:  16,
		16: 16,
		17: 24,
	}
	for in, want := range cases {
		assert.Equal(t, want, AlignUp8(in), "AlignUp8(%d)", in)
	}
}

func TestFreeListOverlayRoundTrip(t *testing.T) {
	mem := make([]byte, 64)
	bp := Addr(16)

	SetFreeNext(mem, bp, 40)
	SetFreePrev(mem, bp, 0)

	assert.Equal(t, Addr(40), FreeNext(mem, bp))
	assert.Equal(t, Addr(0), FreePrev(mem, bp))
}
