package block

import "encoding/binary"

// Addr is a byte offset from index 0 of the arena's backing slice (heap_lo).
// Zero is the null sentinel: it can never be a valid block pointer because
// the bin table occupies the first 32 bytes of every heap.
type Addr uint32

// NullAddr is the "empty"/"end of list" sentinel used throughout the
// segregated free lists and the bin table.
const NullAddr Addr = 0

const (
	// WordSize is the width of a header, footer, or free-list pointer slot.
	WordSize = 4

	// DoubleWordSize is the payload/footer alignment unit. Every block size
	// is a multiple of this.
	DoubleWordSize = 8

	// allocMask isolates the low 3 reserved bits of a packed header/footer
	// word; bit 0 is the allocated flag, bits 1-2 are always zero.
	allocMask = 0x7
)

// Pack combines a size (already a multiple of 8, with its low 3 bits clear)
// and an allocated flag into a single header/footer word.
func Pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | 1
	}
	return size
}

// Unpack splits a packed header/footer word back into size and allocated.
func Unpack(word uint32) (size uint32, allocated bool) {
	return word &^ allocMask, word&1 != 0
}

// ReadTag reads and unpacks the 4-byte word at off.
func ReadTag(mem []byte, off Addr) (size uint32, allocated bool) {
	return Unpack(binary.LittleEndian.Uint32(mem[off : off+WordSize]))
}

// WriteTag packs and writes size/allocated at off.
func WriteTag(mem []byte, off Addr, size uint32, allocated bool) {
	binary.LittleEndian.PutUint32(mem[off:off+WordSize], Pack(size, allocated))
}

// SizeAt returns just the size field of the word at off.
func SizeAt(mem []byte, off Addr) uint32 {
	size, _ := ReadTag(mem, off)
	return size
}

// AllocatedAt returns just the allocated flag of the word at off.
func AllocatedAt(mem []byte, off Addr) bool {
	_, allocated := ReadTag(mem, off)
	return allocated
}

// HeaderOff returns the offset of bp's header: one word before the payload.
func HeaderOff(bp Addr) Addr {
	return bp - WordSize
}

// FooterOff returns the offset of bp's footer, computed from the size
// recorded in bp's own header.
func FooterOff(mem []byte, bp Addr) Addr {
	return bp + Addr(SizeAt(mem, HeaderOff(bp))) - DoubleWordSize
}

// PayloadFor returns the payload address for a block whose header starts at
// hdrOff. It is the inverse of HeaderOff.
func PayloadFor(hdrOff Addr) Addr {
	return hdrOff + WordSize
}

// NextBlock returns the payload address of the block immediately following
// bp, found in O(1) via bp's own header size.
func NextBlock(mem []byte, bp Addr) Addr {
	return bp + Addr(SizeAt(mem, HeaderOff(bp)))
}

// PrevBlock returns the payload address of the block immediately preceding
// bp, found in O(1) by reading the preceding block's footer.
func PrevBlock(mem []byte, bp Addr) Addr {
	prevFooter := bp - DoubleWordSize
	return bp - Addr(SizeAt(mem, prevFooter))
}

// WriteHeaderAndFooter writes identical header and footer words for the
// block at bp, maintaining invariant I1 (header == footer).
func WriteHeaderAndFooter(mem []byte, bp Addr, size uint32, allocated bool) {
	WriteTag(mem, HeaderOff(bp), size, allocated)
	WriteTag(mem, FooterOff(mem, bp), size, allocated)
}

// AlignUp8 rounds n up to the next multiple of 8.
func AlignUp8(n uint32) uint32 {
	return (n + (DoubleWordSize - 1)) &^ (DoubleWordSize - 1)
}

// ReadAddr reads a raw 4-byte address-sized word at off. Used for the bin
// table and the free-list overlay, neither of which carries a size/alloc
// tag the way headers and footers do.
func ReadAddr(mem []byte, off Addr) Addr {
	return Addr(binary.LittleEndian.Uint32(mem[off : off+WordSize]))
}

// WriteAddr writes a raw 4-byte address-sized word at off.
func WriteAddr(mem []byte, off Addr, v Addr) {
	binary.LittleEndian.PutUint32(mem[off:off+WordSize], uint32(v))
}

// FreeNext reads the "next" free-list pointer from a free block's payload
// overlay (the first 4 bytes of payload).
func FreeNext(mem []byte, bp Addr) Addr {
	return ReadAddr(mem, bp)
}

// FreePrev reads the "prev" free-list pointer from a free block's payload
// overlay (the second 4 bytes of payload).
func FreePrev(mem []byte, bp Addr) Addr {
	return ReadAddr(mem, bp+WordSize)
}

// SetFreeNext writes the "next" free-list pointer into a free block's
// payload overlay.
func SetFreeNext(mem []byte, bp Addr, next Addr) {
	WriteAddr(mem, bp, next)
}

// SetFreePrev writes the "prev" free-list pointer into a free block's
// payload overlay.
func SetFreePrev(mem []byte, bp Addr, prev Addr) {
	WriteAddr(mem, bp+WordSize, prev)
}
