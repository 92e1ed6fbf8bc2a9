package alloc

import "github.com/segheap/segalloc/internal/block"

// findFit walks the segregated bins starting at binForSize(asize) and
// returns the first free block large enough to hold asize bytes, or
// NullAddr if none exists. It does not stop at the first bin whose list is
// empty — within a satisfying bin, and every coarser one, it walks the
// whole list before moving on, since a bin's upper size bound is not a
// guarantee every block in it is large enough.
func findFit(al *Allocator, asize uint32) block.Addr {
	if asize > al.maxFree {
		return block.NullAddr
	}

	mem := al.mem()
	for bin := binForSize(asize); bin < binCount; bin++ {
		for bp := binHead(mem, bin); bp != block.NullAddr; bp = block.FreeNext(mem, bp) {
			if block.SizeAt(mem, block.HeaderOff(bp)) >= asize {
				return bp
			}
		}
	}
	return block.NullAddr
}

// place removes bp (a free block known to be at least asize bytes) from
// its bin, splits off a trailing free remainder when the leftover is at
// least minBlockSize, and marks the (possibly shrunk) block allocated.
func place(al *Allocator, bp block.Addr, asize uint32) {
	mem := al.mem()
	freeSize := block.SizeAt(mem, block.HeaderOff(bp))
	remove(al, bp, freeSize)

	if remainder := freeSize - asize; remainder >= minBlockSize {
		block.WriteHeaderAndFooter(mem, bp, asize, true)

		freeBp := bp + block.Addr(asize)
		block.WriteHeaderAndFooter(mem, freeBp, remainder, false)
		prepend(al, freeBp, remainder)
		al.stats.SplitCount++
		return
	}

	block.WriteHeaderAndFooter(mem, bp, freeSize, true)
}

// settleExpandedBlock writes bp as an allocated block of size asize,
// splitting off a trailing free remainder when combined - asize is at
// least minBlockSize, exactly like place's split decision. It is used by
// ReallocateOffset's in-place-expansion paths, where the free space has
// already been unlinked from its bin by the caller. The remainder is
// coalesced with the following block, which may still be free when only
// the previous neighbor was absorbed.
func settleExpandedBlock(al *Allocator, bp block.Addr, combined, asize uint32) {
	mem := al.mem()
	if remainder := combined - asize; remainder >= minBlockSize {
		block.WriteHeaderAndFooter(mem, bp, asize, true)
		freeBp := bp + block.Addr(asize)
		block.WriteHeaderAndFooter(mem, freeBp, remainder, false)
		coalesce(al, freeBp)
		al.stats.SplitCount++
		return
	}
	block.WriteHeaderAndFooter(mem, bp, combined, true)
}
