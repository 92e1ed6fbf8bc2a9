package alloc

import "github.com/segheap/segalloc/internal/block"

// coalesce merges bp, a free block, with any free neighbors and reinserts
// the result into the appropriate bin. It returns the payload address of
// the (possibly larger) merged block, per spec.md §4.3's four-case table.
//
// The "both neighbors free" case removes both prev and next from their
// bins before merging; removing prev twice, as the block it was distilled
// from does, would leave next's bin pointing at a block that is about to be
// overwritten as payload.
func coalesce(al *Allocator, bp block.Addr) block.Addr {
	mem := al.mem()
	size := block.SizeAt(mem, block.HeaderOff(bp))

	prevFooterOff := bp - block.DoubleWordSize
	prevAlloc := block.AllocatedAt(mem, prevFooterOff)

	nextBp := block.NextBlock(mem, bp)
	nextAlloc := block.AllocatedAt(mem, block.HeaderOff(nextBp))

	switch {
	case prevAlloc && nextAlloc:
		prepend(al, bp, size)
		return bp

	case prevAlloc && !nextAlloc:
		nextSize := block.SizeAt(mem, block.HeaderOff(nextBp))
		remove(al, nextBp, nextSize)
		size += nextSize
		block.WriteHeaderAndFooter(mem, bp, size, false)
		prepend(al, bp, size)
		al.stats.CoalesceCount++
		return bp

	case !prevAlloc && nextAlloc:
		prevBp := block.PrevBlock(mem, bp)
		prevSize := block.SizeAt(mem, prevFooterOff)
		remove(al, prevBp, prevSize)
		size += prevSize
		block.WriteHeaderAndFooter(mem, prevBp, size, false)
		prepend(al, prevBp, size)
		al.stats.CoalesceCount++
		return prevBp

	default: // both neighbors free
		prevBp := block.PrevBlock(mem, bp)
		prevSize := block.SizeAt(mem, prevFooterOff)
		nextSize := block.SizeAt(mem, block.HeaderOff(nextBp))
		remove(al, prevBp, prevSize)
		remove(al, nextBp, nextSize)
		size += prevSize + nextSize
		block.WriteHeaderAndFooter(mem, prevBp, size, false)
		prepend(al, prevBp, size)
		al.stats.CoalesceCount++
		return prevBp
	}
}
