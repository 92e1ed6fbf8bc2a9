package alloc

import (
	"fmt"

	"github.com/segheap/segalloc/internal/block"
)

// Check walks the heap and every bin's free list, reporting every
// structural invariant violation it finds rather than stopping at the
// first one. A nil/empty result means the heap is consistent.
func Check(al *Allocator) []error {
	var errs []error
	mem := al.mem()
	epilogueBp := al.arena.Hi()

	free := make(map[block.Addr]uint32)

	prevAllocated := true
	bp := prologueBp + block.Addr(prologueSize)
	for bp != epilogueBp {
		hdrOff := block.HeaderOff(bp)
		size, allocated := block.ReadTag(mem, hdrOff)

		if size == 0 {
			errs = append(errs, fmt.Errorf("alloc: block at %d has zero size before epilogue", bp))
			break
		}
		if size%block.DoubleWordSize != 0 {
			errs = append(errs, fmt.Errorf("alloc: block at %d has size %d, not a multiple of %d", bp, size, block.DoubleWordSize))
		}
		if uint32(bp)%block.DoubleWordSize != 0 {
			errs = append(errs, fmt.Errorf("alloc: block at %d is not 8-byte aligned", bp))
		}

		ftrOff := block.FooterOff(mem, bp)
		ftrSize, ftrAlloc := block.ReadTag(mem, ftrOff)
		if ftrSize != size || ftrAlloc != allocated {
			errs = append(errs, fmt.Errorf("alloc: block at %d header (%d,%v) does not match footer (%d,%v)", bp, size, allocated, ftrSize, ftrAlloc))
		}

		if !allocated {
			if !prevAllocated {
				errs = append(errs, fmt.Errorf("alloc: free block at %d is adjacent to another free block", bp))
			}
			free[bp] = size
		}
		prevAllocated = allocated

		next := block.NextBlock(mem, bp)
		if next <= bp {
			errs = append(errs, fmt.Errorf("alloc: block at %d does not advance (next=%d)", bp, next))
			break
		}
		bp = next
	}
	if bp != epilogueBp {
		errs = append(errs, fmt.Errorf("alloc: heap walk ended at %d, expected epilogue at %d", bp, epilogueBp))
	}

	seen := make(map[block.Addr]bool, len(free))
	for bin := 0; bin < binCount; bin++ {
		var prev block.Addr
		for cur := binHead(mem, bin); cur != block.NullAddr; cur = block.FreeNext(mem, cur) {
			size, ok := free[cur]
			if !ok {
				errs = append(errs, fmt.Errorf("alloc: bin %d lists %d but it is not a free block", bin, cur))
			}

			if got := binForSize(size); size > 0 && got != bin {
				errs = append(errs, fmt.Errorf("alloc: block at %d (size %d) belongs in bin %d, found in bin %d", cur, size, got, bin))
			}
			if seen[cur] {
				errs = append(errs, fmt.Errorf("alloc: block at %d appears in more than one free list", cur))
			}
			seen[cur] = true

			if block.FreePrev(mem, cur) != prev {
				errs = append(errs, fmt.Errorf("alloc: block at %d's free-prev does not point back to %d", cur, prev))
			}
			prev = cur
		}
	}

	for bp, size := range free {
		if !seen[bp] {
			errs = append(errs, fmt.Errorf("alloc: free block at %d (size %d) is not reachable from any bin", bp, size))
		}
	}

	return errs
}
