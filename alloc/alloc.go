package alloc

import (
	"math"
	"unsafe"

	"github.com/segheap/segalloc/internal/block"
	"github.com/segheap/segalloc/sbrk"
)

// maxRequestSize bounds what adjustedSize can safely pack into a uint32
// header word (size plus the 8 bytes of header/footer overhead, rounded up
// to a multiple of 8).
const maxRequestSize = uintptr(math.MaxUint32 - block.DoubleWordSize - (block.DoubleWordSize - 1))

// New builds an Allocator over a, writing the bin table, prologue, and
// epilogue into a's first initReserve bytes. a must be freshly constructed;
// New extends it and assumes nothing has been written to it yet.
func New(a sbrk.Arena, opts ...Options) (*Allocator, error) {
	al := &Allocator{arena: a, opts: DefaultOptions()}
	if len(opts) > 0 {
		al.opts = opts[0]
	}

	if _, ok := a.Extend(initReserve); !ok {
		return nil, ErrInit
	}

	mem := al.mem()
	block.WriteHeaderAndFooter(mem, prologueBp, prologueSize, true)
	epilogueBp := prologueBp + block.Addr(prologueSize)
	block.WriteTag(mem, block.HeaderOff(epilogueBp), 0, true)

	al.stats.HeapSize = al.arena.Size()
	return al, nil
}

// adjustedSize converts a requested payload size into a total block size:
// 8 bytes of header/footer overhead, rounded up to a multiple of 8, with a
// minBlockSize floor so every free block can carry a free-list overlay.
func adjustedSize(n uint32) uint32 {
	total := block.AlignUp8(n + block.DoubleWordSize)
	if total < minBlockSize {
		return minBlockSize
	}
	return total
}

// ptr converts a block address into an unsafe.Pointer into the arena's
// current backing array.
func (al *Allocator) ptr(bp block.Addr) unsafe.Pointer {
	mem := al.mem()
	return unsafe.Pointer(&mem[bp])
}

// addrOf is the inverse of ptr: it recovers the block address of a pointer
// previously returned by Allocate/Reallocate/ptr.
func (al *Allocator) addrOf(p unsafe.Pointer) block.Addr {
	mem := al.mem()
	return block.Addr(uintptr(p) - uintptr(unsafe.Pointer(&mem[0])))
}

// growHeap asks the Arena for at least n more bytes, stitches the new
// region onto the block the epilogue used to terminate, writes a fresh
// epilogue, and coalesces the result with whatever free block preceded it.
// It returns the payload address of the (possibly merged) free block.
func growHeap(al *Allocator, n uint32) (block.Addr, bool) {
	oldHi := al.arena.Hi()
	if _, ok := al.arena.Extend(n); !ok {
		return 0, false
	}

	mem := al.mem()
	newBp := oldHi
	block.WriteHeaderAndFooter(mem, newBp, n, false)

	newEpilogueBp := newBp + block.Addr(n)
	block.WriteTag(mem, block.HeaderOff(newEpilogueBp), 0, true)

	al.stats.GrowCalls++
	al.stats.HeapSize = al.arena.Size()

	return coalesce(al, newBp), true
}

// AllocateOffset is the offset-addressed counterpart of Allocate. It
// returns block.NullAddr on the same conditions under which Allocate
// returns nil.
func (al *Allocator) AllocateOffset(n uintptr) block.Addr {
	if n == 0 || n > maxRequestSize {
		return block.NullAddr
	}

	asize := adjustedSize(uint32(n))
	al.stats.AllocCalls++

	if bp := findFit(al, asize); bp != block.NullAddr {
		place(al, bp, asize)
		al.stats.AllocBytes += block.SizeAt(al.mem(), block.HeaderOff(bp))
		return bp
	}

	grow := asize
	if al.opts.Chunk > grow {
		grow = al.opts.Chunk
	}

	bp, ok := growHeap(al, grow)
	if !ok {
		return block.NullAddr
	}
	place(al, bp, asize)
	al.stats.AllocBytes += block.SizeAt(al.mem(), block.HeaderOff(bp))
	return bp
}

// Allocate reserves at least n bytes and returns a pointer to the start of
// the reserved region, or nil if n is zero, too large to represent, or the
// heap could not grow to satisfy it.
func (al *Allocator) Allocate(n uintptr) unsafe.Pointer {
	bp := al.AllocateOffset(n)
	if bp == block.NullAddr {
		return nil
	}
	return al.ptr(bp)
}

// FreeOffset is the offset-addressed counterpart of Free.
func (al *Allocator) FreeOffset(bp block.Addr) {
	if bp == block.NullAddr {
		return
	}
	al.stats.FreeCalls++

	mem := al.mem()
	if !block.AllocatedAt(mem, block.HeaderOff(bp)) {
		// Already free: a no-op, not a second coalesce. Re-entering
		// coalesce here would prepend bp into its bin a second time
		// while it's still the bin's head, producing a self-referencing
		// free-list node.
		return
	}

	size := block.SizeAt(mem, block.HeaderOff(bp))
	block.WriteHeaderAndFooter(mem, bp, size, false)
	al.stats.AllocBytes -= size

	coalesce(al, bp)
}

// Free releases a block previously returned by Allocate or Reallocate.
// Freeing nil is a no-op, and so is freeing a pointer whose block header
// already reads free.
func (al *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	al.FreeOffset(al.addrOf(p))
}

// ReallocateOffset is the offset-addressed counterpart of Reallocate.
func (al *Allocator) ReallocateOffset(bp block.Addr, n uintptr) block.Addr {
	al.stats.ReallocCalls++

	if bp == block.NullAddr {
		return al.AllocateOffset(n)
	}
	if n == 0 {
		al.FreeOffset(bp)
		return block.NullAddr
	}
	if n > maxRequestSize {
		return block.NullAddr
	}

	mem := al.mem()
	oldSize := block.SizeAt(mem, block.HeaderOff(bp))
	asize := adjustedSize(uint32(n))

	if asize <= oldSize {
		// Shrinking in place never splits off the leftover tail; the
		// block keeps its original size until something else touches it.
		return bp
	}

	nextBp := block.NextBlock(mem, bp)
	nextFree := !block.AllocatedAt(mem, block.HeaderOff(nextBp))
	var nextSize uint32
	if nextFree {
		nextSize = block.SizeAt(mem, block.HeaderOff(nextBp))
	}

	prevBp := block.PrevBlock(mem, bp)
	prevFree := !block.AllocatedAt(mem, bp-block.DoubleWordSize)
	var prevSize uint32
	if prevFree {
		prevSize = block.SizeAt(mem, bp-block.DoubleWordSize)
	}

	payload := oldSize - block.DoubleWordSize

	// Path 1: the next block alone is free and big enough.
	if nextFree && oldSize+nextSize >= asize {
		remove(al, nextBp, nextSize)
		settleExpandedBlock(al, bp, oldSize+nextSize, asize)
		al.stats.AllocBytes += block.SizeAt(mem, block.HeaderOff(bp)) - oldSize
		return bp
	}

	// Path 2: the previous block alone is free and big enough. The
	// payload has to move down to prevBp since that's where the merged
	// block's header now lives.
	if prevFree && oldSize+prevSize >= asize {
		remove(al, prevBp, prevSize)
		copy(mem[prevBp:prevBp+block.Addr(payload)], mem[bp:bp+block.Addr(payload)])
		settleExpandedBlock(al, prevBp, oldSize+prevSize, asize)
		al.stats.AllocBytes += block.SizeAt(mem, block.HeaderOff(prevBp)) - oldSize
		return prevBp
	}

	// Path 3: neither neighbor alone is enough, but both together are.
	if nextFree && prevFree && oldSize+prevSize+nextSize >= asize {
		remove(al, prevBp, prevSize)
		remove(al, nextBp, nextSize)
		copy(mem[prevBp:prevBp+block.Addr(payload)], mem[bp:bp+block.Addr(payload)])
		settleExpandedBlock(al, prevBp, oldSize+prevSize+nextSize, asize)
		al.stats.AllocBytes += block.SizeAt(mem, block.HeaderOff(prevBp)) - oldSize
		return prevBp
	}

	newBp := al.AllocateOffset(n)
	if newBp == block.NullAddr {
		return block.NullAddr
	}

	mem = al.mem()
	copy(mem[newBp:newBp+block.Addr(payload)], mem[bp:bp+block.Addr(payload)])
	al.FreeOffset(bp)
	return newBp
}

// Reallocate resizes a block previously returned by Allocate, preserving
// its contents up to the smaller of the old and new sizes. A nil p behaves
// like Allocate; a zero n behaves like Free and returns nil. A failed
// growth leaves p untouched and returns nil.
func (al *Allocator) Reallocate(p unsafe.Pointer, n uintptr) unsafe.Pointer {
	var bp block.Addr
	if p != nil {
		bp = al.addrOf(p)
	}
	newBp := al.ReallocateOffset(bp, n)
	if newBp == block.NullAddr {
		return nil
	}
	return al.ptr(newBp)
}

// Stats reports a snapshot of allocator bookkeeping, walking the heap once
// to recompute the structural fields (block/bin counts, largest free
// block) alongside the running counters.
func (al *Allocator) Stats() Stats {
	s := al.stats
	s.HeapSize = al.arena.Size()

	mem := al.mem()
	epilogueBp := al.arena.Hi()

	for bp := prologueBp + block.Addr(prologueSize); bp != epilogueBp; bp = block.NextBlock(mem, bp) {
		size, allocated := block.ReadTag(mem, block.HeaderOff(bp))
		s.BlockCount++
		if allocated {
			continue
		}
		s.FreeBlocks++
		s.FreeBytes += size
		if size > s.LargestFree {
			s.LargestFree = size
		}
		s.BinOccupancy[binForSize(size)]++
	}

	return s
}
