package alloc

import "github.com/segheap/segalloc/internal/block"

// binForSize returns the segregated free-list bin index for a block of
// total size s, per spec.md §3.3: bin 0 covers <=32 bytes, bin k (1..6)
// covers (2^(k+4), 2^(k+5)] bytes, and bin 7 everything above 2048, i.e.
// doubling ranges starting at <=32, clamped to [0, binCount-1].
func binForSize(size uint32) int {
	bin := 0
	threshold := uint32(32)
	for size > threshold && bin < binCount-1 {
		threshold <<= 1
		bin++
	}
	return bin
}

func binHeadOff(bin int) block.Addr {
	return block.Addr(bin * block.WordSize)
}

func binHead(mem []byte, bin int) block.Addr {
	return block.ReadAddr(mem, binHeadOff(bin))
}

func setBinHead(mem []byte, bin int, bp block.Addr) {
	block.WriteAddr(mem, binHeadOff(bin), bp)
}

// prepend inserts bp, a free block of total size size, at the head of its
// bin's doubly linked list (LIFO insertion — O(1), and gives good temporal
// locality for short-lived allocations quickly re-satisfied from the same
// bin).
func prepend(al *Allocator, bp block.Addr, size uint32) {
	mem := al.mem()
	bin := binForSize(size)
	head := binHead(mem, bin)

	block.SetFreePrev(mem, bp, block.NullAddr)
	block.SetFreeNext(mem, bp, head)
	if head != block.NullAddr {
		block.SetFreePrev(mem, head, bp)
	}
	setBinHead(mem, bin, bp)

	if size > al.maxFree {
		al.maxFree = size
	}
}

// remove unlinks bp, a free block of total size size, from its bin's list.
func remove(al *Allocator, bp block.Addr, size uint32) {
	mem := al.mem()
	bin := binForSize(size)
	prev := block.FreePrev(mem, bp)
	next := block.FreeNext(mem, bp)

	switch {
	case prev == block.NullAddr && next == block.NullAddr:
		setBinHead(mem, bin, block.NullAddr)
	case prev == block.NullAddr:
		setBinHead(mem, bin, next)
		block.SetFreePrev(mem, next, block.NullAddr)
	case next == block.NullAddr:
		block.SetFreeNext(mem, prev, block.NullAddr)
	default:
		block.SetFreeNext(mem, prev, next)
		block.SetFreePrev(mem, next, prev)
	}
}
