package alloc

import (
	"github.com/segheap/segalloc/internal/block"
	"github.com/segheap/segalloc/sbrk"
)

const (
	// binCount is the number of segregated size-class free lists.
	binCount = 8

	// binTableSize is the size in bytes of the bin-pointer table that
	// occupies the first binCount*4 bytes of every heap.
	binTableSize = binCount * block.WordSize // 32

	// minBlockSize is header(4) + next(4) + prev(4) + footer(4).
	minBlockSize = 16

	// defaultChunk is the default amount (in bytes) the heap grows by when
	// no free block is large enough to satisfy a request.
	defaultChunk = 4096

	// prologueSize is the size of the allocated sentinel block written
	// immediately after the bin table and alignment padding.
	prologueSize = 8

	// initReserve is the total bytes New asks the Arena for: the bin
	// table (32) plus padding+prologue (8) plus the epilogue slot (8).
	initReserve = binTableSize + 2*block.DoubleWordSize // 48

	// prologueBp is the fixed payload address of the prologue block. The
	// bin table, padding, and prologue occupy a fixed-size prefix, so this
	// is a constant rather than allocator state.
	prologueBp = block.Addr(binTableSize + block.WordSize + block.WordSize) // 40
)

// Options tunes the allocator's performance knobs. The bin boundaries
// themselves are fixed by the spec at 8 classes and are not configurable.
type Options struct {
	// Chunk is the minimum number of bytes requested from the Arena when
	// no existing free block satisfies an allocation. Defaults to 4096.
	Chunk uint32
}

// DefaultOptions returns the Options spec.md assumes throughout (CHUNK =
// 4096).
func DefaultOptions() Options {
	return Options{Chunk: defaultChunk}
}

// Stats reports allocator bookkeeping useful for benchmarking and
// diagnostics. It is produced on demand by (*Allocator).Stats and never
// mutates allocator state.
type Stats struct {
	HeapSize      uint32
	FreeBytes     uint32
	AllocBytes    uint32
	BlockCount    int
	FreeBlocks    int
	AllocCalls    uint64
	FreeCalls     uint64
	ReallocCalls  uint64
	GrowCalls     uint64
	SplitCount    uint64
	CoalesceCount uint64
	BinOccupancy  [binCount]int
	LargestFree   uint32
}

// Allocator is a single-threaded segregated free-list allocator over an
// Arena-backed heap region. It is not safe for concurrent use; callers must
// serialize their own access.
type Allocator struct {
	arena sbrk.Arena
	opts  Options

	// maxFree is a conservative upper bound on the size of the largest
	// free block in the heap. It may overstate (a block it refers to may
	// have since been allocated or split) but must never understate; it
	// exists only to let findFit short-circuit a guaranteed miss before
	// walking any bin, per spec.md §9's "largest-free cache" design note.
	maxFree uint32

	stats Stats
}

func (al *Allocator) mem() []byte {
	return al.arena.Bytes()
}
