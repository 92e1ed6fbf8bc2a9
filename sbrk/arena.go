package sbrk

import "github.com/segheap/segalloc/internal/block"

// Arena is the heap-growth primitive the allocator consumes. It is the only
// component responsible for the region ever getting bigger; it never
// shrinks it.
//
// Implementations must guarantee that once a byte has been handed out by
// Extend, its address within the slice returned by Bytes never changes for
// the lifetime of the Arena — the allocator hands payload pointers straight
// into this backing array, so growth must never be a copy-and-move.
type Arena interface {
	// Extend advances the heap's high-water mark by n bytes, zero-filled,
	// and returns the offset the new region starts at. ok is false if the
	// arena refuses to grow (e.g. it is capped, or a real OS mapping could
	// not be extended).
	Extend(n uint32) (base block.Addr, ok bool)

	// Lo returns the offset of the first byte of the region. It is always
	// zero: offsets in this package are always relative to index 0 of the
	// backing slice.
	Lo() block.Addr

	// Hi returns the offset one past the last valid byte of the region.
	Hi() block.Addr

	// Size returns Hi() - Lo().
	Size() uint32

	// Bytes returns the backing slice, sized to the current high-water
	// mark. Unlike a naively grown slice, the array underlying this slice
	// is stable: re-fetching Bytes after a later Extend returns a longer
	// slice over the *same* array, never a relocated copy.
	Bytes() []byte
}

// defaultArenaCapacity is the virtual reservation made by NewArena. It
// bounds how large the heap can ever grow but costs nothing until touched
// (make's zero-fill is lazy at the OS level for slices this size on every
// platform this module targets).
const defaultArenaCapacity = 16 << 20 // 16 MiB

// arena is the default, portable Arena backend. It pre-reserves a fixed
// capacity up front and grows only by re-slicing within that capacity —
// the same "reserve big, commit as needed" shape as the teacher's
// sysReserve/sysMap split, minus the OS calls a plain Go slice doesn't need.
type arena struct {
	mem []byte // len == logical size; cap == capacity, fixed at construction
}

// NewArena creates an Arena with the default capacity. The allocator's
// first call is always its own 48-byte bin-table/prologue/epilogue
// reservation.
func NewArena() Arena {
	return NewArenaWithCapacity(defaultArenaCapacity)
}

// NewArenaWithCapacity creates an Arena that can never grow past max bytes.
func NewArenaWithCapacity(max uint32) Arena {
	return &arena{mem: make([]byte, 0, max)}
}

// NewCappedArena is an alias for NewArenaWithCapacity kept for call sites
// (and tests) that want to name the intent of simulating an out-of-memory
// condition rather than a generic capacity choice — see spec.md §8.4
// scenario 6.
func NewCappedArena(limit uint32) Arena {
	return NewArenaWithCapacity(limit)
}

func (a *arena) Extend(n uint32) (block.Addr, bool) {
	newLen := len(a.mem) + int(n)
	if newLen > cap(a.mem) {
		return 0, false
	}
	base := block.Addr(len(a.mem))
	a.mem = a.mem[:newLen]
	return base, true
}

func (a *arena) Lo() block.Addr { return 0 }
func (a *arena) Hi() block.Addr { return block.Addr(len(a.mem)) }
func (a *arena) Size() uint32   { return uint32(len(a.mem)) }
func (a *arena) Bytes() []byte  { return a.mem }
