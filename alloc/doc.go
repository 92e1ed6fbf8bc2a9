// Package alloc implements a single-threaded, segregated free-list dynamic
// memory allocator over a growable byte-slice heap.
//
// # Overview
//
// Allocator tracks live and free regions of an sbrk.Arena using boundary
// tags (duplicate header/footer size+allocated words at the start and end
// of every block) and 8 segregated free lists bucketed by doubling size
// classes. Allocation is first-fit within a size class, growing lazily
// upward through coarser classes; freeing eagerly coalesces with both
// neighbors.
//
// # Usage Example
//
//	a := sbrk.NewArena()
//	al, err := alloc.New(a)
//	if err != nil {
//	    return err
//	}
//
//	p := al.Allocate(128)
//	if p == nil {
//	    return errors.New("out of memory")
//	}
//	al.Free(p)
//
// # Size Classes
//
// Bins double starting at 32 bytes, clamped at 8 classes:
//
//	Bin 0: <=   32 bytes
//	Bin 1: <=   64 bytes
//	Bin 2: <=  128 bytes
//	Bin 3: <=  256 bytes
//	Bin 4: <=  512 bytes
//	Bin 5: <= 1024 bytes
//	Bin 6: <= 2048 bytes
//	Bin 7:  > 2048 bytes
//
// # Addressing
//
// Because the backing slice's address can move if the caller grows it
// without preserving identity, Allocator never stores raw pointers
// internally. Every free-list and bin-table entry is a block.Addr — a
// uint32 byte offset from the arena's logical start. Allocate and Free
// convert to and from unsafe.Pointer at the API boundary; AllocateOffset
// and FreeOffset expose the same operations in terms of block.Addr
// directly, for callers (tests, the bundled invariant checker) that want
// to manipulate the heap without going through unsafe.
//
// # Thread Safety
//
// Allocator is not safe for concurrent use. Callers must serialize their
// own access.
//
// # Related Packages
//
//   - github.com/segheap/segalloc/sbrk: heap growth primitive
//   - github.com/segheap/segalloc/internal/block: boundary-tag encoding
package alloc
