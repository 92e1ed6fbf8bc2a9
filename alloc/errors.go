package alloc

import "errors"

var (
	// ErrInit indicates that the initial bin-table/prologue/epilogue
	// reservation failed because the underlying Arena refused to grow.
	ErrInit = errors.New("alloc: failed to reserve initial heap region")

	// ErrOutOfMemory indicates that a heap extension needed to satisfy an
	// allocation or in-place reallocation failed. Allocate/Reallocate
	// themselves keep the C-shaped nil-return contract and never return
	// this value directly; it exists for callers built on top of the
	// Offset API (cmd/allocbench's trace replay) that want an error to
	// wrap rather than a bare nil.
	ErrOutOfMemory = errors.New("alloc: heap extension failed")
)
