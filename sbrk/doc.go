// Package sbrk provides the heap-growth primitive the allocator builds on:
// a monotonically growable byte region plus bounds queries, modeled after a
// classic sbrk(2) break pointer.
//
// Arena is the interface alloc.Allocator depends on. Extend never shrinks
// the region and never moves previously-handed-out offsets: growth always
// appends.
package sbrk
