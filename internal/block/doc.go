// Package block decodes and encodes the boundary-tag block format used by
// the allocator: a 4-byte header, a payload, and a trailing 4-byte footer
// that duplicates the header.
//
// Every address in this package is a block.Addr, a byte offset measured from
// index 0 of the arena's backing slice (heap_lo), never a Go pointer or
// unsafe.Pointer. Offsets stay meaningful whatever the backing array's
// address, so this package needs no unsafe at all.
//
// Functions here are pure: they trust their caller to pass valid offsets
// into mem and valid block boundaries. There is nothing to validate — the
// allocator package owns the invariants.
package block
