//go:build linux

package sbrk

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/segheap/segalloc/internal/block"
)

// defaultOSArenaReservation is the virtual address range reserved up front
// by NewOSArena. Reserving it costs no physical memory until Extend commits
// pages into it, so a generous reservation is cheap.
const defaultOSArenaReservation = 1 << 30 // 1 GiB

// osArena backs the heap region with a real mmap reservation, following the
// same None -> Reserved -> Ready progression the teacher's OS memory
// abstraction layer documents for the Go runtime's own heap: the whole
// region is reserved PROT_NONE up front (Reserved), and Extend transitions
// only the newly needed pages to PROT_READ|PROT_WRITE (Ready) via mprotect.
// Because the mapping is never moved (no mremap), every payload pointer
// handed out by the allocator stays valid for the arena's lifetime, exactly
// like the plain slice-backed Arena.
type osArena struct {
	mem      []byte // full reservation, PROT_NONE beyond `used`
	used     uint32
	pageSize uint32
}

// NewOSArena reserves defaultOSArenaReservation bytes of anonymous address
// space on Linux. The returned Arena starts at zero used bytes.
func NewOSArena() (Arena, error) {
	return NewOSArenaWithCapacity(defaultOSArenaReservation)
}

// NewOSArenaWithCapacity reserves a specific number of bytes instead of the
// default.
func NewOSArenaWithCapacity(max uint32) (Arena, error) {
	mem, err := unix.Mmap(
		-1, 0, int(max),
		unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return nil, fmt.Errorf("sbrk: reserve %d bytes: %w", max, err)
	}
	return &osArena{mem: mem, pageSize: uint32(os.Getpagesize())}, nil
}

func (a *osArena) alignDownPage(n uint32) uint32 {
	return n - n%a.pageSize
}

func (a *osArena) alignUpPage(n uint32) uint32 {
	if rem := n % a.pageSize; rem != 0 {
		return n + (a.pageSize - rem)
	}
	return n
}

func (a *osArena) Extend(n uint32) (block.Addr, bool) {
	newUsed := a.used + n
	if newUsed > uint32(len(a.mem)) {
		return 0, false
	}

	start := a.alignDownPage(a.used)
	end := a.alignUpPage(newUsed)
	if end > start {
		if err := unix.Mprotect(a.mem[start:end], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, false
		}
	}

	base := a.used
	a.used = newUsed
	return block.Addr(base), true
}

func (a *osArena) Lo() block.Addr { return 0 }
func (a *osArena) Hi() block.Addr { return block.Addr(a.used) }
func (a *osArena) Size() uint32   { return a.used }
func (a *osArena) Bytes() []byte  { return a.mem[:a.used] }

// Close releases the entire reservation, committed or not. Callers that
// construct an osArena directly are responsible for calling this once the
// allocator built on top of it is no longer in use.
func (a *osArena) Close() error {
	if a.mem == nil {
		return nil
	}
	if err := unix.Munmap(a.mem); err != nil {
		return fmt.Errorf("sbrk: munmap: %w", err)
	}
	a.mem = nil
	return nil
}
